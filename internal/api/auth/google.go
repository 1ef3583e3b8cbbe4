package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"planner-app/config"
	"planner-app/database"
	"planner-app/internal/domain/plans"
	"planner-app/internal/domain/users"
	"planner-app/internal/infra/stripe"
	"planner-app/internal/lib/sl"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleIssuer     = "https://accounts.google.com"
	oauthStateCookie = "oauth_state"
)

func googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.GOOGLE_CLIENT_ID,
		ClientSecret: config.GOOGLE_CLIENT_SECRET,
		RedirectURL:  config.GOOGLE_REDIRECT_URL,
		Scopes: []string{
			oidc.ScopeOpenID,
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	// 5 minutes, HttpOnly
	c.SetCookie(oauthStateCookie, state, 300, "/", "", c.Request.TLS != nil, true)

	c.Redirect(http.StatusFound, googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	ctx := c.Request.Context()
	tok, err := googleOAuthConfig().Exchange(ctx, code)
	if err != nil {
		h.log.Warn("google code exchange failed", sl.Err(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to exchange code"})
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing id_token"})
		return
	}

	claims, err := verifyGoogleIDToken(ctx, rawIDToken)
	if err != nil {
		h.log.Warn("google id token rejected", sl.Err(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id_token"})
		return
	}

	user, err := h.findOrCreateGoogleUser(ctx, claims)
	if err != nil {
		h.log.Error("failed to resolve google user", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	tokenString, err := issueAppJWT(user, h.secret, h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}

	redirect := config.GOOGLE_FRONTEND_REDIRECT
	if redirect == "" {
		c.JSON(http.StatusOK, gin.H{"token": tokenString})
		return
	}
	c.Redirect(http.StatusFound, redirect+"?token="+url.QueryEscape(tokenString))
}

/* ---------------- helpers ---------------- */

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

func verifyGoogleIDToken(ctx context.Context, rawIDToken string) (*googleIDClaims, error) {
	const op = "auth.verifyGoogleIDToken"

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("%s: provider: %w", op, err)
	}

	idToken, err := provider.Verifier(&oidc.Config{ClientID: config.GOOGLE_CLIENT_ID}).Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%s: verify: %w", op, err)
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%s: claims: %w", op, err)
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, fmt.Errorf("%s: token missing required claims", op)
	}
	if !claims.EmailVerified {
		return nil, fmt.Errorf("%s: email not verified", op)
	}
	return &claims, nil
}

// findOrCreateGoogleUser matches by google sub, then links an existing email
// account, then creates a new free account.
func (h *Handler) findOrCreateGoogleUser(ctx context.Context, gc *googleIDClaims) (users.User, error) {
	const op = "auth.findOrCreateGoogleUser"

	user, err := h.store.GetUserByGoogleSub(ctx, gc.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return users.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err = h.store.GetUserByEmail(ctx, gc.Email)
	switch {
	case err == nil:
		if user.GoogleSub == nil {
			if err := h.store.UpdateUser(ctx, user.ID, map[string]interface{}{"google_sub": gc.Sub}); err != nil {
				return users.User{}, fmt.Errorf("%s: link: %w", op, err)
			}
			sub := gc.Sub
			user.GoogleSub = &sub
			h.log.Info("linked google account", slog.Uint64("user_id", uint64(user.ID)))
		}
		return user, nil
	case !errors.Is(err, database.ErrNotFound):
		return users.User{}, fmt.Errorf("%s: %w", op, err)
	}

	sub := gc.Sub
	user = users.User{
		Name:               firstNonEmpty(gc.GivenName, gc.Name),
		Email:              gc.Email,
		AuthProvider:       users.ProviderGoogle,
		GoogleSub:          &sub,
		Role:               users.RoleUser,
		SubscriptionTier:   plans.TierFree,
		SubscriptionStatus: stripe.StatusInactive,
	}
	if err := h.store.CreateUser(ctx, &user); err != nil {
		return users.User{}, fmt.Errorf("%s: create: %w", op, err)
	}
	return user, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
