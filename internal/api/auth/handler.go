package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"planner-app/database"
	"planner-app/internal/app/http/middleware"
	"planner-app/internal/domain/plans"
	"planner-app/internal/domain/users"
	"planner-app/internal/infra/stripe"
	"planner-app/internal/lib/metrics"
	"planner-app/internal/lib/password"
	"planner-app/internal/lib/sl"

	"github.com/gin-gonic/gin"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

type Handler struct {
	store  Store
	log    *slog.Logger
	secret string
	now    func() time.Time
}

func NewHandler(store Store, log *slog.Logger, secret string) *Handler {
	return &Handler{
		store:  store,
		log:    log.With(slog.String("component", "auth")),
		secret: secret,
		now:    time.Now,
	}
}

// POST /register
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !isEmailValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	if !password.IsStrong(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long and contain both letters and numbers"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetUserByEmail(ctx, email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		h.log.Error("failed to check email", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		h.log.Error("failed to hash password", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := users.User{
		Name:               strings.TrimSpace(input.Name),
		Email:              email,
		Password:           &hashed,
		AuthProvider:       users.ProviderLocal,
		Role:               users.RoleUser,
		SubscriptionTier:   plans.TierFree,
		SubscriptionStatus: stripe.StatusInactive,
	}
	if err := h.store.CreateUser(ctx, &user); err != nil {
		h.log.Warn("failed to create user", slog.String("email", email), sl.Err(err))
		c.JSON(http.StatusConflict, gin.H{"error": "Email may already exist"})
		return
	}

	h.log.Info("user registered", slog.Uint64("user_id", uint64(user.ID)))
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			h.log.Error("failed to load user", sl.Err(err))
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.Password == nil || *user.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Google sign-in"})
		return
	}

	needsRehash, err := password.Verify(*user.Password, input.Password)
	if err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			h.log.Error("failed to verify password", slog.Uint64("user_id", uint64(user.ID)), sl.Err(err))
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if needsRehash {
		h.upgradeLegacyHash(c, user.ID, input.Password)
	}

	token, err := issueAppJWT(user, h.secret, h.now())
	if err != nil {
		h.log.Error("failed to sign token", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// upgradeLegacyHash replaces a SHA-256 digest with bcrypt. Failure only costs
// another migration attempt on the next login, so it never blocks sign-in.
func (h *Handler) upgradeLegacyHash(c *gin.Context, userID uint, plain string) {
	hashed, err := password.Hash(plain)
	if err == nil {
		err = h.store.UpdatePasswordHash(c.Request.Context(), userID, hashed)
	}
	if err != nil {
		h.log.Warn("legacy password migration failed", slog.Uint64("user_id", uint64(userID)), sl.Err(err))
		return
	}
	metrics.LegacyPasswordMigrations.Inc()
	h.log.Info("legacy password migrated", slog.Uint64("user_id", uint64(userID)))
}

// POST /change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	userID := c.GetUint(middleware.KeyUserID)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !password.IsStrong(body.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 8 characters with letters and numbers"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUserByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if user.Password == nil || *user.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "This account does not have a password. Sign in with Google instead.",
		})
		return
	}

	if _, err := password.Verify(*user.Password, body.OldPassword); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
		return
	}

	hashed, err := password.Hash(body.NewPassword)
	if err != nil {
		h.log.Error("failed to hash password", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}
	if err := h.store.UpdatePasswordHash(ctx, user.ID, hashed); err != nil {
		h.log.Error("failed to store password", slog.Uint64("user_id", uint64(user.ID)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
