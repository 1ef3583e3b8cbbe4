package billing

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"planner-app/internal/app/http/middleware"
	"planner-app/internal/domain/users"
	substatus "planner-app/internal/infra/stripe"
	"planner-app/internal/lib/sl"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

type Store interface {
	GetUserByID(ctx context.Context, id uint) (users.User, error)
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) error
}

// Gateway is the slice of the Stripe API used for self-service billing.
type Gateway interface {
	CreateCustomer(params *stripe.CustomerParams) (string, error)
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (string, error)
	CreatePortalSession(params *stripe.BillingPortalSessionParams) (string, error)
}

type Handler struct {
	store      Store
	gateway    Gateway
	log        *slog.Logger
	proPriceID string
	appURL     string
}

func NewHandler(store Store, gateway Gateway, log *slog.Logger, proPriceID, appURL string) *Handler {
	return &Handler{
		store:      store,
		gateway:    gateway,
		log:        log.With(slog.String("component", "billing")),
		proPriceID: proPriceID,
		appURL:     appURL,
	}
}

// POST /create-checkout-session
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	if h.proPriceID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Pro price not configured"})
		return
	}

	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	if substatus.GrantsAccess(user.SubscriptionStatus) && user.StripeSubscriptionID != nil && *user.StripeSubscriptionID != "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Subscription already active, use the billing portal"})
		return
	}

	// ensure stripe customer
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		cusID, err := h.gateway.CreateCustomer(&stripe.CustomerParams{
			Email:    stripe.String(user.Email),
			Metadata: map[string]string{"user_id": fmt.Sprint(user.ID)},
		})
		if err != nil {
			h.log.Error("failed to create stripe customer", slog.Uint64("user_id", uint64(user.ID)), sl.Err(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
			return
		}
		if err := h.store.UpdateUser(c.Request.Context(), user.ID, map[string]interface{}{"stripe_customer_id": cusID}); err != nil {
			h.log.Error("failed to store stripe customer", slog.Uint64("user_id", uint64(user.ID)), sl.Err(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store Stripe customer"})
			return
		}
		user.StripeCustomerID = stripe.String(cusID)
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(h.appURL + "/account?upgraded=1"),
		CancelURL:  stripe.String(h.appURL + "/account?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(*user.StripeCustomerID),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(h.proPriceID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),

		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"user_id": fmt.Sprint(user.ID)},
		},
	}

	url, err := h.gateway.CreateCheckoutSession(params)
	if err != nil {
		h.log.Error("failed to create checkout session", slog.Uint64("user_id", uint64(user.ID)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// POST /billing-portal
func (h *Handler) CreateBillingPortal(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No Stripe customer yet (subscribe first)"})
		return
	}

	url, err := h.gateway.CreatePortalSession(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(h.appURL + "/account"),
	})
	if err != nil {
		h.log.Error("failed to create portal session", slog.Uint64("user_id", uint64(user.ID)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) loadUser(c *gin.Context) (users.User, bool) {
	userID := c.GetUint(middleware.KeyUserID)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return users.User{}, false
	}
	user, err := h.store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return users.User{}, false
	}
	return user, true
}
