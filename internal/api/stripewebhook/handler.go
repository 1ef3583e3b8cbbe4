package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"planner-app/internal/lib/sl"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const maxBodyBytes = 65536

// errMalformed marks payloads Stripe should not retry.
var errMalformed = errors.New("malformed event payload")

type Handler struct {
	store      Store
	fetcher    SubscriptionFetcher
	log        *slog.Logger
	secret     string
	proPriceID string
}

func NewHandler(store Store, fetcher SubscriptionFetcher, log *slog.Logger, secret, proPriceID string) *Handler {
	return &Handler{
		store:      store,
		fetcher:    fetcher,
		log:        log.With(slog.String("component", "stripe_webhook")),
		secret:     secret,
		proPriceID: proPriceID,
	}
}

// POST /webhook
func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.log.Warn("stripe signature verification failed", sl.Err(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	handled, err := h.dispatch(c.Request.Context(), event)
	switch {
	case errors.Is(err, errMalformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		// 500 makes Stripe retry
		h.log.Error("stripe event failed", slog.String("event_id", event.ID), slog.String("type", string(event.Type)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
	case !handled:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	}
}

func (h *Handler) dispatch(ctx context.Context, event stripe.Event) (bool, error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return true, fmt.Errorf("%w: %v", errMalformed, err)
		}
		return true, h.handleCheckoutSessionCompleted(ctx, &session)

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return true, fmt.Errorf("%w: %v", errMalformed, err)
		}
		return true, h.applySubscription(ctx, &sub, 0, "")

	default:
		return false, nil
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
