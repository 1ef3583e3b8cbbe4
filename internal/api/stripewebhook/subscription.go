package stripewebhooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"planner-app/database"
	"planner-app/internal/domain/plans"
	"planner-app/internal/domain/users"
	substatus "planner-app/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

func (h *Handler) handleCheckoutSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	const op = "stripewebhooks.handleCheckoutSessionCompleted"

	if session.Subscription == nil || session.Subscription.ID == "" {
		// one-off payments carry no subscription
		return nil
	}

	sub, err := h.fetcher.GetSubscription(session.Subscription.ID)
	if err != nil {
		return fmt.Errorf("%s: fetch subscription: %w", op, err)
	}

	ref, _ := parseUserID(session.ClientReferenceID)
	customerID := ""
	if session.Customer != nil {
		customerID = session.Customer.ID
	}
	return h.applySubscription(ctx, sub, ref, customerID)
}

// applySubscription writes a subscription's tier, status and end date onto
// its owner. userHint and customerID come from a checkout session when
// available. Events for unknown users are acknowledged and dropped.
func (h *Handler) applySubscription(ctx context.Context, sub *stripe.Subscription, userHint uint, customerID string) error {
	const op = "stripewebhooks.applySubscription"

	if sub == nil || sub.ID == "" {
		return nil
	}

	user, err := h.findUser(ctx, sub, userHint)
	if errors.Is(err, database.ErrNotFound) {
		h.log.Warn("stripe subscription without matching user", slog.String("subscription_id", sub.ID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	updates := subscriptionUpdates(sub, h.proPriceID)
	if customerID == "" && sub.Customer != nil {
		customerID = sub.Customer.ID
	}
	if customerID != "" {
		updates["stripe_customer_id"] = customerID
	}

	if err := h.store.UpdateUser(ctx, user.ID, updates); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	h.log.Info("subscription synced",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("subscription_id", sub.ID),
		slog.Any("tier", updates["subscription_tier"]),
		slog.Any("status", updates["subscription_status"]),
	)
	return nil
}

func (h *Handler) findUser(ctx context.Context, sub *stripe.Subscription, hint uint) (users.User, error) {
	if id := userIDFromMetadata(sub.Metadata); id != 0 {
		hint = id
	}
	if hint != 0 {
		u, err := h.store.GetUserByID(ctx, hint)
		if err == nil || !errors.Is(err, database.ErrNotFound) {
			return u, err
		}
	}
	return h.store.GetUserByStripeSubscription(ctx, sub.ID)
}

// subscriptionUpdates maps a Stripe subscription onto the user columns read
// by the access resolver.
func subscriptionUpdates(sub *stripe.Subscription, proPriceID string) map[string]interface{} {
	tier := plans.TierFree
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item != nil && item.Price != nil && plans.TierForPrice(item.Price.ID, proPriceID) == plans.TierPro {
				tier = plans.TierPro
				break
			}
		}
	}

	status := substatus.NormalizeStripeStatus(string(sub.Status))

	var endDate interface{}
	switch {
	case sub.EndedAt > 0:
		endDate = time.Unix(sub.EndedAt, 0).UTC()
	case sub.CancelAt > 0:
		endDate = time.Unix(sub.CancelAt, 0).UTC()
	case sub.CurrentPeriodEnd > 0:
		endDate = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}

	return map[string]interface{}{
		"subscription_tier":      tier,
		"subscription_status":    status,
		"subscription_end_date":  endDate,
		"stripe_subscription_id": sub.ID,
	}
}

func userIDFromMetadata(md map[string]string) uint {
	if md == nil {
		return 0
	}
	id, _ := parseUserID(md["user_id"])
	return id
}

func parseUserID(s string) (uint, bool) {
	if s == "" {
		return 0, false
	}
	uid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(uid), true
}
