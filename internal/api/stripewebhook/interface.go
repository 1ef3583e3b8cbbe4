package stripewebhooks

import (
	"context"

	"planner-app/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/subscription"
)

type Store interface {
	GetUserByID(ctx context.Context, id uint) (users.User, error)
	GetUserByStripeSubscription(ctx context.Context, subscriptionID string) (users.User, error)
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) error
}

// SubscriptionFetcher loads the full subscription behind a checkout session.
type SubscriptionFetcher interface {
	GetSubscription(id string) (*stripe.Subscription, error)
}

// StripeAPI fetches subscriptions with the package-level stripe.Key.
type StripeAPI struct{}

func (StripeAPI) GetSubscription(id string) (*stripe.Subscription, error) {
	return subscription.Get(id, nil)
}
