package billing

import (
	"github.com/stripe/stripe-go/v75"
	portalsession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/customer"
)

// StripeGateway calls the live Stripe API. stripe.Key must be set first.
type StripeGateway struct{}

func (StripeGateway) CreateCustomer(params *stripe.CustomerParams) (string, error) {
	cus, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return cus.ID, nil
}

func (StripeGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (string, error) {
	s, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

func (StripeGateway) CreatePortalSession(params *stripe.BillingPortalSessionParams) (string, error) {
	p, err := portalsession.New(params)
	if err != nil {
		return "", err
	}
	return p.URL, nil
}
