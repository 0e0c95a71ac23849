package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/subscription"
)

// StripeProvider implements Provider against Stripe. The API key is
// set globally via stripe.Key in main.
type StripeProvider struct {
	// PlanPriceID is the Stripe price for the recurring support plan.
	PlanPriceID string
}

// NewStripeProvider configures the Stripe key and returns a provider.
func NewStripeProvider(secretKey, planPriceID string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{PlanPriceID: planPriceID}
}

// CreatePayment creates a PaymentIntent for a one-off donation.
func (p *StripeProvider) CreatePayment(ctx context.Context, req Intent) (*Result, error) {
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(req.AmountCents),
		Currency:     stripe.String(req.Currency),
		ReceiptEmail: stripe.String(req.Email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("donation_reference", req.Reference)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Result{ProviderID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// CreateSubscription creates an incomplete subscription on the
// support plan and returns the first invoice's client secret.
func (p *StripeProvider) CreateSubscription(ctx context.Context, req Intent) (*Result, error) {
	if p.PlanPriceID == "" {
		return nil, fmt.Errorf("support plan price not configured")
	}

	custParams := &stripe.CustomerParams{
		Email: stripe.String(req.Email),
	}
	custParams.Context = ctx
	if req.Name != "" {
		custParams.Name = stripe.String(req.Name)
	}
	cust, err := customer.New(custParams)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	subParams := &stripe.SubscriptionParams{
		Customer: stripe.String(cust.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(p.PlanPriceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	subParams.Context = ctx
	subParams.AddMetadata("donation_reference", req.Reference)
	subParams.AddExpand("latest_invoice.payment_intent")

	sub, err := subscription.New(subParams)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	if sub.LatestInvoice == nil || sub.LatestInvoice.PaymentIntent == nil {
		return nil, fmt.Errorf("subscription %s has no payment intent", sub.ID)
	}

	return &Result{
		ProviderID:   sub.ID,
		ClientSecret: sub.LatestInvoice.PaymentIntent.ClientSecret,
	}, nil
}
