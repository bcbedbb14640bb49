// Package payments wraps the Stripe SDK behind a small client interface so
// checkout and webhook logic can be tested with fakes.
package payments

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/accountlink"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/mreichel/MarketStall/internal/pkg/env"
)

// Client is the surface of the payment processor this engine depends on:
// session creation (optionally on a connected account), session retrieval
// with line-item expansion, and connected-account onboarding links.
type Client interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams, connectedAccount string) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id, connectedAccount string, expand []string) (*stripe.CheckoutSession, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*stripe.AccountLink, error)
}

// StripeClient implements Client using the real Stripe SDK.
type StripeClient struct{}

// NewStripeClient creates a new Stripe client with the given API key.
func NewStripeClient(apiKey string) *StripeClient {
	stripe.Key = apiKey
	return &StripeClient{}
}

var defaultClient Client

// Setup initializes the package-level client from the environment.
func Setup() {
	defaultClient = NewStripeClient(env.GetEnv("STRIPE_SECRET_KEY", ""))
}

// GetClient returns the shared Stripe client.
func GetClient() Client {
	if defaultClient == nil {
		Setup()
	}
	return defaultClient
}

// CreateCheckoutSession creates a Stripe Checkout session. When
// connectedAccount is set the session is created on the tenant's connected
// account instead of the platform account.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams, connectedAccount string) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	if connectedAccount != "" {
		params.SetStripeAccount(connectedAccount)
	}
	return session.New(params)
}

// GetCheckoutSession retrieves a session, expanding the requested paths. The
// event's account context must be passed through for connected-account
// sessions or the lookup lands on the wrong account.
func (c *StripeClient) GetCheckoutSession(ctx context.Context, id, connectedAccount string, expand []string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	for _, e := range expand {
		params.AddExpand(e)
	}
	if connectedAccount != "" {
		params.SetStripeAccount(connectedAccount)
	}
	return session.Get(id, params)
}

// CreateAccountLink creates an account onboarding link for a Stripe Connect account.
func (c *StripeClient) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*stripe.AccountLink, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx
	return accountlink.New(params)
}
