// Package checkout implements the marketplace purchase flow: money split
// calculation, Stripe checkout session construction (platform-direct vs
// connected-account mode) and tenant onboarding links.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"

	"github.com/mreichel/MarketStall/app/models"
	"github.com/mreichel/MarketStall/app/repository"
	"github.com/mreichel/MarketStall/internal/pkg/apperrors"
	"github.com/mreichel/MarketStall/internal/pkg/env"
	"github.com/mreichel/MarketStall/internal/pkg/payments"
)

// Config carries the checkout-relevant runtime settings.
type Config struct {
	// AppURL is the public base URL of the platform, e.g. https://marketstall.io
	AppURL string
	// RootDomain hosts tenant storefront subdomains in production
	RootDomain string
	// SubdomainRouting switches tenant URLs between {slug}.{root} and
	// {app}/tenants/{slug} (dev)
	SubdomainRouting bool
	// FeePercent is the platform cut on connected-account sales
	FeePercent float64
	Currency   string
}

// ConfigFromEnv builds the checkout configuration from the environment.
func ConfigFromEnv() Config {
	return Config{
		AppURL:           env.GetEnv("APP_URL", "http://localhost:4000"),
		RootDomain:       env.GetEnv("APP_ROOT_DOMAIN", "marketstall.local"),
		SubdomainRouting: env.GetEnvBool("TENANT_SUBDOMAIN_ROUTING", !env.IsDev()),
		FeePercent:       env.GetEnvFloat("PLATFORM_FEE_PERCENT", 10),
		Currency:         env.GetEnv("CHECKOUT_CURRENCY", "usd"),
	}
}

// Service wires repositories and the payment client into the checkout,
// verification and product-resolution procedures.
type Service struct {
	users    repository.UserRepository
	tenants  repository.TenantRepository
	products repository.ProductRepository
	payments payments.Client
	cfg      Config
}

// NewService creates a checkout service from injected collaborators.
func NewService(repos *repository.Repositories, pc payments.Client, cfg Config) *Service {
	return &Service{
		users:    repos.User,
		tenants:  repos.Tenant,
		products: repos.Product,
		payments: pc,
		cfg:      cfg,
	}
}

// Purchase validates the requested products against the tenant storefront and
// creates a Stripe checkout session, returning the redirect URL.
//
// Superadmin buyers transact on the platform account with no application fee
// and bypass the tenant eligibility check. Regular buyers get a session on
// the tenant's connected account carrying the platform fee.
func (s *Service) Purchase(ctx context.Context, userID uint, in PurchaseInput) (*Redirect, error) {
	productIDs := dedupe(in.ProductIDs)
	if len(productIDs) == 0 {
		return nil, apperrors.Validation(apperrors.CodeInvalidInput, "at least one product id is required")
	}
	if in.TenantSlug == "" {
		return nil, apperrors.Validation(apperrors.CodeInvalidInput, "tenant slug is required")
	}

	buyer, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeNotFound, "user not found")
		}
		return nil, err
	}

	products, err := s.products.FindForCheckout(productIDs, in.TenantSlug)
	if err != nil {
		return nil, err
	}
	if len(products) != len(productIDs) {
		return nil, apperrors.NotFound(apperrors.CodeProductsNotFound, "products not found")
	}

	tenant, err := s.tenants.GetBySlug(in.TenantSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeTenantNotFound, "tenant not found")
		}
		return nil, err
	}

	if !tenant.StripeDetailsSubmitted && !buyer.IsSuperAdmin() {
		return nil, apperrors.Authorization(apperrors.CodeTenantNotEligible, "tenant not allowed to sell products")
	}

	prices := make([]float64, len(products))
	for i, p := range products {
		prices[i] = p.Price
	}
	totals, err := CalculateCart(prices, s.cfg.FeePercent)
	if err != nil {
		return nil, err
	}

	domain := s.TenantURL(in.TenantSlug)
	params := &stripe.CheckoutSessionParams{
		CustomerEmail: stripe.String(buyer.Email),
		SuccessURL:    stripe.String(domain + "/checkout?success=true"),
		CancelURL:     stripe.String(domain + "/checkout?cancel=true"),
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:     s.buildLineItems(products, tenant),
		InvoiceCreation: &stripe.CheckoutSessionInvoiceCreationParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			MetadataKeyUserID: strconv.FormatUint(uint64(buyer.ID), 10),
		},
	}

	var sess *stripe.CheckoutSession
	if buyer.IsSuperAdmin() {
		// Platform-direct sale: platform account, no application fee.
		sess, err = s.payments.CreateCheckoutSession(ctx, params, "")
	} else {
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(totals.FeeMinor),
		}
		sess, err = s.payments.CreateCheckoutSession(ctx, params, tenant.StripeAccountID)
	}
	if err != nil {
		return nil, apperrors.External(apperrors.CodeSessionCreationFailed, "failed to create checkout session", err)
	}
	if sess == nil || sess.URL == "" {
		return nil, apperrors.External(apperrors.CodeSessionCreationFailed, "checkout session has no redirect url", nil)
	}

	return &Redirect{URL: sess.URL}, nil
}

// buildLineItems turns resolved products into Stripe line items. The metadata
// block is what the webhook processor later reads back; nothing else links a
// Stripe line item to a local product.
func (s *Service) buildLineItems(products []models.Product, tenant *models.Tenant) []*stripe.CheckoutSessionLineItemParams {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(products))
	for _, p := range products {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.cfg.Currency),
				UnitAmount: stripe.Int64(MinorUnits(p.Price)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(p.Name),
					Metadata: map[string]string{
						MetadataKeyProductID:     p.UUID,
						MetadataKeyProductName:   p.Name,
						MetadataKeyProductPrice:  strconv.FormatFloat(p.Price, 'f', 2, 64),
						MetadataKeyStripeAccount: tenant.StripeAccountID,
					},
				},
			},
		})
	}
	return items
}

// Verify issues a Stripe onboarding link for the requesting seller's first
// tenant so it can complete connected-account verification.
func (s *Service) Verify(ctx context.Context, userID uint) (*Redirect, error) {
	if _, err := s.users.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeNotFound, "user not found")
		}
		return nil, err
	}

	tenant, err := s.tenants.GetFirstForUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeNotFound, "tenant not found")
		}
		return nil, err
	}
	if tenant.StripeAccountID == "" {
		return nil, apperrors.Validation(apperrors.CodeInvalidInput, "tenant has no connected account")
	}

	adminURL := s.cfg.AppURL + "/admin"
	link, err := s.payments.CreateAccountLink(ctx, tenant.StripeAccountID, adminURL, adminURL)
	if err != nil {
		return nil, apperrors.External(apperrors.CodeLinkCreationFailed, "failed to create verification link", err)
	}
	if link == nil || link.URL == "" {
		return nil, apperrors.External(apperrors.CodeLinkCreationFailed, "verification link has no url", nil)
	}

	return &Redirect{URL: link.URL}, nil
}

// GetProducts resolves unarchived products by external id and returns them
// with the summed major-unit price. Public; no session required.
func (s *Service) GetProducts(ctx context.Context, ids []string) (*ProductList, error) {
	_ = ctx
	if len(ids) == 0 {
		return nil, apperrors.Validation(apperrors.CodeInvalidInput, "at least one product id is required")
	}

	products, err := s.products.FindActiveByUUIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, apperrors.NotFound(apperrors.CodeProductsNotFound, "products not found")
	}

	var total float64
	for _, p := range products {
		total += p.Price
	}

	return &ProductList{Products: products, TotalPrice: total}, nil
}

// TenantURL derives the storefront base URL for a tenant slug. Subdomain
// routing is used in production; dev falls back to a path prefix.
func (s *Service) TenantURL(slug string) string {
	if s.cfg.SubdomainRouting {
		return fmt.Sprintf("https://%s.%s", slug, s.cfg.RootDomain)
	}
	return fmt.Sprintf("%s/tenants/%s", s.cfg.AppURL, slug)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
