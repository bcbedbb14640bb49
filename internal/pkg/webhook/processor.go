// Package webhook reconciles Stripe's asynchronous event stream into local
// state: completed checkout sessions become orders, account updates flip
// tenant verification flags. Delivery is at-least-once and unordered; every
// write here is idempotent on its own key.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"

	"github.com/mreichel/MarketStall/app/models"
	"github.com/mreichel/MarketStall/app/repository"
	"github.com/mreichel/MarketStall/internal/pkg/access"
	"github.com/mreichel/MarketStall/internal/pkg/apperrors"
	"github.com/mreichel/MarketStall/internal/pkg/checkout"
	"github.com/mreichel/MarketStall/internal/pkg/payments"
)

// Event kinds this processor acts on. Everything else is acknowledged
// without action so new Stripe event types never break the endpoint.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventAccountUpdated    = "account.updated"
)

const lineItemExpand = "line_items.data.price.product"

// Processor verifies, filters and applies inbound Stripe events. It acts as
// the explicit system principal; order writes are gated through the access
// policy like any other caller.
type Processor struct {
	users     repository.UserRepository
	tenants   repository.TenantRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	payments  payments.Client
	secret    string
	principal access.Principal
}

// NewProcessor creates a webhook processor from injected collaborators.
func NewProcessor(repos *repository.Repositories, pc payments.Client, webhookSecret string) *Processor {
	return &Processor{
		users:     repos.User,
		tenants:   repos.Tenant,
		products:  repos.Product,
		orders:    repos.Order,
		payments:  pc,
		secret:    webhookSecret,
		principal: access.SystemPrincipal(),
	}
}

// VerifyAndParse checks the Stripe signature against the raw, unparsed body
// bytes and returns the decoded event. Parsing before verification would
// invalidate the signature, so this must be the first touch of the payload.
func (p *Processor) VerifyAndParse(payload []byte, signatureHeader string) (*stripe.Event, error) {
	event, err := stripewebhook.ConstructEventWithOptions(payload, signatureHeader, p.secret, stripewebhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindSignature, apperrors.CodeInvalidSignature, "webhook signature verification failed", err)
	}
	return &event, nil
}

// Process dispatches a verified event. Unrecognized kinds return nil so the
// caller acknowledges them; any error means the whole delivery failed and
// Stripe should retry.
func (p *Processor) Process(ctx context.Context, event *stripe.Event) error {
	switch string(event.Type) {
	case EventCheckoutCompleted:
		return p.handleCheckoutCompleted(ctx, event)
	case EventAccountUpdated:
		return p.handleAccountUpdated(event)
	default:
		log.Printf("webhook: ignoring event %s of kind %s", event.ID, event.Type)
		return nil
	}
}

// handleCheckoutCompleted creates one order per purchased line item. Buyer
// and products are reconstructed solely from the metadata injected at
// session-creation time; the session itself lives at Stripe.
func (p *Processor) handleCheckoutCompleted(ctx context.Context, event *stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("decode checkout session payload: %w", err)
	}

	rawUserID := sess.Metadata[checkout.MetadataKeyUserID]
	if rawUserID == "" {
		return errors.New("checkout session metadata carries no user id")
	}
	userID, err := strconv.ParseUint(rawUserID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q in session metadata: %w", rawUserID, err)
	}
	buyer, err := p.users.GetByID(uint(userID))
	if err != nil {
		return fmt.Errorf("resolve buyer %d: %w", userID, err)
	}

	if !access.CanCreateOrder(p.principal) {
		return apperrors.Authorization("order_create_denied", "principal may not create orders")
	}

	// The initial event payload may omit nested product data; re-fetch with
	// line items expanded, under the event's account context when present.
	expanded, err := p.payments.GetCheckoutSession(ctx, sess.ID, event.Account, []string{lineItemExpand})
	if err != nil {
		return fmt.Errorf("retrieve expanded session %s: %w", sess.ID, err)
	}
	if expanded.LineItems == nil || len(expanded.LineItems.Data) == 0 {
		return fmt.Errorf("session %s has no line items", sess.ID)
	}

	var accountID *string
	if event.Account != "" {
		acct := event.Account
		accountID = &acct
	}

	for _, item := range expanded.LineItems.Data {
		if item.Price == nil || item.Price.Product == nil {
			return fmt.Errorf("session %s line item is missing expanded product data", sess.ID)
		}
		meta := item.Price.Product.Metadata
		productUUID := meta[checkout.MetadataKeyProductID]
		if productUUID == "" {
			return fmt.Errorf("session %s line item carries no product id metadata", sess.ID)
		}

		product, err := p.products.GetByUUID(productUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("session %s references unknown product %s", sess.ID, productUUID)
			}
			return err
		}

		name := item.Price.Product.Name
		if name == "" {
			name = meta[checkout.MetadataKeyProductName]
		}

		created, err := p.orders.CreateIfNotExists(&models.Order{
			Name:                    name,
			UserID:                  buyer.ID,
			ProductID:               product.ID,
			StripeCheckoutSessionID: sess.ID,
			StripeAccountID:         accountID,
		})
		if err != nil {
			return fmt.Errorf("create order for session %s product %s: %w", sess.ID, productUUID, err)
		}
		if !created {
			log.Printf("webhook: order for session %s product %s already exists, skipping", sess.ID, productUUID)
		}
	}

	return nil
}

// handleAccountUpdated mirrors Stripe's reported onboarding state onto the
// owning tenant. Accounts without a local tenant are ignored.
func (p *Processor) handleAccountUpdated(event *stripe.Event) error {
	var acct stripe.Account
	if err := json.Unmarshal(event.Data.Raw, &acct); err != nil {
		return fmt.Errorf("decode account payload: %w", err)
	}
	if acct.ID == "" {
		return errors.New("account event carries no account id")
	}

	rows, err := p.tenants.SetDetailsSubmittedByAccountID(acct.ID, acct.DetailsSubmitted)
	if err != nil {
		return fmt.Errorf("update tenant verification for %s: %w", acct.ID, err)
	}
	if rows == 0 {
		log.Printf("webhook: no tenant for stripe account %s, nothing updated", acct.ID)
	}

	return nil
}
