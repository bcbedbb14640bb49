package checkout

import "github.com/mreichel/MarketStall/app/models"

// Metadata keys embedded into Stripe objects at session-creation time. They
// are the only link between processor-side state and local records: the
// webhook reconstructs buyer and products exclusively from these keys.
const (
	MetadataKeyUserID        = "userId"
	MetadataKeyProductID     = "id"
	MetadataKeyProductName   = "name"
	MetadataKeyProductPrice  = "price"
	MetadataKeyStripeAccount = "stripeAccountId"
)

// PurchaseInput is the payload of the purchase procedure.
type PurchaseInput struct {
	ProductIDs []string `json:"product_ids"`
	TenantSlug string   `json:"tenant_slug"`
}

// Redirect carries the processor-hosted URL the buyer is sent to.
type Redirect struct {
	URL string `json:"url"`
}

// ProductList is the result of the public getProducts procedure.
type ProductList struct {
	Products   []models.Product `json:"products"`
	TotalPrice float64          `json:"total_price"`
}
