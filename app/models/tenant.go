package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Tenant is an independent seller with its own product catalog and Stripe
// connected account. StripeDetailsSubmitted is only flipped by the webhook
// processor when Stripe reports the onboarding state via account.updated.
type Tenant struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	Name                   string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Slug                   string         `gorm:"uniqueIndex;type:varchar(100)" json:"slug" validate:"required,min=2,max=100,lowercase,excludesall= "`
	StripeAccountID        string         `gorm:"type:varchar(100);default:null;index" json:"stripe_account_id"`
	StripeDetailsSubmitted bool           `gorm:"default:false" json:"stripe_details_submitted"`
	CreatedAt              time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Tenant) Validate() error {
	v := validator.New()

	return v.Struct(t)
}

// CanSell reports whether the tenant has completed Stripe onboarding and may
// receive funds on its connected account.
func (t *Tenant) CanSell() bool {
	return t.StripeAccountID != "" && t.StripeDetailsSubmitted
}
