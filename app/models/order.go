package models

import "time"

// Order materializes one purchased line item of a completed Stripe checkout
// session. Name is a snapshot of the product name at purchase time.
// StripeAccountID is NULL for platform-direct (superadmin) sales and carries
// the tenant connected account otherwise.
//
// The composite unique index over (stripe_checkout_session_id, product_id)
// makes order creation idempotent under Stripe's at-least-once webhook
// delivery: a redelivered checkout.session.completed event inserts nothing.
type Order struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	Name                    string    `gorm:"type:varchar(200);not null" json:"name"`
	UserID                  uint      `gorm:"not null;index" json:"user_id"`
	User                    User      `json:"user,omitempty"`
	ProductID               uint      `gorm:"not null;index:ux_orders_session_product,unique,priority:2" json:"product_id"`
	Product                 Product   `json:"product,omitempty"`
	StripeCheckoutSessionID string    `gorm:"type:varchar(191);not null;index:ux_orders_session_product,unique,priority:1" json:"stripe_checkout_session_id"`
	StripeAccountID         *string   `gorm:"type:varchar(100);default:null" json:"stripe_account_id"`
	CreatedAt               time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
