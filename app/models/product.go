package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product belongs to exactly one tenant. The UUID is the external identifier
// embedded in Stripe metadata; it never changes once the product has been
// referenced by an order. Archived products are excluded from new checkouts
// but stay resolvable for historical orders.
type Product struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UUID       string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	Name       string         `gorm:"type:varchar(200)" json:"name" validate:"required,min=1,max=200"`
	Price      float64        `gorm:"type:decimal(10,2);not null" json:"price" validate:"required,gt=0"`
	TenantID   uint           `gorm:"not null;index" json:"tenant_id" validate:"required"`
	Tenant     Tenant         `json:"tenant,omitempty"`
	IsArchived bool           `gorm:"default:false;index" json:"is_archived"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// BeforeCreate assigns the external UUID if the caller did not set one.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.NewString()
	}
	return nil
}
