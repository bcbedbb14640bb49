package repository

import (
	"github.com/mreichel/MarketStall/app/models"
	"gorm.io/gorm"
)

// tenantRepository implements the TenantRepository interface
type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository instance
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

// Create creates a new tenant in the database
func (r *tenantRepository) Create(tenant *models.Tenant) error {
	return r.db.Create(tenant).Error
}

// GetByID retrieves a tenant by its ID
func (r *tenantRepository) GetByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.First(&tenant, id).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetBySlug retrieves a tenant by its unique storefront slug
func (r *tenantRepository) GetBySlug(slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.Where("slug = ?", slug).First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetFirstForUser returns the first tenant associated with a seller account,
// in association order. Used by the verification flow.
func (r *tenantRepository) GetFirstForUser(userID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.
		Joins("JOIN user_tenants ON user_tenants.tenant_id = tenants.id").
		Where("user_tenants.user_id = ?", userID).
		Order("tenants.id ASC").
		First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Update updates an existing tenant in the database
func (r *tenantRepository) Update(tenant *models.Tenant) error {
	return r.db.Save(tenant).Error
}

// SetDetailsSubmittedByAccountID flips the onboarding flag for whichever
// tenant owns the Stripe account. The account may belong to a tenant not yet
// provisioned, so zero matched rows is a valid outcome.
func (r *tenantRepository) SetDetailsSubmittedByAccountID(stripeAccountID string, submitted bool) (int64, error) {
	tx := r.db.Model(&models.Tenant{}).
		Where("stripe_account_id = ?", stripeAccountID).
		Update("stripe_details_submitted", submitted)
	return tx.RowsAffected, tx.Error
}
