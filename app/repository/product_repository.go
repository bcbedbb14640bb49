package repository

import (
	"github.com/mreichel/MarketStall/app/models"
	"gorm.io/gorm"
)

// productRepository implements the ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product in the database
func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// GetByUUID retrieves a product by its external id, archived or not.
// Historical orders must stay resolvable after archiving.
func (r *productRepository) GetByUUID(uuid string) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("uuid = ?", uuid).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByUUIDs resolves unarchived products by external id
func (r *productRepository) FindActiveByUUIDs(uuids []string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Preload("Tenant").
		Where("uuid IN ? AND is_archived = ?", uuids, false).
		Find(&products).Error
	return products, err
}

// FindForCheckout resolves unarchived products by external id under the given
// tenant slug. A product belonging to another tenant simply does not match.
func (r *productRepository) FindForCheckout(uuids []string, tenantSlug string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Joins("JOIN tenants ON tenants.id = products.tenant_id").
		Where("products.uuid IN ? AND tenants.slug = ? AND products.is_archived = ?", uuids, tenantSlug, false).
		Find(&products).Error
	return products, err
}

// Update updates an existing product in the database
func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}
