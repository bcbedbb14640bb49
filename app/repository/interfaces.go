package repository

import (
	"github.com/mreichel/MarketStall/app/models"
	"github.com/mreichel/MarketStall/internal/pkg/access"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// TenantRepository defines the interface for tenant-related database operations
type TenantRepository interface {
	Create(tenant *models.Tenant) error
	GetByID(id uint) (*models.Tenant, error)
	GetBySlug(slug string) (*models.Tenant, error)
	GetFirstForUser(userID uint) (*models.Tenant, error)
	Update(tenant *models.Tenant) error
	// SetDetailsSubmittedByAccountID updates the verification flag of the
	// tenant owning the given Stripe account. Returns the number of rows
	// matched; zero is not an error.
	SetDetailsSubmittedByAccountID(stripeAccountID string, submitted bool) (int64, error)
}

// ProductRepository defines the interface for product-related database operations
type ProductRepository interface {
	Create(product *models.Product) error
	GetByUUID(uuid string) (*models.Product, error)
	// FindActiveByUUIDs resolves unarchived products by external id.
	FindActiveByUUIDs(uuids []string) ([]models.Product, error)
	// FindForCheckout resolves unarchived products by external id that belong
	// to the tenant with the given slug. The tenant-slug predicate is part of
	// the query, not a post-hoc check.
	FindForCheckout(uuids []string, tenantSlug string) ([]models.Product, error)
	Update(product *models.Product) error
}

// OrderRepository defines the interface for order-related database operations.
// Read operations take an access.OrderFilter so the policy's row restriction
// lands in the WHERE clause.
type OrderRepository interface {
	// CreateIfNotExists inserts the order unless one already exists for the
	// same (checkout session, product) pair. Reports whether a row was
	// actually inserted.
	CreateIfNotExists(order *models.Order) (bool, error)
	GetByID(filter access.OrderFilter, id uint) (*models.Order, error)
	List(filter access.OrderFilter, offset, limit int) ([]models.Order, error)
	CountBySession(sessionID string) (int64, error)
	Update(order *models.Order) error
	Delete(id uint) error
}
