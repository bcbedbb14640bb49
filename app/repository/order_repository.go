package repository

import (
	"github.com/mreichel/MarketStall/app/models"
	"github.com/mreichel/MarketStall/internal/pkg/access"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateIfNotExists inserts the order unless the (session, product) pair is
// already present. A conflict on the composite unique index is a no-op, which
// is what makes webhook redelivery safe.
func (r *orderRepository) CreateIfNotExists(order *models.Order) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "stripe_checkout_session_id"},
			{Name: "product_id"},
		},
		DoNothing: true,
	}).Create(order)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// scoped applies the access policy's row filter to a query. Denied filters
// match nothing rather than erroring; callers decide how to surface denial.
func scoped(q *gorm.DB, filter access.OrderFilter) *gorm.DB {
	if filter.Denied {
		return q.Where("1 = 0")
	}
	if filter.All {
		return q
	}
	return q.Where("user_id = ?", filter.UserID)
}

// GetByID retrieves an order visible under the given filter
func (r *orderRepository) GetByID(filter access.OrderFilter, id uint) (*models.Order, error) {
	var order models.Order
	err := scoped(r.db, filter).Preload("Product").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List retrieves orders visible under the given filter
func (r *orderRepository) List(filter access.OrderFilter, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := scoped(r.db, filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// CountBySession returns the number of orders created for a checkout session
func (r *orderRepository) CountBySession(sessionID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("stripe_checkout_session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

// Update saves a superadmin correction to an order
func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// Delete removes an order by ID
func (r *orderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}
