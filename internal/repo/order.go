package repo

import (
	"context"

	"farmhub/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository handles order data access
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetByID gets an order by ID
func (r *OrderRepository) GetByID(organizationID, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("id = ? AND organization_id = ? AND is_deleted = false", id, organizationID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create creates a single order (manual entry)
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// BatchCreate inserts an accepted upload batch in one transaction. The write
// is all-or-nothing: any failure rolls the whole batch back.
func (r *OrderRepository) BatchCreate(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(orders, 200).Error
	})
}

// Update updates an order
func (r *OrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// SoftDelete marks an order deleted without removing the row
func (r *OrderRepository) SoftDelete(organizationID, id uuid.UUID) error {
	return r.db.Model(&models.Order{}).
		Where("id = ? AND organization_id = ?", id, organizationID).
		Update("is_deleted", true).Error
}

// UpdateShippingStatus moves a set of orders to a new shipping status
func (r *OrderRepository) UpdateShippingStatus(organizationID uuid.UUID, ids []uuid.UUID, status string) (int64, error) {
	result := r.db.Model(&models.Order{}).
		Where("organization_id = ? AND id IN ? AND is_deleted = false", organizationID, ids).
		Update("shipping_status", status)
	return result.RowsAffected, result.Error
}

// ListWithSearch lists orders with pagination and optional search on
// recipient, buyer, option name or order number
func (r *OrderRepository) ListWithSearch(organizationID uuid.UUID, limit, offset int, search, sheetDate, shippingStatus string) (*models.PaginationResult[models.Order], error) {
	var orders []models.Order
	var total int64

	query := r.db.Model(&models.Order{}).
		Where("organization_id = ? AND is_deleted = false", organizationID)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"recipient_name ILIKE ? OR buyer_name ILIKE ? OR option_name ILIKE ? OR seller_order_number ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if sheetDate != "" {
		query = query.Where("sheet_date = ?", sheetDate)
	}
	if shippingStatus != "" {
		query = query.Where("shipping_status = ?", shippingStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return newPaginationResult(orders, total, limit, offset), nil
}

// OrderStats summarizes an organization's orders for the dashboard
type OrderStats struct {
	TotalOrders  int64            `json:"total_orders"`
	TodayOrders  int64            `json:"today_orders"`
	StatusCounts map[string]int64 `json:"status_counts"`
}

// GetStats computes dashboard order statistics
func (r *OrderRepository) GetStats(organizationID uuid.UUID, today string) (*OrderStats, error) {
	stats := &OrderStats{StatusCounts: make(map[string]int64)}

	base := r.db.Model(&models.Order{}).Where("organization_id = ? AND is_deleted = false", organizationID)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("sheet_date = ?", today).Count(&stats.TodayOrders).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		ShippingStatus string
		Count          int64
	}
	var counts []statusCount
	err := r.db.Model(&models.Order{}).
		Select("shipping_status, COUNT(*) as count").
		Where("organization_id = ? AND is_deleted = false", organizationID).
		Group("shipping_status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.StatusCounts[c.ShippingStatus] = c.Count
	}

	return stats, nil
}
