package repo

import (
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionProductRepository handles catalog data access
type OptionProductRepository struct {
	db *gorm.DB
}

// NewOptionProductRepository creates a new option-product repository
func NewOptionProductRepository(db *gorm.DB) *OptionProductRepository {
	return &OptionProductRepository{db: db}
}

// GetByID gets a catalog entry by ID
func (r *OptionProductRepository) GetByID(organizationID, id uuid.UUID) (*models.OptionProduct, error) {
	var product models.OptionProduct
	err := r.db.Where("id = ? AND organization_id = ?", id, organizationID).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByNames fetches every catalog entry whose normalized option name is in
// the given set, in one batched query. names must already be normalized
// (trimmed, lower-cased).
func (r *OptionProductRepository) FindByNames(organizationID uuid.UUID, names []string) ([]models.OptionProduct, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var products []models.OptionProduct
	err := r.db.
		Where("organization_id = ? AND LOWER(TRIM(option_name)) IN ?", organizationID, names).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create creates a new catalog entry
func (r *OptionProductRepository) Create(product *models.OptionProduct) error {
	return r.db.Create(product).Error
}

// Update updates a catalog entry
func (r *OptionProductRepository) Update(product *models.OptionProduct) error {
	return r.db.Save(product).Error
}

// Delete soft-deletes a catalog entry
func (r *OptionProductRepository) Delete(organizationID, id uuid.UUID) error {
	return r.db.Where("organization_id = ?", organizationID).Delete(&models.OptionProduct{}, "id = ?", id).Error
}

// ListWithSearch lists catalog entries with pagination and optional search on
// option name or code
func (r *OptionProductRepository) ListWithSearch(organizationID uuid.UUID, limit, offset int, search string) (*models.PaginationResult[models.OptionProduct], error) {
	var products []models.OptionProduct
	var total int64

	query := r.db.Model(&models.OptionProduct{}).Where("organization_id = ?", organizationID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("option_name ILIKE ? OR option_code ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	err := query.Order("option_name ASC").Limit(limit).Offset(offset).Find(&products).Error
	if err != nil {
		return nil, err
	}

	return newPaginationResult(products, total, limit, offset), nil
}
