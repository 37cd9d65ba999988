package repo

import (
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionNameMappingRepository handles option-name mapping rule data access
type OptionNameMappingRepository struct {
	db *gorm.DB
}

// NewOptionNameMappingRepository creates a new mapping-rule repository
func NewOptionNameMappingRepository(db *gorm.DB) *OptionNameMappingRepository {
	return &OptionNameMappingRepository{db: db}
}

// ListByOrganization returns every mapping rule of an organization in one
// query; the upload pipeline calls this once per batch
func (r *OptionNameMappingRepository) ListByOrganization(organizationID uuid.UUID) ([]models.OptionNameMapping, error) {
	var mappings []models.OptionNameMapping
	err := r.db.Where("organization_id = ?", organizationID).Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

// GetByID gets a mapping rule by ID
func (r *OptionNameMappingRepository) GetByID(organizationID, id uuid.UUID) (*models.OptionNameMapping, error) {
	var mapping models.OptionNameMapping
	err := r.db.Where("id = ? AND organization_id = ?", id, organizationID).First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// FindByUserOptionName finds the rule keyed by the normalized form of a
// seller's free-text option name
func (r *OptionNameMappingRepository) FindByUserOptionName(organizationID uuid.UUID, userOptionName string) (*models.OptionNameMapping, error) {
	var mapping models.OptionNameMapping
	err := r.db.
		Where("organization_id = ? AND normalized_name = ?", organizationID, models.NormalizeOptionName(userOptionName)).
		First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// Create creates a new mapping rule
func (r *OptionNameMappingRepository) Create(mapping *models.OptionNameMapping) error {
	return r.db.Create(mapping).Error
}

// Update updates a mapping rule
func (r *OptionNameMappingRepository) Update(mapping *models.OptionNameMapping) error {
	return r.db.Save(mapping).Error
}

// Delete deletes a mapping rule
func (r *OptionNameMappingRepository) Delete(organizationID, id uuid.UUID) error {
	return r.db.Where("organization_id = ?", organizationID).Delete(&models.OptionNameMapping{}, "id = ?", id).Error
}

// List lists mapping rules with pagination and optional search
func (r *OptionNameMappingRepository) List(organizationID uuid.UUID, limit, offset int, search string) (*models.PaginationResult[models.OptionNameMapping], error) {
	var mappings []models.OptionNameMapping
	var total int64

	query := r.db.Model(&models.OptionNameMapping{}).Where("organization_id = ?", organizationID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("user_option_name ILIKE ? OR site_option_name ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	err := query.Order("user_option_name ASC").Limit(limit).Offset(offset).Find(&mappings).Error
	if err != nil {
		return nil, err
	}

	return newPaginationResult(mappings, total, limit, offset), nil
}
