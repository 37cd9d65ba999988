package repo

import (
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationRepository handles organization data access
type OrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// GetByID gets an organization by ID
func (r *OrganizationRepository) GetByID(id uuid.UUID) (*models.Organization, error) {
	var organization models.Organization
	err := r.db.Where("id = ?", id).First(&organization).Error
	if err != nil {
		return nil, err
	}
	return &organization, nil
}

// Create creates a new organization
func (r *OrganizationRepository) Create(organization *models.Organization) error {
	return r.db.Create(organization).Error
}

// Update updates an organization
func (r *OrganizationRepository) Update(organization *models.Organization) error {
	return r.db.Save(organization).Error
}

// List lists organizations with pagination
func (r *OrganizationRepository) List(limit, offset int) (*models.PaginationResult[models.Organization], error) {
	var organizations []models.Organization
	var total int64

	if err := r.db.Model(&models.Organization{}).Count(&total).Error; err != nil {
		return nil, err
	}

	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&organizations).Error
	if err != nil {
		return nil, err
	}

	return newPaginationResult(organizations, total, limit, offset), nil
}
