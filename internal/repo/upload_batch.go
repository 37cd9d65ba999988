package repo

import (
	"farmhub/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadBatchRepository handles upload history data access
type UploadBatchRepository struct {
	db *gorm.DB
}

// NewUploadBatchRepository creates a new upload-batch repository
func NewUploadBatchRepository(db *gorm.DB) *UploadBatchRepository {
	return &UploadBatchRepository{db: db}
}

// Create records a submitted upload
func (r *UploadBatchRepository) Create(batch *models.UploadBatch) error {
	return r.db.Create(batch).Error
}

// ListRecent returns the most recent uploads of an organization
func (r *UploadBatchRepository) ListRecent(organizationID uuid.UUID, limit int) ([]models.UploadBatch, error) {
	var batches []models.UploadBatch
	err := r.db.Where("organization_id = ?", organizationID).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&batches).Error
	return batches, err
}
