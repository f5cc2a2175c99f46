package repository

import (
	"context"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
)

// FileRepository handles file attachment metadata operations
type FileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file repository instance
func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create records an uploaded file's metadata
func (r *FileRepository) Create(ctx context.Context, file *domain.FileAttachment) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// GetByID retrieves a file attachment by its ID
func (r *FileRepository) GetByID(ctx context.Context, id uint) (*domain.FileAttachment, error) {
	var file domain.FileAttachment
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// ListForRecord returns the attachments stored against a module record
func (r *FileRepository) ListForRecord(ctx context.Context, recordType string, recordID uint) ([]domain.FileAttachment, error) {
	var files []domain.FileAttachment
	err := r.db.WithContext(ctx).
		Where("record_type = ? AND record_id = ?", recordType, recordID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

// Delete removes a file attachment record
func (r *FileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.FileAttachment{}, id).Error
}
