package repository

import (
	"context"
	"errors"

	"github.com/norvik-group/facility-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfessionRepository handles trade registry data access operations
type ProfessionRepository struct {
	db *gorm.DB
}

// NewProfessionRepository creates a new profession repository instance
func NewProfessionRepository(db *gorm.DB) *ProfessionRepository {
	return &ProfessionRepository{db: db}
}

// Upsert inserts the profession or updates it in place when the name exists.
func (r *ProfessionRepository) Upsert(ctx context.Context, p *domain.Profession) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "hourly_rate", "updated_at"}),
	}).Create(p).Error
}

// GetByName retrieves a profession by its name, returning nil when absent
func (r *ProfessionRepository) GetByName(ctx context.Context, name string) (*domain.Profession, error) {
	var p domain.Profession
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes a profession by name
func (r *ProfessionRepository) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Delete(&domain.Profession{}, "name = ?", name).Error
}

// List returns all professions ordered by name
func (r *ProfessionRepository) List(ctx context.Context) ([]domain.Profession, error) {
	var professions []domain.Profession
	err := r.db.WithContext(ctx).Order("name ASC").Find(&professions).Error
	return professions, err
}
