package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/upliftco/uplift-api/internal/models"
)

// CharityRepository owns the charity registry.
type CharityRepository interface {
	Create(ctx context.Context, charity *models.Charity) error
	FindByID(ctx context.Context, id string) (models.Charity, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Charity, error)
	Update(ctx context.Context, charity *models.Charity) error
	UpdateStatus(ctx context.Context, id string, status models.CharityStatus) error
	Delete(ctx context.Context, id string) error
}

type charityRepository struct {
	db *gorm.DB
}

// NewCharityRepository constructs the charity repository.
func NewCharityRepository(db *gorm.DB) CharityRepository {
	return &charityRepository{db: db}
}

func (r *charityRepository) Create(ctx context.Context, charity *models.Charity) error {
	return r.db.WithContext(ctx).Create(charity).Error
}

func (r *charityRepository) FindByID(ctx context.Context, id string) (models.Charity, error) {
	var charity models.Charity
	err := r.db.WithContext(ctx).First(&charity, "id = ?", id).Error
	return charity, err
}

// FindByIDs returns only the rows that exist; callers must tolerate missing ids.
func (r *charityRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Charity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var charities []models.Charity
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&charities).Error; err != nil {
		return nil, err
	}
	return charities, nil
}

func (r *charityRepository) Update(ctx context.Context, charity *models.Charity) error {
	return r.db.WithContext(ctx).Save(charity).Error
}

func (r *charityRepository) UpdateStatus(ctx context.Context, id string, status models.CharityStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Charity{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *charityRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Charity{}, "id = ?", id).Error
}
