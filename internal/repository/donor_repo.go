package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/upliftco/uplift-api/internal/models"
)

// DonorRepository owns corporate donor accounts.
type DonorRepository interface {
	Create(ctx context.Context, donor *models.Donor) error
	FindByID(ctx context.Context, id string) (models.Donor, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Donor, error)
	Update(ctx context.Context, donor *models.Donor) error
	UpdateStatus(ctx context.Context, id string, status models.DonorStatus) error
	Delete(ctx context.Context, id string) error
}

type donorRepository struct {
	db *gorm.DB
}

// NewDonorRepository constructs the donor repository.
func NewDonorRepository(db *gorm.DB) DonorRepository {
	return &donorRepository{db: db}
}

func (r *donorRepository) Create(ctx context.Context, donor *models.Donor) error {
	return r.db.WithContext(ctx).Create(donor).Error
}

func (r *donorRepository) FindByID(ctx context.Context, id string) (models.Donor, error) {
	var donor models.Donor
	err := r.db.WithContext(ctx).First(&donor, "id = ?", id).Error
	return donor, err
}

func (r *donorRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Donor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var donors []models.Donor
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&donors).Error; err != nil {
		return nil, err
	}
	return donors, nil
}

func (r *donorRepository) Update(ctx context.Context, donor *models.Donor) error {
	return r.db.WithContext(ctx).Save(donor).Error
}

func (r *donorRepository) UpdateStatus(ctx context.Context, id string, status models.DonorStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Donor{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *donorRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Donor{}, "id = ?", id).Error
}
