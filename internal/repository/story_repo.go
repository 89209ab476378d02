package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/upliftco/uplift-api/internal/models"
)

// StoryRepository owns the impact story registry.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	FindByID(ctx context.Context, id string) (models.Story, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Story, error)
	Update(ctx context.Context, story *models.Story) error
	SetFlagged(ctx context.Context, id string, flagged bool, reason string) error
	Delete(ctx context.Context, id string) error
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository constructs the story repository.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

func (r *storyRepository) FindByID(ctx context.Context, id string) (models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).First(&story, "id = ?", id).Error
	return story, err
}

func (r *storyRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Story, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var stories []models.Story
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *storyRepository) Update(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Save(story).Error
}

func (r *storyRepository) SetFlagged(ctx context.Context, id string, flagged bool, reason string) error {
	updates := map[string]interface{}{"flagged": flagged, "flag_reason": reason}
	result := r.db.WithContext(ctx).Model(&models.Story{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *storyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Story{}, "id = ?", id).Error
}
