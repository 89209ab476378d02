package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/upliftco/uplift-api/internal/models"
)

// CommentRepository owns story comments.
type CommentRepository interface {
	FindByID(ctx context.Context, id string) (models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	SetFlagged(ctx context.Context, id string, flagged bool, reason string) error
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository constructs the comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	return comment, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) SetFlagged(ctx context.Context, id string, flagged bool, reason string) error {
	updates := map[string]interface{}{"flagged": flagged, "flag_reason": reason}
	result := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}
