package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/repository"
)

// AdminCommentService covers comment moderation.
type AdminCommentService interface {
	Update(ctx context.Context, actor ActivityActor, id string, req dto.CommentUpdateRequest) (models.Comment, error)
	Flag(ctx context.Context, actor ActivityActor, id, reason string) (models.Comment, error)
	Unflag(ctx context.Context, actor ActivityActor, id string) (models.Comment, error)
	Delete(ctx context.Context, actor ActivityActor, id string) error
}

type adminCommentService struct {
	repo      repository.CommentRepository
	recorder  ActivityRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewAdminCommentService constructs the comment moderation service.
func NewAdminCommentService(repo repository.CommentRepository, recorder ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) AdminCommentService {
	return &adminCommentService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "admin_comment_service").Logger(),
	}
}

func (s *adminCommentService) Update(ctx context.Context, actor ActivityActor, id string, req dto.CommentUpdateRequest) (models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Comment{}, err
	}

	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}

	comment.Body = s.sanitizer.Sanitize(req.Body)
	if err := s.repo.Update(ctx, &comment); err != nil {
		return models.Comment{}, err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionUpdatedComment,
		EntityType: models.EntityComment,
		EntityID:   &comment.ID,
		Details:    map[string]interface{}{"storyId": comment.StoryID},
	})
	return comment, nil
}

func (s *adminCommentService) Flag(ctx context.Context, actor ActivityActor, id, reason string) (models.Comment, error) {
	return s.setFlag(ctx, actor, id, true, reason, models.ActionFlaggedComment)
}

func (s *adminCommentService) Unflag(ctx context.Context, actor ActivityActor, id string) (models.Comment, error) {
	return s.setFlag(ctx, actor, id, false, "", models.ActionUnflaggedComment)
}

func (s *adminCommentService) setFlag(ctx context.Context, actor ActivityActor, id string, flagged bool, reason string, action models.ActionType) (models.Comment, error) {
	if err := s.repo.SetFlagged(ctx, id, flagged, reason); err != nil {
		return models.Comment{}, err
	}

	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}

	details := map[string]interface{}{"storyId": comment.StoryID}
	if reason != "" {
		details["flagReason"] = reason
	}
	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     action,
		EntityType: models.EntityComment,
		EntityID:   &comment.ID,
		Details:    details,
	})
	return comment, nil
}

func (s *adminCommentService) Delete(ctx context.Context, actor ActivityActor, id string) error {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionDeletedComment,
		EntityType: models.EntityComment,
		EntityID:   &comment.ID,
		Details:    map[string]interface{}{"storyId": comment.StoryID, "authorId": comment.AuthorID},
	})
	return nil
}
