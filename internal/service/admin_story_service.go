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

// AdminStoryService covers impact story moderation.
type AdminStoryService interface {
	Update(ctx context.Context, actor ActivityActor, id string, req dto.StoryUpdateRequest) (models.Story, error)
	Flag(ctx context.Context, actor ActivityActor, id, reason string) (models.Story, error)
	Unflag(ctx context.Context, actor ActivityActor, id string) (models.Story, error)
	Delete(ctx context.Context, actor ActivityActor, id string) error
}

type adminStoryService struct {
	repo      repository.StoryRepository
	recorder  ActivityRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewAdminStoryService constructs the story moderation service.
func NewAdminStoryService(repo repository.StoryRepository, recorder ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) AdminStoryService {
	return &adminStoryService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "admin_story_service").Logger(),
	}
}

func (s *adminStoryService) Update(ctx context.Context, actor ActivityActor, id string, req dto.StoryUpdateRequest) (models.Story, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Story{}, err
	}

	story, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Story{}, err
	}

	if req.Title != nil {
		story.Title = *req.Title
	}
	if req.Body != nil {
		story.Body = s.sanitizer.Sanitize(*req.Body)
	}

	if err := s.repo.Update(ctx, &story); err != nil {
		return models.Story{}, err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionUpdatedStory,
		EntityType: models.EntityStory,
		EntityID:   &story.ID,
		Details:    map[string]interface{}{"storyTitle": story.Title},
	})
	return story, nil
}

func (s *adminStoryService) Flag(ctx context.Context, actor ActivityActor, id, reason string) (models.Story, error) {
	return s.setFlag(ctx, actor, id, true, reason, models.ActionFlaggedStory)
}

func (s *adminStoryService) Unflag(ctx context.Context, actor ActivityActor, id string) (models.Story, error) {
	return s.setFlag(ctx, actor, id, false, "", models.ActionUnflaggedStory)
}

func (s *adminStoryService) setFlag(ctx context.Context, actor ActivityActor, id string, flagged bool, reason string, action models.ActionType) (models.Story, error) {
	if err := s.repo.SetFlagged(ctx, id, flagged, reason); err != nil {
		return models.Story{}, err
	}

	story, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Story{}, err
	}

	details := map[string]interface{}{"storyTitle": story.Title}
	if reason != "" {
		details["flagReason"] = reason
	}
	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     action,
		EntityType: models.EntityStory,
		EntityID:   &story.ID,
		Details:    details,
	})
	return story, nil
}

func (s *adminStoryService) Delete(ctx context.Context, actor ActivityActor, id string) error {
	story, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionDeletedStory,
		EntityType: models.EntityStory,
		EntityID:   &story.ID,
		Details:    map[string]interface{}{"storyTitle": story.Title, "charityId": story.CharityID},
	})
	return nil
}
