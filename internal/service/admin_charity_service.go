package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/repository"
)

// AdminCharityService covers platform-admin charity tenant management. Every
// mutation records its audit action after the state change commits.
type AdminCharityService interface {
	Create(ctx context.Context, actor ActivityActor, req dto.CharityCreateRequest) (models.Charity, error)
	Update(ctx context.Context, actor ActivityActor, id string, req dto.CharityUpdateRequest) (models.Charity, error)
	Approve(ctx context.Context, actor ActivityActor, id string) (models.Charity, error)
	Reject(ctx context.Context, actor ActivityActor, id, reason string) (models.Charity, error)
	Suspend(ctx context.Context, actor ActivityActor, id, reason string) (models.Charity, error)
	Delete(ctx context.Context, actor ActivityActor, id string) error
}

type adminCharityService struct {
	repo      repository.CharityRepository
	recorder  ActivityRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewAdminCharityService constructs the charity moderation service.
func NewAdminCharityService(repo repository.CharityRepository, recorder ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) AdminCharityService {
	return &adminCharityService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "admin_charity_service").Logger(),
	}
}

func (s *adminCharityService) Create(ctx context.Context, actor ActivityActor, req dto.CharityCreateRequest) (models.Charity, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Charity{}, err
	}

	charity := models.Charity{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: s.sanitizer.Sanitize(req.Description),
		Website:     req.Website,
		Status:      models.CharityStatusPending,
	}
	if err := s.repo.Create(ctx, &charity); err != nil {
		return models.Charity{}, err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionCreatedCharity,
		EntityType: models.EntityCharity,
		EntityID:   &charity.ID,
		Details:    map[string]interface{}{"charityName": charity.Name},
	})
	return charity, nil
}

func (s *adminCharityService) Update(ctx context.Context, actor ActivityActor, id string, req dto.CharityUpdateRequest) (models.Charity, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Charity{}, err
	}

	charity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Charity{}, err
	}

	if req.Name != nil {
		charity.Name = *req.Name
	}
	if req.Description != nil {
		charity.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Website != nil {
		charity.Website = *req.Website
	}

	if err := s.repo.Update(ctx, &charity); err != nil {
		return models.Charity{}, err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionUpdatedCharity,
		EntityType: models.EntityCharity,
		EntityID:   &charity.ID,
		Details:    map[string]interface{}{"charityName": charity.Name},
	})
	return charity, nil
}

func (s *adminCharityService) Approve(ctx context.Context, actor ActivityActor, id string) (models.Charity, error) {
	return s.transition(ctx, actor, id, models.CharityStatusApproved, models.ActionApprovedCharity, "")
}

func (s *adminCharityService) Reject(ctx context.Context, actor ActivityActor, id, reason string) (models.Charity, error) {
	return s.transition(ctx, actor, id, models.CharityStatusRejected, models.ActionRejectedCharity, reason)
}

func (s *adminCharityService) Suspend(ctx context.Context, actor ActivityActor, id, reason string) (models.Charity, error) {
	return s.transition(ctx, actor, id, models.CharityStatusSuspended, models.ActionSuspendedCharity, reason)
}

func (s *adminCharityService) transition(ctx context.Context, actor ActivityActor, id string, status models.CharityStatus, action models.ActionType, reason string) (models.Charity, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return models.Charity{}, err
	}

	charity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Charity{}, err
	}

	details := map[string]interface{}{"charityName": charity.Name, "status": string(status)}
	if reason != "" {
		details["reason"] = reason
	}
	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     action,
		EntityType: models.EntityCharity,
		EntityID:   &charity.ID,
		Details:    details,
	})
	return charity, nil
}

func (s *adminCharityService) Delete(ctx context.Context, actor ActivityActor, id string) error {
	charity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionDeletedCharity,
		EntityType: models.EntityCharity,
		EntityID:   &charity.ID,
		Details:    map[string]interface{}{"charityName": charity.Name},
	})
	return nil
}
