package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/repository"
)

// AdminDonorService covers corporate donor account management.
type AdminDonorService interface {
	Create(ctx context.Context, actor ActivityActor, req dto.DonorCreateRequest) (models.Donor, error)
	Update(ctx context.Context, actor ActivityActor, id string, req dto.DonorUpdateRequest) (models.Donor, error)
	Suspend(ctx context.Context, actor ActivityActor, id, reason string) (models.Donor, error)
	Activate(ctx context.Context, actor ActivityActor, id string) (models.Donor, error)
	Delete(ctx context.Context, actor ActivityActor, id string) error
}

type adminDonorService struct {
	repo      repository.DonorRepository
	recorder  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminDonorService constructs the donor management service.
func NewAdminDonorService(repo repository.DonorRepository, recorder ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) AdminDonorService {
	return &adminDonorService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "admin_donor_service").Logger(),
	}
}

func (s *adminDonorService) Create(ctx context.Context, actor ActivityActor, req dto.DonorCreateRequest) (models.Donor, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Donor{}, err
	}

	donor := models.Donor{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Company: req.Company,
		Status:  models.DonorStatusActive,
	}
	if err := s.repo.Create(ctx, &donor); err != nil {
		return models.Donor{}, err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionCreatedDonor,
		EntityType: models.EntityDonor,
		EntityID:   &donor.ID,
		Details:    map[string]interface{}{"donorName": donor.Name},
	})
	return donor, nil
}

func (s *adminDonorService) Update(ctx context.Context, actor ActivityActor, id string, req dto.DonorUpdateRequest) (models.Donor, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Donor{}, err
	}

	donor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Donor{}, err
	}

	if req.Name != nil {
		donor.Name = *req.Name
	}
	if req.Company != nil {
		donor.Company = *req.Company
	}

	if err := s.repo.Update(ctx, &donor); err != nil {
		return models.Donor{}, err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionUpdatedDonor,
		EntityType: models.EntityDonor,
		EntityID:   &donor.ID,
		Details:    map[string]interface{}{"donorName": donor.Name},
	})
	return donor, nil
}

func (s *adminDonorService) Suspend(ctx context.Context, actor ActivityActor, id, reason string) (models.Donor, error) {
	return s.transition(ctx, actor, id, models.DonorStatusSuspended, models.ActionSuspendedDonor, reason)
}

func (s *adminDonorService) Activate(ctx context.Context, actor ActivityActor, id string) (models.Donor, error) {
	return s.transition(ctx, actor, id, models.DonorStatusActive, models.ActionActivatedDonor, "")
}

func (s *adminDonorService) transition(ctx context.Context, actor ActivityActor, id string, status models.DonorStatus, action models.ActionType, reason string) (models.Donor, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return models.Donor{}, err
	}

	donor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Donor{}, err
	}

	details := map[string]interface{}{"donorName": donor.Name, "status": string(status)}
	if reason != "" {
		details["reason"] = reason
	}
	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     action,
		EntityType: models.EntityDonor,
		EntityID:   &donor.ID,
		Details:    details,
	})
	return donor, nil
}

func (s *adminDonorService) Delete(ctx context.Context, actor ActivityActor, id string) error {
	donor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionDeletedDonor,
		EntityType: models.EntityDonor,
		EntityID:   &donor.ID,
		Details:    map[string]interface{}{"donorName": donor.Name},
	})
	return nil
}
