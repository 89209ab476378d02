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

// AdminUserService covers platform account management.
type AdminUserService interface {
	Create(ctx context.Context, actor ActivityActor, req dto.UserCreateRequest) (models.User, error)
	Update(ctx context.Context, actor ActivityActor, id string, req dto.UserUpdateRequest) (models.User, error)
	Suspend(ctx context.Context, actor ActivityActor, id, reason string) (models.User, error)
	Activate(ctx context.Context, actor ActivityActor, id string) (models.User, error)
	ResetPassword(ctx context.Context, actor ActivityActor, id string) error
	ChangeRole(ctx context.Context, actor ActivityActor, id string, req dto.RoleChangeRequest) (models.User, error)
	Delete(ctx context.Context, actor ActivityActor, id string) error
}

type adminUserService struct {
	repo      repository.UserRepository
	recorder  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminUserService constructs the account management service.
func NewAdminUserService(repo repository.UserRepository, recorder ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) AdminUserService {
	return &adminUserService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "admin_user_service").Logger(),
	}
}

func (s *adminUserService) Create(ctx context.Context, actor ActivityActor, req dto.UserCreateRequest) (models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Email:  req.Email,
		Role:   models.UserRole(req.Role),
		Status: models.UserStatusActive,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return models.User{}, err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionCreatedUser,
		EntityType: models.EntityUser,
		EntityID:   &user.ID,
		Details:    map[string]interface{}{"userName": user.Name, "role": string(user.Role)},
	})
	return user, nil
}

func (s *adminUserService) Update(ctx context.Context, actor ActivityActor, id string, req dto.UserUpdateRequest) (models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.User{}, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}

	if err := s.repo.Update(ctx, &user); err != nil {
		return models.User{}, err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionUpdatedUser,
		EntityType: models.EntityUser,
		EntityID:   &user.ID,
		Details:    map[string]interface{}{"userName": user.Name},
	})
	return user, nil
}

func (s *adminUserService) Suspend(ctx context.Context, actor ActivityActor, id, reason string) (models.User, error) {
	if err := s.repo.UpdateStatus(ctx, id, models.UserStatusSuspended); err != nil {
		return models.User{}, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	details := map[string]interface{}{"userName": user.Name}
	if reason != "" {
		details["reason"] = reason
	}
	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionSuspendedUser,
		EntityType: models.EntityUser,
		EntityID:   &user.ID,
		Details:    details,
	})
	return user, nil
}

func (s *adminUserService) Activate(ctx context.Context, actor ActivityActor, id string) (models.User, error) {
	if err := s.repo.UpdateStatus(ctx, id, models.UserStatusActive); err != nil {
		return models.User{}, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionActivatedUser,
		EntityType: models.EntityUser,
		EntityID:   &user.ID,
		Details:    map[string]interface{}{"userName": user.Name},
	})
	return user, nil
}

// ResetPassword triggers the external identity provider's reset flow; the
// trail records that it happened, not the credential itself.
func (s *adminUserService) ResetPassword(ctx context.Context, actor ActivityActor, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionResetPassword,
		EntityType: models.EntityUser,
		EntityID:   &user.ID,
		Details:    map[string]interface{}{"userName": user.Name},
	})
	return nil
}

func (s *adminUserService) ChangeRole(ctx context.Context, actor ActivityActor, id string, req dto.RoleChangeRequest) (models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.User{}, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	oldRole := user.Role
	newRole := models.UserRole(req.Role)
	if err := s.repo.UpdateRole(ctx, id, newRole); err != nil {
		return models.User{}, err
	}
	user.Role = newRole

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionChangedUserRole,
		EntityType: models.EntityUser,
		EntityID:   &user.ID,
		Details:    map[string]interface{}{"oldRole": string(oldRole), "newRole": string(newRole)},
	})
	return user, nil
}

func (s *adminUserService) Delete(ctx context.Context, actor ActivityActor, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionDeletedUser,
		EntityType: models.EntityUser,
		EntityID:   &user.ID,
		Details:    map[string]interface{}{"userName": user.Name},
	})
	return nil
}
