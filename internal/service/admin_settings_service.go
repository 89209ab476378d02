package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/models"
)

const settingsKey = "platform:settings:v1"

// AdminSettingsService holds platform-level configuration values. Changes are
// system-scoped audit events with no entity id.
type AdminSettingsService interface {
	Get(ctx context.Context) (map[string]interface{}, error)
	Update(ctx context.Context, actor ActivityActor, req dto.SettingsUpdateRequest) (map[string]interface{}, error)
}

type adminSettingsService struct {
	store     *redis.Client
	recorder  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminSettingsService constructs the settings service.
func NewAdminSettingsService(store *redis.Client, recorder ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) AdminSettingsService {
	return &adminSettingsService{
		store:     store,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "admin_settings_service").Logger(),
	}
}

func (s *adminSettingsService) Get(ctx context.Context) (map[string]interface{}, error) {
	payload, err := s.store.Get(ctx, settingsKey).Result()
	if err == redis.Nil {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	settings := map[string]interface{}{}
	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (s *adminSettingsService) Update(ctx context.Context, actor ActivityActor, req dto.SettingsUpdateRequest) (map[string]interface{}, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req.Settings)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.store.Set(ctx, settingsKey, payload, 0).Err(); err != nil {
		return nil, fmt.Errorf("write settings: %w", err)
	}

	changed := make([]string, 0, len(req.Settings))
	for key := range req.Settings {
		changed = append(changed, key)
	}
	s.recorder.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionSystemConfigChanged,
		EntityType: models.EntitySystem,
		Details:    map[string]interface{}{"changedKeys": changed},
	})
	return req.Settings, nil
}
