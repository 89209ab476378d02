package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/observability"
	"github.com/upliftco/uplift-api/internal/repository"
)

// DefaultFeedLimit is the page size used when a caller does not specify one.
const DefaultFeedLimit = 20

// ActivityActor identifies the authenticated admin performing an action.
// It is passed explicitly rather than read from ambient request state.
type ActivityActor struct {
	ID   string
	Role string
}

// RecordedAction describes one admin mutation for the audit trail.
type RecordedAction struct {
	ActorID    string
	Action     models.ActionType
	EntityType models.EntityType
	EntityID   *string
	Details    map[string]interface{}
}

// ActivityRecorder is the single write entry point for the audit trail.
// Record never returns an error: the triggering mutation has already
// committed, and losing an audit entry is preferable to failing it.
type ActivityRecorder interface {
	Record(ctx context.Context, entry RecordedAction)
}

// ActivityService records and reads the admin activity trail.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	CountByAction(ctx context.Context, since, until time.Time) (map[models.ActionType]int64, error)
}

type activityService struct {
	repo    repository.ActivityLogRepository
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewActivityService constructs the activity trail service. The NATS
// connection is optional; when present each recorded event is published
// best-effort for live stream consumers.
func NewActivityService(repo repository.ActivityLogRepository, natsConn *nats.Conn, subject string, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:    repo,
		nats:    natsConn,
		subject: strings.TrimSpace(subject),
		logger:  logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry RecordedAction) {
	if !entry.Action.Valid() {
		s.logger.Error().Str("action", string(entry.Action)).Msg("dropping audit entry with unknown action")
		observability.ActivityRecordFailures().Inc()
		return
	}
	if !entry.EntityType.Valid() {
		s.logger.Error().Str("entity_type", string(entry.EntityType)).Msg("dropping audit entry with unknown entity type")
		observability.ActivityRecordFailures().Inc()
		return
	}

	event := models.ActivityEvent{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    maskDetails(entry.Details),
	}

	if err := s.repo.Append(ctx, &event); err != nil {
		s.logger.Error().Err(err).
			Str("action", string(entry.Action)).
			Str("actor_id", entry.ActorID).
			Msg("failed to persist audit entry")
		observability.ActivityRecordFailures().Inc()
		return
	}

	observability.ActivitiesRecorded().WithLabelValues(string(event.Action)).Inc()
	s.publish(event)
}

// publish fans the event out to live stream subscribers. Same policy as the
// append itself: failures are logged and never surface.
func (s *activityService) publish(event models.ActivityEvent) {
	if s.nats == nil || s.subject == "" {
		return
	}

	payload, err := json.Marshal(dto.NewActivityResponse(event))
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to serialize activity event for stream")
		return
	}
	if err := s.nats.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish activity event to stream")
	}
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	filter := repository.ActivityLogFilter{
		Limit:    limit,
		CursorID: strings.TrimSpace(req.Cursor),
		ActorID:  strings.TrimSpace(req.ActorID),
	}
	if trimmed := strings.TrimSpace(req.Action); trimmed != "" {
		filter.Action = models.ActionType(strings.ToUpper(trimmed))
	}
	if trimmed := strings.TrimSpace(req.EntityType); trimmed != "" {
		filter.EntityType = models.EntityType(strings.ToUpper(trimmed))
	}

	events, err := s.repo.ListRecent(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(events))
	for _, event := range events {
		items = append(items, dto.NewActivityResponse(event))
	}

	response := dto.ActivityListResponse{
		Items:   items,
		HasMore: len(events) == limit,
	}
	if len(events) > 0 {
		response.NextCursor = events[len(events)-1].ID
	}

	return response, nil
}

func (s *activityService) CountByAction(ctx context.Context, since, until time.Time) (map[models.ActionType]int64, error) {
	return s.repo.CountByAction(ctx, repository.ActivityCountFilter{Since: since, Until: until})
}

// maskDetails censors credential-adjacent keys before persistence. The payload
// stays otherwise freeform.
func maskDetails(details map[string]interface{}) datatypes.JSONMap {
	if details == nil {
		return datatypes.JSONMap{}
	}

	masked := datatypes.JSONMap{}
	for key, value := range details {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") || strings.Contains(lower, "secret") {
			masked[key] = "***"
			continue
		}
		masked[key] = value
	}
	return masked
}
