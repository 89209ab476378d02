package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/upliftco/uplift-api/internal/dto"
	"github.com/upliftco/uplift-api/internal/models"
)

// AdminStatsService aggregates the activity trail for the admin dashboard.
// Viewing and exporting are themselves audited actions.
type AdminStatsService interface {
	Overview(ctx context.Context, actor ActivityActor, since, until time.Time) (dto.ActivityStatsResponse, error)
	Export(ctx context.Context, actor ActivityActor, since, until time.Time) (dto.ActivityStatsResponse, error)
}

type adminStatsService struct {
	activities ActivityService
	cache      *redis.Client
	ttl        time.Duration
	logger     zerolog.Logger
}

// NewAdminStatsService constructs the stats service. The cache client is
// optional; without it every call hits the store.
func NewAdminStatsService(activities ActivityService, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AdminStatsService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &adminStatsService{
		activities: activities,
		cache:      cache,
		ttl:        ttl,
		logger:     logger.With().Str("component", "admin_stats_service").Logger(),
	}
}

func (s *adminStatsService) Overview(ctx context.Context, actor ActivityActor, since, until time.Time) (dto.ActivityStatsResponse, error) {
	response, err := s.aggregate(ctx, since, until)
	if err != nil {
		return dto.ActivityStatsResponse{}, err
	}

	s.activities.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionViewedDashboard,
		EntityType: models.EntitySystem,
	})
	return response, nil
}

func (s *adminStatsService) Export(ctx context.Context, actor ActivityActor, since, until time.Time) (dto.ActivityStatsResponse, error) {
	response, err := s.aggregate(ctx, since, until)
	if err != nil {
		return dto.ActivityStatsResponse{}, err
	}

	details := map[string]interface{}{"format": "json"}
	if !since.IsZero() {
		details["since"] = since.Format(time.RFC3339)
	}
	if !until.IsZero() {
		details["until"] = until.Format(time.RFC3339)
	}
	s.activities.Record(ctx, RecordedAction{
		ActorID:    actor.ID,
		Action:     models.ActionExportedData,
		EntityType: models.EntitySystem,
		Details:    details,
	})
	return response, nil
}

func (s *adminStatsService) aggregate(ctx context.Context, since, until time.Time) (dto.ActivityStatsResponse, error) {
	tracer := otel.Tracer("github.com/upliftco/uplift-api/internal/service/admin_stats")
	ctx, span := tracer.Start(ctx, "stats.aggregate")
	defer span.End()

	cacheKey := s.cacheKey(since, until)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.ActivityStatsResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				span.SetAttributes(attribute.Bool("stats.cache_hit", true))
				return response, nil
			}
		}
	}

	counts, err := s.activities.CountByAction(ctx, since, until)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "aggregation failed")
		return dto.ActivityStatsResponse{}, err
	}

	response := dto.ActivityStatsResponse{Counts: make(map[string]int64, len(counts))}
	for action, total := range counts {
		response.Counts[string(action)] = total
	}
	if !since.IsZero() {
		response.Since = &since
	}
	if !until.IsZero() {
		response.Until = &until
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write stats cache")
			}
		}
	}

	span.SetAttributes(attribute.Int("stats.actions", len(response.Counts)))
	return response, nil
}

func (s *adminStatsService) cacheKey(since, until time.Time) string {
	return fmt.Sprintf("activities:stats:v1:%d:%d", since.Unix(), until.Unix())
}
