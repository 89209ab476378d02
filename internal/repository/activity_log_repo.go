package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/upliftco/uplift-api/internal/models"
)

// ActivityLogFilter narrows and pages activity event queries. CursorID, when
// set, restricts results to events strictly older than the event it names.
type ActivityLogFilter struct {
	Limit      int
	CursorID   string
	ActorID    string
	Action     models.ActionType
	EntityType models.EntityType
}

// ActivityCountFilter restricts per-action aggregation to the half-open
// interval [Since, Until). Zero values leave the corresponding bound open.
type ActivityCountFilter struct {
	Since time.Time
	Until time.Time
}

// ActivityLogRepository is the durable append-only store for audit events.
type ActivityLogRepository interface {
	Append(ctx context.Context, event *models.ActivityEvent) error
	ListRecent(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityEvent, error)
	CountByAction(ctx context.Context, filter ActivityCountFilter) (map[models.ActionType]int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Append(ctx context.Context, event *models.ActivityEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// ListRecent returns events newest first, ties broken by id so the order is
// total. The cursor pages on (created_at, id) rather than the id alone: event
// ids are UUIDs and carry no insertion order, so a bare id comparison could
// skip or duplicate rows at page boundaries.
func (r *activityLogRepository) ListRecent(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityEvent, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityEvent{})

	if filter.CursorID != "" {
		var pivot models.ActivityEvent
		if err := r.db.WithContext(ctx).Select("id", "created_at").First(&pivot, "id = ?", filter.CursorID).Error; err != nil {
			return nil, fmt.Errorf("resolve cursor %q: %w", filter.CursorID, err)
		}
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)", pivot.CreatedAt, pivot.CreatedAt, pivot.ID)
	}

	if filter.ActorID != "" {
		query = query.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var events []models.ActivityEvent
	if err := query.Order("created_at DESC, id DESC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *activityLogRepository) CountByAction(ctx context.Context, filter ActivityCountFilter) (map[models.ActionType]int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityEvent{})

	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		query = query.Where("created_at < ?", filter.Until)
	}

	type actionCount struct {
		Action models.ActionType
		Total  int64
	}

	var rows []actionCount
	if err := query.Select("action", "COUNT(*) AS total").Group("action").Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.ActionType]int64, len(rows))
	for _, row := range rows {
		counts[row.Action] = row.Total
	}

	return counts, nil
}
