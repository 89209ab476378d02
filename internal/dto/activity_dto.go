package dto

import (
	"time"

	"github.com/upliftco/uplift-api/internal/models"
)

// ActivityListRequest carries feed pagination and optional equality filters.
type ActivityListRequest struct {
	Limit      int
	Cursor     string
	ActorID    string
	Action     string
	EntityType string
}

// ActivityResponse serializes one audit event.
type ActivityResponse struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"userId"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entityType"`
	EntityID   *string                `json:"entityId"`
	Details    map[string]interface{} `json:"details"`
	Timestamp  time.Time              `json:"timestamp"`
}

// ActivityListResponse wraps one feed page. HasMore is false exactly when the
// page came back short, which is the only exhaustion signal consumers get.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
	HasMore    bool               `json:"has_more"`
}

// ActivityStatsResponse reports per-action event counts over a window.
type ActivityStatsResponse struct {
	Counts map[string]int64 `json:"counts"`
	Since  *time.Time       `json:"since,omitempty"`
	Until  *time.Time       `json:"until,omitempty"`
}

// NewActivityResponse converts a stored event into its wire form.
func NewActivityResponse(event models.ActivityEvent) ActivityResponse {
	return ActivityResponse{
		ID:         event.ID,
		UserID:     event.ActorID,
		Action:     string(event.Action),
		EntityType: string(event.EntityType),
		EntityID:   event.EntityID,
		Details:    map[string]interface{}(event.Details),
		Timestamp:  event.CreatedAt,
	}
}
