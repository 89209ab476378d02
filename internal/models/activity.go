package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActionType enumerates the admin actions captured in the activity trail.
// The string values are persisted and consumed by external readers; they must
// never change once shipped.
type ActionType string

const (
	ActionApprovedCharity  ActionType = "APPROVED_CHARITY"
	ActionRejectedCharity  ActionType = "REJECTED_CHARITY"
	ActionSuspendedCharity ActionType = "SUSPENDED_CHARITY"
	ActionUpdatedCharity   ActionType = "UPDATED_CHARITY"
	ActionDeletedCharity   ActionType = "DELETED_CHARITY"
	ActionCreatedCharity   ActionType = "CREATED_CHARITY"

	ActionFlaggedStory   ActionType = "FLAGGED_STORY"
	ActionUnflaggedStory ActionType = "UNFLAGGED_STORY"
	ActionDeletedStory   ActionType = "DELETED_STORY"
	ActionUpdatedStory   ActionType = "UPDATED_STORY"

	ActionFlaggedComment   ActionType = "FLAGGED_COMMENT"
	ActionUnflaggedComment ActionType = "UNFLAGGED_COMMENT"
	ActionDeletedComment   ActionType = "DELETED_COMMENT"
	ActionUpdatedComment   ActionType = "UPDATED_COMMENT"

	ActionCreatedUser     ActionType = "CREATED_USER"
	ActionUpdatedUser     ActionType = "UPDATED_USER"
	ActionDeletedUser     ActionType = "DELETED_USER"
	ActionSuspendedUser   ActionType = "SUSPENDED_USER"
	ActionActivatedUser   ActionType = "ACTIVATED_USER"
	ActionResetPassword   ActionType = "RESET_PASSWORD"
	ActionChangedUserRole ActionType = "CHANGED_USER_ROLE"

	ActionCreatedDonor   ActionType = "CREATED_DONOR"
	ActionUpdatedDonor   ActionType = "UPDATED_DONOR"
	ActionDeletedDonor   ActionType = "DELETED_DONOR"
	ActionSuspendedDonor ActionType = "SUSPENDED_DONOR"
	ActionActivatedDonor ActionType = "ACTIVATED_DONOR"

	ActionViewedDashboard     ActionType = "VIEWED_DASHBOARD"
	ActionExportedData        ActionType = "EXPORTED_DATA"
	ActionSystemConfigChanged ActionType = "SYSTEM_CONFIG_CHANGED"
)

var knownActions = map[ActionType]struct{}{
	ActionApprovedCharity:     {},
	ActionRejectedCharity:     {},
	ActionSuspendedCharity:    {},
	ActionUpdatedCharity:      {},
	ActionDeletedCharity:      {},
	ActionCreatedCharity:      {},
	ActionFlaggedStory:        {},
	ActionUnflaggedStory:      {},
	ActionDeletedStory:        {},
	ActionUpdatedStory:        {},
	ActionFlaggedComment:      {},
	ActionUnflaggedComment:    {},
	ActionDeletedComment:      {},
	ActionUpdatedComment:      {},
	ActionCreatedUser:         {},
	ActionUpdatedUser:         {},
	ActionDeletedUser:         {},
	ActionSuspendedUser:       {},
	ActionActivatedUser:       {},
	ActionResetPassword:       {},
	ActionChangedUserRole:     {},
	ActionCreatedDonor:        {},
	ActionUpdatedDonor:        {},
	ActionDeletedDonor:        {},
	ActionSuspendedDonor:      {},
	ActionActivatedDonor:      {},
	ActionViewedDashboard:     {},
	ActionExportedData:        {},
	ActionSystemConfigChanged: {},
}

// Valid reports whether the action belongs to the closed enumeration.
func (a ActionType) Valid() bool {
	_, ok := knownActions[a]
	return ok
}

// EntityType enumerates the kinds of objects an admin action can affect.
type EntityType string

const (
	EntityCharity EntityType = "CHARITY"
	EntityStory   EntityType = "STORY"
	EntityComment EntityType = "COMMENT"
	EntityUser    EntityType = "USER"
	EntityDonor   EntityType = "DONOR"
	EntitySystem  EntityType = "SYSTEM"
)

// Valid reports whether the entity type belongs to the closed enumeration.
func (e EntityType) Valid() bool {
	switch e {
	case EntityCharity, EntityStory, EntityComment, EntityUser, EntityDonor, EntitySystem:
		return true
	}
	return false
}

// ActivityEvent is one immutable audit record of an administrator action.
// Rows are only ever inserted; no update or delete path exists.
type ActivityEvent struct {
	ID         string            `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    string            `gorm:"type:uuid;not null;index" json:"userId"`
	Action     ActionType        `gorm:"size:64;not null;index" json:"action"`
	EntityType EntityType        `gorm:"size:32;not null;index" json:"entityType"`
	EntityID   *string           `gorm:"type:uuid" json:"entityId"`
	Details    datatypes.JSONMap `gorm:"type:json" json:"details"`
	CreatedAt  time.Time         `gorm:"index:idx_activity_events_created_at_id,priority:1" json:"timestamp"`
}
