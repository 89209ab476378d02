package models

import "time"

// CharityStatus tracks where a charity sits in the onboarding/moderation flow.
type CharityStatus string

const (
	CharityStatusPending   CharityStatus = "pending"
	CharityStatusApproved  CharityStatus = "approved"
	CharityStatusRejected  CharityStatus = "rejected"
	CharityStatusSuspended CharityStatus = "suspended"
)

// Charity is a tenant organisation publishing impact stories.
type Charity struct {
	ID          string        `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Website     string        `gorm:"size:255" json:"website"`
	Status      CharityStatus `gorm:"size:32;not null;default:pending" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
