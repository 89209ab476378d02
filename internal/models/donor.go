package models

import "time"

// DonorStatus tracks a corporate donor account's standing.
type DonorStatus string

const (
	DonorStatusActive    DonorStatus = "active"
	DonorStatusSuspended DonorStatus = "suspended"
)

// Donor is a corporate donor organisation funding impact stories.
type Donor struct {
	ID        string      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string      `gorm:"size:255;not null" json:"name"`
	Company   string      `gorm:"size:255" json:"company"`
	Status    DonorStatus `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
