package models

import "time"

// UserRole enumerates the platform roles.
type UserRole string

const (
	RolePlatformAdmin UserRole = "platform_admin"
	RoleCharityEditor UserRole = "charity_editor"
	RoleDonorViewer   UserRole = "donor_viewer"
)

// UserStatus tracks account standing.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is a platform account: charity staff, donor staff or platform admins.
type User struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Email     string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role      UserRole   `gorm:"size:32;not null" json:"role"`
	Status    UserStatus `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
