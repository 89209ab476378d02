package dto

// CharityCreateRequest registers a new charity tenant.
type CharityCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Website     string `json:"website" validate:"omitempty,url"`
}

// CharityUpdateRequest patches charity profile fields. Nil fields are left
// untouched.
type CharityUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Website     *string `json:"website" validate:"omitempty,url"`
}

// ModerationRequest carries the optional operator note attached to a
// moderation decision (rejection reason, suspension grounds).
type ModerationRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

// StoryUpdateRequest patches an impact story during moderation.
type StoryUpdateRequest struct {
	Title *string `json:"title" validate:"omitempty,max=255"`
	Body  *string `json:"body"`
}

// CommentUpdateRequest patches a comment body during moderation.
type CommentUpdateRequest struct {
	Body string `json:"body" validate:"required"`
}

// FlagRequest marks content as requiring attention.
type FlagRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

// UserCreateRequest provisions a platform account.
type UserCreateRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=platform_admin charity_editor donor_viewer"`
}

// UserUpdateRequest patches account profile fields.
type UserUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// RoleChangeRequest moves an account to a different role.
type RoleChangeRequest struct {
	Role string `json:"role" validate:"required,oneof=platform_admin charity_editor donor_viewer"`
}

// DonorCreateRequest registers a corporate donor account.
type DonorCreateRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Company string `json:"company" validate:"max=255"`
}

// DonorUpdateRequest patches donor profile fields.
type DonorUpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=255"`
	Company *string `json:"company" validate:"omitempty,max=255"`
}

// SettingsUpdateRequest replaces platform-level configuration values.
type SettingsUpdateRequest struct {
	Settings map[string]interface{} `json:"settings" validate:"required"`
}
