package models

import "time"

// Story is an impact story published by a charity.
type Story struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	CharityID  string    `gorm:"type:uuid;not null;index" json:"charity_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Body       string    `gorm:"type:text" json:"body"`
	Flagged    bool      `gorm:"not null;default:false" json:"flagged"`
	FlagReason string    `gorm:"size:255" json:"flag_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Comment is a reader comment attached to a story.
type Comment struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	StoryID    string    `gorm:"type:uuid;not null;index" json:"story_id"`
	AuthorID   string    `gorm:"type:uuid;not null" json:"author_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Flagged    bool      `gorm:"not null;default:false" json:"flagged"`
	FlagReason string    `gorm:"size:255" json:"flag_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
