package model

import "time"

// Suggestion is a free-text improvement idea. CompletedAt stays NULL while it is open.
type Suggestion struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	UserName    string     `gorm:"type:varchar(255)" json:"user_name"`
	IsAnonymous bool       `gorm:"not null;default:false" json:"is_anonymous"`
	Suggestion  string     `gorm:"type:text;not null" json:"suggestion"`
	Comments    string     `gorm:"type:text" json:"comments"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}
