package model

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User represents an account that can sign in to the portal
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	FirstName string    `gorm:"type:varchar(255)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(255)" json:"last_name"`
	Email     string    `gorm:"type:varchar(255);index" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`                   // bcrypt hash, never serialized
	Role      string    `gorm:"type:varchar(50);not null;default:'employee'" json:"role"` // admin, employee
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DisplayName is what gets stamped on requests and suggestions.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// APIKey lets scripts authenticate with the X-API-Key header instead of a JWT.
type APIKey struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Key       string    `gorm:"column:api_key;type:varchar(64);uniqueIndex;not null" json:"api_key"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
