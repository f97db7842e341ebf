package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionCreateProduct = "CREATE_PRODUCT"
	ActionUpdateProduct = "UPDATE_PRODUCT"
	ActionDeleteProduct = "DELETE_PRODUCT"
	ActionRestock       = "RESTOCK_PRODUCT"

	ActionCreateRequest     = "CREATE_REQUEST"
	ActionUpdateRequest     = "UPDATE_REQUEST"
	ActionTransitionRequest = "TRANSITION_REQUEST"
	ActionDeleteRequest     = "DELETE_REQUEST"

	ActionCreateSuggestion   = "CREATE_SUGGESTION"
	ActionUpdateSuggestion   = "UPDATE_SUGGESTION"
	ActionCompleteSuggestion = "COMPLETE_SUGGESTION"
	ActionDeleteSuggestion   = "DELETE_SUGGESTION"

	ActionRegisterUser = "REGISTER_USER"
	ActionCreateAPIKey = "CREATE_API_KEY"
	ActionDeleteAPIKey = "DELETE_API_KEY"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     *uint          `gorm:"index" json:"user_id"` // nil for system actions such as seeding
	User       *User          `gorm:"foreignKey:UserID" json:"user"`
	Action     string         `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string         `gorm:"type:varchar(30);index" json:"entity_type"`
	EntityID   string         `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string         `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}
