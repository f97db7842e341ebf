package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an orderable item in the office inventory.
// Requests reference it by Title, not by id.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Stock       int             `gorm:"type:int;default:0;not null" json:"stock"`
	Thumbnail   string          `gorm:"type:varchar(512)" json:"thumbnail"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
