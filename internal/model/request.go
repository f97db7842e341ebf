package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request is an employee-raised supply or maintenance need.
type Request struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	UserName        string          `gorm:"type:varchar(255)" json:"user_name"`
	IsAnonymous     bool            `gorm:"not null;default:false" json:"is_anonymous"`
	Request         string          `gorm:"type:text" json:"request"`
	RequestType     string          `gorm:"type:varchar(20);not null;default:'supply';index" json:"request_type"` // supply, maintenance
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	OrderID         *uint           `json:"order_id"`
	ItemName        string          `gorm:"type:varchar(255);index" json:"item_name"`
	RequestedAmount int             `gorm:"not null;default:0" json:"requested_amount"`
	OrderedAmount   *int            `json:"ordered_amount"`
	Cost            decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"cost"`
	AdminID         *uint           `gorm:"column:admin" json:"admin"`
	AdminName       string          `gorm:"type:varchar(255)" json:"admin_name"`
	Comments        string          `gorm:"type:text" json:"comments"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
