package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderModel mirrors the 'orders' table. Dish holds the immutable
// snapshot document; CatererID is lifted out of it so the per-caterer
// day listing can use an index instead of a JSON path. Status changes
// go through conditional updates only, never plain saves.
type OrderModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ReadableID    string         `gorm:"type:varchar(8);unique;not null"`
	Description   string         `gorm:"type:text"`
	Amount        int            `gorm:"not null;check:amount > 0"`
	Currency      string         `gorm:"type:varchar(3);not null"`
	Status        string         `gorm:"type:varchar(20);not null;index"`
	Paid          bool           `gorm:"not null;default:false"`
	PaymentRef    string         `gorm:"type:varchar(255)"`
	RequestedTime time.Time      `gorm:"not null;index"`
	Dish          datatypes.JSON `gorm:"type:jsonb;not null"`
	CatererID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	VoucherCode   string         `gorm:"type:varchar(8);index"`
	CancelReason  string         `gorm:"type:text"`
	CreatedBy     uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
