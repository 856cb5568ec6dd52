package model

import (
	"time"

	"github.com/google/uuid"
)

// VoucherModel mirrors the 'vouchers' table. The check constraint backs
// the redemption invariant: remaining_uses can never be driven below
// zero, no matter how the decrement races.
type VoucherModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Code           string    `gorm:"type:varchar(8);unique;not null"`
	Discount       int       `gorm:"not null;check:discount > 0"`
	DiscountType   string    `gorm:"type:varchar(20);not null"`
	ExpirationType string    `gorm:"type:varchar(20);not null"`
	Expiration     *time.Time
	Status         string `gorm:"type:varchar(20);not null;index"`
	UsedCount      int    `gorm:"not null;default:0"`
	RemainingUses  int    `gorm:"not null;check:remaining_uses >= 0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (VoucherModel) TableName() string {
	return "vouchers"
}
