package entity

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType says how a voucher's discount value is interpreted.
type DiscountType string

// Discount types.
const (
	DiscountAmount     DiscountType = "amount"     // Flat discount in the smallest currency unit.
	DiscountPercentage DiscountType = "percentage" // Percentage of the order amount.
)

// ExpirationType says how a voucher stops being redeemable.
type ExpirationType string

// Expiration types.
const (
	ExpirationOneTime ExpirationType = "onetime" // Expires after a single redemption.
	ExpirationUntil   ExpirationType = "until"   // Redeemable until the expiration date.
)

// VoucherStatus is the redemption state of a voucher.
type VoucherStatus string

// Voucher states.
const (
	VoucherValid   VoucherStatus = "VALID"
	VoucherExpired VoucherStatus = "EXPIRED"
)

// Voucher is a redeemable discount code. RemainingUses is the quantity
// constraint concurrent redemptions race on: each successful redemption
// decrements it by exactly one, and it never goes below zero.
type Voucher struct {
	ID             uuid.UUID
	Code           string // Unique human-facing code.
	Discount       int
	DiscountType   DiscountType
	ExpirationType ExpirationType
	Expiration     time.Time // Zero unless ExpirationType is "until".
	Status         VoucherStatus
	UsedCount      int
	RemainingUses  int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ExpiredAt reports whether the voucher can no longer be redeemed at t,
// either because it was marked expired or its date passed.
func (v *Voucher) ExpiredAt(t time.Time) bool {
	if v.Status == VoucherExpired {
		return true
	}
	if v.ExpirationType == ExpirationUntil && !v.Expiration.IsZero() && t.After(v.Expiration) {
		return true
	}

	return false
}

// Apply returns the amount after discounting. The result never goes
// below zero.
func (v *Voucher) Apply(amount int) int {
	var discounted int
	switch v.DiscountType {
	case DiscountPercentage:
		discounted = amount - amount*v.Discount/100
	default:
		discounted = amount - v.Discount
	}
	if discounted < 0 {
		return 0
	}

	return discounted
}
