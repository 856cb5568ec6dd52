package usecase

import (
	"context"
	"time"

	"feast/internal/domain/entity"
)

// --- Input DTOs ---

// GenerateVouchersInput defines the data required to mint a batch of vouchers.
type GenerateVouchersInput struct {
	Count          int
	Discount       int
	DiscountType   entity.DiscountType
	ExpirationType entity.ExpirationType
	// Expiration is required for UNTIL vouchers and ignored otherwise.
	Expiration time.Time
	// UsesPerVoucher is how many redemptions each voucher allows.
	// ONETIME vouchers always get exactly one.
	UsesPerVoucher int
}

// VoucherUsecase defines the interface for voucher-related business operations.
type VoucherUsecase interface {
	// GenerateVouchers mints Count vouchers with fresh unique codes.
	GenerateVouchers(ctx context.Context, input GenerateVouchersInput) ([]*entity.Voucher, error)

	// GetVoucher looks up a voucher, refreshing its status first when a
	// dated expiration has passed.
	GetVoucher(ctx context.Context, code string) (*entity.Voucher, error)
}
