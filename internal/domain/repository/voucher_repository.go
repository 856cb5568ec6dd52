package repository

import (
	"context"
	"errors"

	"feast/internal/domain/entity"
)

// ErrVoucherNotFound is returned when no voucher matches the code.
var ErrVoucherNotFound = errors.New("voucher not found")

// ErrDuplicateVoucherCode is returned by Create when the code is already taken.
var ErrDuplicateVoucherCode = errors.New("voucher code already exists")

// VoucherRepository defines the standard operations for voucher persistence.
type VoucherRepository interface {
	// FindByCode retrieves a single voucher by its code.
	FindByCode(ctx context.Context, code string) (*entity.Voucher, error)

	// Create persists a new voucher. Returns ErrDuplicateVoucherCode
	// when the code is already in use.
	Create(ctx context.Context, voucher *entity.Voucher) error

	// Redeem atomically consumes one use of the voucher: it decrements
	// remaining_uses and increments used_count, only while the voucher
	// is VALID with at least one use left. Reports ok=false without an
	// error when the voucher could not be consumed; callers re-read the
	// row to classify why.
	Redeem(ctx context.Context, code string) (bool, error)

	// Revert returns one use to the voucher, restoring remaining_uses
	// and VALID status. Used when a pending order is cancelled.
	Revert(ctx context.Context, code string) (bool, error)

	// MarkExpired flips the voucher status to EXPIRED.
	MarkExpired(ctx context.Context, code string) (bool, error)
}
