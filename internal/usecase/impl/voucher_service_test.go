package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"feast/internal/domain/codes"
	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVoucherService(store *fakeStore) usecase.VoucherUsecase {
	return NewVoucherService(VoucherServiceParams{
		TxManager: newFakeTxManager(store),
		Logger:    slog.New(slog.DiscardHandler),
	})
}

func TestVoucherService_GenerateVouchers_OneTime(t *testing.T) {
	store := newFakeStore()
	svc := newVoucherService(store)

	vouchers, err := svc.GenerateVouchers(context.Background(), usecase.GenerateVouchersInput{
		Count:          20,
		Discount:       5,
		DiscountType:   entity.DiscountAmount,
		ExpirationType: entity.ExpirationOneTime,
		UsesPerVoucher: 99, // ignored for one-time vouchers
	})
	require.NoError(t, err)
	require.Len(t, vouchers, 20)

	seen := make(map[string]bool)
	for _, v := range vouchers {
		assert.True(t, codes.Valid(v.Code), "code %q", v.Code)
		assert.False(t, seen[v.Code], "duplicate code %q", v.Code)
		seen[v.Code] = true

		assert.Equal(t, entity.VoucherValid, v.Status)
		assert.Equal(t, 1, v.RemainingUses)
		assert.True(t, v.Expiration.IsZero())
	}
	assert.Len(t, store.vouchers, 20)
}

func TestVoucherService_GenerateVouchers_Until(t *testing.T) {
	store := newFakeStore()
	svc := newVoucherService(store)

	until := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	vouchers, err := svc.GenerateVouchers(context.Background(), usecase.GenerateVouchersInput{
		Count:          3,
		Discount:       10,
		DiscountType:   entity.DiscountPercentage,
		ExpirationType: entity.ExpirationUntil,
		Expiration:     until,
		UsesPerVoucher: 5,
	})
	require.NoError(t, err)
	require.Len(t, vouchers, 3)

	for _, v := range vouchers {
		assert.Equal(t, until, v.Expiration)
		assert.Equal(t, 5, v.RemainingUses)
	}
}

func TestVoucherService_GenerateVouchers_InputValidation(t *testing.T) {
	svc := newVoucherService(newFakeStore())

	tests := []struct {
		name  string
		input usecase.GenerateVouchersInput
	}{
		{"zero count", usecase.GenerateVouchersInput{
			Discount: 5, DiscountType: entity.DiscountAmount, ExpirationType: entity.ExpirationOneTime,
		}},
		{"oversized batch", usecase.GenerateVouchersInput{
			Count: maxVoucherBatch + 1, Discount: 5, DiscountType: entity.DiscountAmount, ExpirationType: entity.ExpirationOneTime,
		}},
		{"zero discount", usecase.GenerateVouchersInput{
			Count: 1, DiscountType: entity.DiscountAmount, ExpirationType: entity.ExpirationOneTime,
		}},
		{"percentage above 100", usecase.GenerateVouchersInput{
			Count: 1, Discount: 150, DiscountType: entity.DiscountPercentage, ExpirationType: entity.ExpirationOneTime,
		}},
		{"dated without expiration", usecase.GenerateVouchersInput{
			Count: 1, Discount: 5, DiscountType: entity.DiscountAmount, ExpirationType: entity.ExpirationUntil, UsesPerVoucher: 1,
		}},
		{"dated without uses", usecase.GenerateVouchersInput{
			Count: 1, Discount: 5, DiscountType: entity.DiscountAmount, ExpirationType: entity.ExpirationUntil,
			Expiration: time.Now().AddDate(1, 0, 0),
		}},
		{"unknown expiration type", usecase.GenerateVouchersInput{
			Count: 1, Discount: 5, DiscountType: entity.DiscountAmount, ExpirationType: "weekly",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GenerateVouchers(context.Background(), tt.input)
			require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestVoucherService_GetVoucher(t *testing.T) {
	store := newFakeStore()
	store.addVoucher(entity.Voucher{
		ID:             uuid.New(),
		Code:           "KJS8SCR8",
		Discount:       5,
		DiscountType:   entity.DiscountAmount,
		ExpirationType: entity.ExpirationOneTime,
		Status:         entity.VoucherValid,
		RemainingUses:  1,
	})
	svc := newVoucherService(store)

	voucher, err := svc.GetVoucher(context.Background(), "KJS8SCR8")
	require.NoError(t, err)
	assert.Equal(t, entity.VoucherValid, voucher.Status)

	_, err = svc.GetVoucher(context.Background(), "XXP2QQW3")
	require.ErrorIs(t, err, domainerrors.ErrVoucherNotFound)

	_, err = svc.GetVoucher(context.Background(), "lowercase")
	require.ErrorIs(t, err, domainerrors.ErrVoucherNotFound)
}

func TestVoucherService_GetVoucher_RefreshesDatedExpiry(t *testing.T) {
	store := newFakeStore()
	store.addVoucher(entity.Voucher{
		ID:             uuid.New(),
		Code:           "KJS8SCR8",
		Discount:       5,
		DiscountType:   entity.DiscountAmount,
		ExpirationType: entity.ExpirationUntil,
		Expiration:     time.Now().AddDate(0, 0, -1),
		Status:         entity.VoucherValid,
		RemainingUses:  3,
	})
	svc := newVoucherService(store)

	voucher, err := svc.GetVoucher(context.Background(), "KJS8SCR8")
	require.NoError(t, err)
	assert.Equal(t, entity.VoucherExpired, voucher.Status)

	// The refresh is persisted, not just reported.
	assert.Equal(t, entity.VoucherExpired, store.voucherByCode("KJS8SCR8").Status)
}
