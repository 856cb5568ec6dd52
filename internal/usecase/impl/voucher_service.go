package impl

import (
	"context"
	"log/slog"
	"time"

	"feast/internal/domain/codes"
	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/domain/repository"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// voucherCodeAttempts bounds how many fresh codes a single voucher mint
// tries before failing the batch.
const voucherCodeAttempts = 5

// maxVoucherBatch caps one generation request.
const maxVoucherBatch = 500

// voucherService implements the VoucherUsecase interface.
type voucherService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// VoucherServiceParams holds dependencies for VoucherService, injected by Fx.
type VoucherServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewVoucherService creates a new voucher service instance
func NewVoucherService(params VoucherServiceParams) usecase.VoucherUsecase {
	return &voucherService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

// GenerateVouchers mints a batch of vouchers with fresh unique codes.
// The whole batch commits or none of it does.
func (srv *voucherService) GenerateVouchers(ctx context.Context, input usecase.GenerateVouchersInput) ([]*entity.Voucher, error) {
	if err := validateGenerateInput(input); err != nil {
		return nil, err
	}

	uses := input.UsesPerVoucher
	if input.ExpirationType == entity.ExpirationOneTime {
		uses = 1
	}

	now := time.Now()
	vouchers := make([]*entity.Voucher, 0, input.Count)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		voucherRepo := repoFactory.NewVoucherRepository()

		for i := 0; i < input.Count; i++ {
			voucher := &entity.Voucher{
				ID:             uuid.New(),
				Discount:       input.Discount,
				DiscountType:   input.DiscountType,
				ExpirationType: input.ExpirationType,
				Status:         entity.VoucherValid,
				RemainingUses:  uses,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if input.ExpirationType == entity.ExpirationUntil {
				voucher.Expiration = input.Expiration
			}

			if err := createWithFreshCode(ctx, voucherRepo, voucher); err != nil {
				return err
			}
			vouchers = append(vouchers, voucher)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate vouchers")
	}

	srv.logger.Info("vouchers generated", "count", len(vouchers), "discountType", input.DiscountType)

	return vouchers, nil
}

// GetVoucher looks up a voucher, marking it expired first when its date
// has passed.
func (srv *voucherService) GetVoucher(ctx context.Context, code string) (*entity.Voucher, error) {
	if !codes.Valid(code) {
		return nil, errors.Wrap(domainerrors.ErrVoucherNotFound, "malformed voucher code")
	}

	var result *entity.Voucher

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		voucherRepo := repoFactory.NewVoucherRepository()

		voucher, err := voucherRepo.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrVoucherNotFound) {
				return errors.Wrap(domainerrors.ErrVoucherNotFound, "unknown voucher code")
			}

			return errors.Wrap(err, "failed to find voucher")
		}

		if voucher.Status == entity.VoucherValid && voucher.ExpiredAt(time.Now()) {
			if _, err := voucherRepo.MarkExpired(ctx, code); err != nil {
				return errors.Wrap(err, "failed to expire voucher")
			}
			voucher.Status = entity.VoucherExpired
		}
		result = voucher

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get voucher")
	}

	return result, nil
}

// createWithFreshCode retries code generation on duplicate codes.
func createWithFreshCode(ctx context.Context, voucherRepo repository.VoucherRepository, voucher *entity.Voucher) error {
	for attempt := 0; attempt < voucherCodeAttempts; attempt++ {
		code, err := codes.Generate()
		if err != nil {
			return errors.Wrap(err, "failed to generate voucher code")
		}
		voucher.Code = code

		err = voucherRepo.Create(ctx, voucher)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateVoucherCode) {
			return errors.Wrap(err, "failed to create voucher")
		}
	}

	return errors.Wrap(domainerrors.ErrIdAllocationFailed, "exhausted voucher code attempts")
}

func validateGenerateInput(input usecase.GenerateVouchersInput) error {
	if input.Count <= 0 || input.Count > maxVoucherBatch {
		return domainerrors.ErrValidationFailed.WrapMessage("voucher count out of range")
	}
	if input.Discount <= 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("discount must be positive")
	}
	if input.DiscountType == entity.DiscountPercentage && input.Discount > 100 {
		return domainerrors.ErrValidationFailed.WrapMessage("percentage discount cannot exceed 100")
	}

	switch input.ExpirationType {
	case entity.ExpirationOneTime:
	case entity.ExpirationUntil:
		if input.Expiration.IsZero() {
			return domainerrors.ErrValidationFailed.WrapMessage("dated vouchers need an expiration")
		}
		if input.UsesPerVoucher <= 0 {
			return domainerrors.ErrValidationFailed.WrapMessage("uses per voucher must be positive")
		}
	default:
		return domainerrors.ErrValidationFailed.WrapMessage("unknown expiration type")
	}

	return nil
}
