package postgres

import (
	"context"
	"time"

	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/domain/repository"
	"feast/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// voucherRepository implements the repository.VoucherRepository interface using GORM.
//
// Redemption is a single conditional UPDATE guarded by status and
// remaining_uses, which makes concurrent redemptions of the last use
// resolve to exactly one winner without explicit row locks.
type voucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository is the constructor for voucherRepository.
func NewVoucherRepository(db *gorm.DB) repository.VoucherRepository {
	return &voucherRepository{
		db: db,
	}
}

// FindByCode retrieves a single voucher by its code.
func (repo *voucherRepository) FindByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	var voucherM model.VoucherModel

	if err := repo.db.WithContext(ctx).Where("code = ?", code).First(&voucherM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVoucherNotFound
		}

		return nil, errors.Wrap(err, "failed to find voucher by code")
	}

	return toVoucherDomain(&voucherM), nil
}

// Create persists a new voucher. The unique index on code is the
// authority on collisions; the caller retries with a fresh code.
func (repo *voucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	voucherM := fromVoucherDomain(voucher)

	if err := repo.db.WithContext(ctx).Create(voucherM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateVoucherCode
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create voucher")
	}

	voucher.ID = voucherM.ID
	voucher.CreatedAt = voucherM.CreatedAt
	voucher.UpdatedAt = voucherM.UpdatedAt

	return nil
}

// Redeem atomically consumes one use. One-time vouchers flip to EXPIRED
// on their last use inside the same statement.
func (repo *voucherRepository) Redeem(ctx context.Context, code string) (bool, error) {
	result := repo.db.WithContext(ctx).Exec(`
		UPDATE vouchers
		SET remaining_uses = remaining_uses - 1,
		    used_count = used_count + 1,
		    status = CASE
		        WHEN expiration_type = ? AND remaining_uses - 1 = 0 THEN ?
		        ELSE status
		    END,
		    updated_at = ?
		WHERE code = ? AND status = ? AND remaining_uses > 0`,
		string(entity.ExpirationOneTime), string(entity.VoucherExpired),
		time.Now(), code, string(entity.VoucherValid),
	)
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to redeem voucher")
	}

	return result.RowsAffected == 1, nil
}

// Revert returns one use to the voucher and restores VALID status, used
// when the surrounding order falls through after redemption.
func (repo *voucherRepository) Revert(ctx context.Context, code string) (bool, error) {
	result := repo.db.WithContext(ctx).Exec(`
		UPDATE vouchers
		SET remaining_uses = remaining_uses + 1,
		    used_count = used_count - 1,
		    status = ?,
		    updated_at = ?
		WHERE code = ? AND used_count > 0`,
		string(entity.VoucherValid), time.Now(), code,
	)
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to revert voucher")
	}

	return result.RowsAffected == 1, nil
}

// MarkExpired flips the voucher status to EXPIRED.
func (repo *voucherRepository) MarkExpired(ctx context.Context, code string) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.VoucherModel{}).
		Where("code = ? AND status = ?", code, string(entity.VoucherValid)).
		Update("status", string(entity.VoucherExpired))
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark voucher expired")
	}

	return result.RowsAffected == 1, nil
}

// --- Mapper Functions ---

// toVoucherDomain converts a GORM VoucherModel to a domain Voucher entity.
func toVoucherDomain(data *model.VoucherModel) *entity.Voucher {
	if data == nil {
		return nil
	}

	var expiration time.Time
	if data.Expiration != nil {
		expiration = *data.Expiration
	}

	return &entity.Voucher{
		ID:             data.ID,
		Code:           data.Code,
		Discount:       data.Discount,
		DiscountType:   entity.DiscountType(data.DiscountType),
		ExpirationType: entity.ExpirationType(data.ExpirationType),
		Expiration:     expiration,
		Status:         entity.VoucherStatus(data.Status),
		UsedCount:      data.UsedCount,
		RemainingUses:  data.RemainingUses,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromVoucherDomain converts a domain Voucher entity to a GORM VoucherModel for persistence.
func fromVoucherDomain(data *entity.Voucher) *model.VoucherModel {
	if data == nil {
		return nil
	}

	var expiration *time.Time
	if !data.Expiration.IsZero() {
		e := data.Expiration
		expiration = &e
	}

	return &model.VoucherModel{
		ID:             data.ID,
		Code:           data.Code,
		Discount:       data.Discount,
		DiscountType:   string(data.DiscountType),
		ExpirationType: string(data.ExpirationType),
		Expiration:     expiration,
		Status:         string(data.Status),
		UsedCount:      data.UsedCount,
		RemainingUses:  data.RemainingUses,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
