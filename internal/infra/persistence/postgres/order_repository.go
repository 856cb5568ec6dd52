package postgres

import (
	"context"
	"encoding/json"
	"time"

	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/domain/repository"
	"feast/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface using GORM.
//
// Status transitions are single conditional UPDATE statements keyed on
// the current status, so two concurrent transitions can never both
// succeed; the loser sees RowsAffected == 0.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// Create persists a new order. The unique index on readable_id is the
// authority on collisions; the caller retries with a fresh code.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM, err := fromOrderDomain(order)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReadableID
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required order information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// FindByID retrieves a single order by its unique ID.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM)
}

// FindByReadableID retrieves a single order by its human-facing id.
func (repo *orderRepository) FindByReadableID(ctx context.Context, readableID string) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).Where("readable_id = ?", readableID).First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by readable id")
	}

	return toOrderDomain(&orderM)
}

// ListByUser returns the orders created by the given user, newest first.
func (repo *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders by user")
	}

	return toOrderDomainSlice(orderModels)
}

// ListByCatererBetween returns the orders placed against the given
// caterer with a requested pickup time inside [from, to).
func (repo *orderRepository) ListByCatererBetween(ctx context.Context, catererID uuid.UUID, from, to time.Time) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("caterer_id = ? AND requested_time >= ? AND requested_time < ?", catererID, from, to).
		Order("requested_time").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders by caterer")
	}

	return toOrderDomainSlice(orderModels)
}

// MarkPaid flips the order from PENDING to PAID, only if it is still PENDING.
func (repo *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", id, string(entity.OrderPending)).
		Updates(map[string]any{
			"status":      string(entity.OrderPaid),
			"paid":        true,
			"payment_ref": paymentRef,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark order paid")
	}

	return result.RowsAffected == 1, nil
}

// Cancel flips the order from PENDING to CANCELLED, only if it is still PENDING.
func (repo *orderRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", id, string(entity.OrderPending)).
		Updates(map[string]any{
			"status":        string(entity.OrderCancelled),
			"cancel_reason": reason,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to cancel order")
	}

	return result.RowsAffected == 1, nil
}

// AttachVoucher records the voucher code on the order, only if none is
// attached yet.
func (repo *orderRepository) AttachVoucher(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND voucher_code = ''", id).
		Updates(map[string]any{
			"voucher_code": code,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to attach voucher")
	}

	return result.RowsAffected == 1, nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) (*entity.Order, error) {
	if data == nil {
		return nil, nil
	}

	var dish entity.DishSnapshot
	if err := json.Unmarshal(data.Dish, &dish); err != nil {
		return nil, errors.Wrap(err, "failed to decode order dish snapshot")
	}

	return &entity.Order{
		ID:            data.ID,
		ReadableID:    data.ReadableID,
		Description:   data.Description,
		Amount:        data.Amount,
		Currency:      entity.Currency(data.Currency),
		Status:        entity.OrderStatus(data.Status),
		Paid:          data.Paid,
		PaymentRef:    data.PaymentRef,
		RequestedTime: data.RequestedTime,
		Dish:          dish,
		VoucherCode:   data.VoucherCode,
		CancelReason:  data.CancelReason,
		CreatedBy:     data.CreatedBy,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}, nil
}

func toOrderDomainSlice(data []*model.OrderModel) ([]*entity.Order, error) {
	orders := make([]*entity.Order, 0, len(data))
	for _, m := range data {
		order, err := toOrderDomain(m)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel for persistence.
func fromOrderDomain(data *entity.Order) (*model.OrderModel, error) {
	if data == nil {
		return nil, nil
	}

	dishJSON, err := json.Marshal(data.Dish)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode order dish snapshot")
	}

	return &model.OrderModel{
		ID:            data.ID,
		ReadableID:    data.ReadableID,
		Description:   data.Description,
		Amount:        data.Amount,
		Currency:      string(data.Currency),
		Status:        string(data.Status),
		Paid:          data.Paid,
		PaymentRef:    data.PaymentRef,
		RequestedTime: data.RequestedTime,
		Dish:          datatypes.JSON(dishJSON),
		CatererID:     data.Dish.Caterer.ID,
		VoucherCode:   data.VoucherCode,
		CancelReason:  data.CancelReason,
		CreatedBy:     data.CreatedBy,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}, nil
}
