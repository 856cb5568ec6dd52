// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	"feast/internal/domain/catalog"
	"feast/internal/domain/codes"
	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/domain/repository"
	"feast/internal/domain/schedule"
	"feast/internal/domain/service"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// readableIDAttempts bounds how many fresh codes CreateOrder tries
// before giving up with ErrIdAllocationFailed.
const readableIDAttempts = 5

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager   repository.TransactionManager
	payments    service.PaymentProvider
	pickupCodes service.PickupCodeService
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	Payments    service.PaymentProvider
	PickupCodes service.PickupCodeService
	Logger      *slog.Logger
}

// NewOrderService creates a new order service instance
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:   params.TxManager,
		payments:    params.Payments,
		pickupCodes: params.PickupCodes,
		logger:      params.Logger,
	}
}

// CreateOrder places a new order. Each attempt runs in its own
// transaction so a readable id collision rolls back the voucher
// redemption along with the insert before the next attempt.
func (srv *orderService) CreateOrder(ctx context.Context, input usecase.CreateOrderInput) (*usecase.CreateOrderOutput, error) {
	if err := input.Currency.Validate(); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}
	if input.RequestedTime.IsZero() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("requested time is required")
	}

	var output *usecase.CreateOrderOutput

	for attempt := 0; attempt < readableIDAttempts; attempt++ {
		readableID, err := codes.Generate()
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate readable id")
		}

		err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			out, err := srv.createOrderTx(ctx, repoFactory, input, readableID)
			if err != nil {
				return err
			}
			output = out

			return nil
		})
		if errors.Is(err, repository.ErrDuplicateReadableID) {
			srv.logger.Warn("readable id collision, retrying", "readableID", readableID, "attempt", attempt+1)

			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to create order")
		}

		srv.logger.Info("order created",
			"orderID", output.Order.ID, "readableID", output.Order.ReadableID, "userID", input.UserID)

		return output, nil
	}

	return nil, errors.Wrap(domainerrors.ErrIdAllocationFailed, "exhausted readable id attempts")
}

// createOrderTx holds the per-attempt transactional body of CreateOrder.
func (srv *orderService) createOrderTx(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	input usecase.CreateOrderInput,
	readableID string,
) (*usecase.CreateOrderOutput, error) {
	now := time.Now()

	user, err := repoFactory.NewUserRepository().FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "order creator not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}
	if !user.Allow {
		return nil, errors.Wrap(domainerrors.ErrUserNotAllowed, "disabled accounts cannot place orders")
	}

	dish, err := repoFactory.NewDishRepository().FindByID(ctx, input.DishID)
	if err != nil {
		if errors.Is(err, repository.ErrDishNotFound) {
			return nil, errors.Wrap(domainerrors.ErrDishNotFound, "ordered dish not found")
		}

		return nil, errors.Wrap(err, "failed to find dish")
	}

	caterer, err := repoFactory.NewCatererRepository().FindByID(ctx, dish.CatererID)
	if err != nil {
		if errors.Is(err, repository.ErrCatererNotFound) {
			return nil, errors.Wrap(domainerrors.ErrCatererNotFound, "dish caterer not found")
		}

		return nil, errors.Wrap(err, "failed to find caterer")
	}

	slot, err := schedule.Evaluate(caterer.WorkingTimes, input.RequestedTime)
	if err != nil {
		if errors.Is(err, schedule.ErrUnavailable) {
			return nil, errors.Wrap(domainerrors.ErrScheduleUnavailable, "no slot within the lookahead window")
		}

		return nil, errors.Wrap(err, "failed to evaluate schedule")
	}

	snapshot, err := catalog.BuildSnapshot(dish, caterer, now)
	if err != nil {
		if errors.Is(err, catalog.ErrIncompleteData) {
			return nil, errors.Wrap(domainerrors.ErrIncompleteCatalogData, err.Error())
		}

		return nil, errors.Wrap(err, "failed to build dish snapshot")
	}

	if input.VoucherCode != "" {
		if err := redeemVoucher(ctx, repoFactory.NewVoucherRepository(), input.VoucherCode, now); err != nil {
			return nil, err
		}
	}

	order := &entity.Order{
		ID:            uuid.New(),
		ReadableID:    readableID,
		Description:   input.Description,
		Amount:        dish.Price,
		Currency:      input.Currency,
		Status:        entity.OrderPending,
		Paid:          false,
		RequestedTime: input.RequestedTime,
		Dish:          snapshot,
		VoucherCode:   input.VoucherCode,
		CreatedBy:     input.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := repoFactory.NewOrderRepository().Create(ctx, order); err != nil {
		// ErrDuplicateReadableID passes through untouched so the
		// caller's retry loop can see it.
		return nil, err
	}

	return &usecase.CreateOrderOutput{
		Order:         order,
		EarliestStart: slot.EarliestStart,
	}, nil
}

// redeemVoucher consumes one voucher use, translating every failure mode
// into its domain error.
func redeemVoucher(ctx context.Context, voucherRepo repository.VoucherRepository, code string, now time.Time) error {
	voucher, err := voucherRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrVoucherNotFound) {
			return errors.Wrap(domainerrors.ErrVoucherNotFound, "unknown voucher code")
		}

		return errors.Wrap(err, "failed to find voucher")
	}

	if voucher.ExpiredAt(now) {
		if voucher.Status != entity.VoucherExpired {
			if _, err := voucherRepo.MarkExpired(ctx, code); err != nil {
				return errors.Wrap(err, "failed to expire voucher")
			}
		}

		return errors.Wrap(domainerrors.ErrVoucherExpired, "voucher expiration date passed")
	}

	ok, err := voucherRepo.Redeem(ctx, code)
	if err != nil {
		return errors.Wrap(err, "failed to redeem voucher")
	}
	if ok {
		return nil
	}

	// The conditional update matched nothing; re-read to tell a
	// concurrent exhaustion from a concurrent expiry.
	voucher, err = voucherRepo.FindByCode(ctx, code)
	if err != nil {
		return errors.Wrap(err, "failed to re-read voucher")
	}
	if voucher.ExpiredAt(now) {
		return errors.Wrap(domainerrors.ErrVoucherExpired, "voucher expired")
	}

	return errors.Wrap(domainerrors.ErrVoucherExhausted, "no remaining uses")
}

// MarkPaid transitions the order to PAID after verifying the charge.
// Replaying the same paymentRef on an already PAID order is a no-op.
func (srv *orderService) MarkPaid(ctx context.Context, orderID uuid.UUID, paymentRef string) (*entity.Order, error) {
	if paymentRef == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("payment reference is required")
	}

	var result *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		order, err := findOrder(ctx, orderRepo, orderID)
		if err != nil {
			return err
		}

		if order.Status == entity.OrderPaid && order.PaymentRef == paymentRef {
			result = order

			return nil
		}
		if !order.Status.CanTransitionTo(entity.OrderPaid) {
			return errors.Wrapf(domainerrors.ErrInvalidTransition,
				"cannot pay an order in state %s", order.Status)
		}

		amount, err := srv.amountDue(ctx, repoFactory, order)
		if err != nil {
			return err
		}
		if err := srv.payments.VerifyCharge(ctx, paymentRef, amount, order.Currency); err != nil {
			return errors.Wrap(err, "charge verification failed")
		}

		ok, err := orderRepo.MarkPaid(ctx, orderID, paymentRef)
		if err != nil {
			return errors.Wrap(err, "failed to mark order paid")
		}
		if !ok {
			// Lost a race; re-read to distinguish a duplicate webhook
			// delivery from a genuine conflict.
			order, err = findOrder(ctx, orderRepo, orderID)
			if err != nil {
				return err
			}
			if order.Status == entity.OrderPaid && order.PaymentRef == paymentRef {
				result = order

				return nil
			}

			return errors.Wrapf(domainerrors.ErrInvalidTransition,
				"order moved to state %s concurrently", order.Status)
		}

		order.Status = entity.OrderPaid
		order.Paid = true
		order.PaymentRef = paymentRef
		result = order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to mark order paid")
	}

	srv.logger.Info("order paid", "orderID", orderID, "paymentRef", paymentRef)

	return result, nil
}

// CancelOrder transitions the order to CANCELLED and returns the
// consumed voucher use, if any.
func (srv *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*entity.Order, error) {
	var result *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		order, err := findOrder(ctx, orderRepo, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(entity.OrderCancelled) {
			return errors.Wrapf(domainerrors.ErrInvalidTransition,
				"cannot cancel an order in state %s", order.Status)
		}

		ok, err := orderRepo.Cancel(ctx, orderID, reason)
		if err != nil {
			return errors.Wrap(err, "failed to cancel order")
		}
		if !ok {
			order, err = findOrder(ctx, orderRepo, orderID)
			if err != nil {
				return err
			}

			return errors.Wrapf(domainerrors.ErrInvalidTransition,
				"order moved to state %s concurrently", order.Status)
		}

		if order.VoucherCode != "" {
			if _, err := repoFactory.NewVoucherRepository().Revert(ctx, order.VoucherCode); err != nil {
				return errors.Wrap(err, "failed to revert voucher")
			}
		}

		order.Status = entity.OrderCancelled
		order.CancelReason = reason
		result = order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to cancel order")
	}

	srv.logger.Info("order cancelled", "orderID", orderID, "reason", reason)

	return result, nil
}

// GetOrder retrieves a single order by id.
func (srv *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	var result *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		order, err := findOrder(ctx, repoFactory.NewOrderRepository(), orderID)
		if err != nil {
			return err
		}
		result = order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get order")
	}

	return result, nil
}

// GetOrderByReadableID retrieves a single order by its human-facing id.
func (srv *orderService) GetOrderByReadableID(ctx context.Context, readableID string) (*entity.Order, error) {
	var result *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		order, err := repoFactory.NewOrderRepository().FindByReadableID(ctx, readableID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "unknown readable id")
			}

			return errors.Wrap(err, "failed to find order")
		}
		result = order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get order")
	}

	return result, nil
}

// ListUserOrders returns the orders placed by the given user.
func (srv *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var result []*entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orders, err := repoFactory.NewOrderRepository().ListByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list orders")
		}
		result = orders

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user orders")
	}

	return result, nil
}

// ListCatererOrders returns the orders requested from the caterer inside [from, to).
func (srv *orderService) ListCatererOrders(ctx context.Context, catererID uuid.UUID, from, to time.Time) ([]*entity.Order, error) {
	if !to.After(from) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("time range end must follow its start")
	}

	var result []*entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orders, err := repoFactory.NewOrderRepository().ListByCatererBetween(ctx, catererID, from, to)
		if err != nil {
			return errors.Wrap(err, "failed to list orders")
		}
		result = orders

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list caterer orders")
	}

	return result, nil
}

// PickupCode renders the QR code for collecting a paid order.
func (srv *orderService) PickupCode(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderPaid {
		return nil, errors.Wrapf(domainerrors.ErrInvalidTransition,
			"pickup codes exist only for paid orders, order is %s", order.Status)
	}

	png, err := srv.pickupCodes.GeneratePickupQR(order.ID, order.ReadableID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render pickup code")
	}

	return png, nil
}

// amountDue computes the amount the charge must cover, voucher included.
func (srv *orderService) amountDue(ctx context.Context, repoFactory repository.RepositoryFactory, order *entity.Order) (int, error) {
	if order.VoucherCode == "" {
		return order.Total(nil), nil
	}

	voucher, err := repoFactory.NewVoucherRepository().FindByCode(ctx, order.VoucherCode)
	if err != nil {
		return 0, errors.Wrap(err, "failed to find order voucher")
	}

	return order.Total(voucher), nil
}

func findOrder(ctx context.Context, orderRepo repository.OrderRepository, orderID uuid.UUID) (*entity.Order, error) {
	order, err := orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}
