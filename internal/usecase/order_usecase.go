package usecase

import (
	"context"
	"time"

	"feast/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateOrderInput defines the data required to place a new order.
type CreateOrderInput struct {
	UserID        uuid.UUID
	DishID        uuid.UUID
	RequestedTime time.Time
	Currency      entity.Currency
	Description   string
	// VoucherCode is optional. When set, one use of the voucher is
	// consumed atomically with order creation.
	VoucherCode string
}

// --- Output DTOs ---

// CreateOrderOutput returns the created order together with schedule
// advice when the requested time itself was not fulfillable.
type CreateOrderOutput struct {
	Order *entity.Order
	// EarliestStart is the first moment the caterer could start
	// preparing. Equals RequestedTime when the slot was available as
	// asked.
	EarliestStart time.Time
}

// OrderUsecase defines the interface for order-related business operations.
type OrderUsecase interface {
	// CreateOrder validates the caterer schedule, freezes a catalog
	// snapshot into the order and persists it as PENDING with a fresh
	// readable id.
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderOutput, error)

	// MarkPaid transitions the order from PENDING to PAID. Replaying
	// the same paymentRef on a PAID order is a no-op.
	MarkPaid(ctx context.Context, orderID uuid.UUID, paymentRef string) (*entity.Order, error)

	// CancelOrder transitions the order from PENDING to CANCELLED and
	// returns any consumed voucher use.
	CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*entity.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error)
	GetOrderByReadableID(ctx context.Context, readableID string) (*entity.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
	ListCatererOrders(ctx context.Context, catererID uuid.UUID, from, to time.Time) ([]*entity.Order, error)

	// PickupCode renders the QR code a customer presents to collect a
	// paid order.
	PickupCode(ctx context.Context, orderID uuid.UUID) ([]byte, error)
}
