package repository

import (
	"context"
	"errors"
	"time"

	"feast/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when no order matches the lookup.
var ErrOrderNotFound = errors.New("order not found")

// ErrDuplicateReadableID is returned by Create when the generated
// readable id collides with an existing order. Callers regenerate and
// retry a bounded number of times.
var ErrDuplicateReadableID = errors.New("readable id already taken")

// OrderRepository defines the standard operations for order persistence.
//
// MarkPaid, Cancel and AttachVoucher are conditional single-statement
// updates: they report ok=false without an error when the row did not
// match the expected state, so concurrent callers can lose the race
// cleanly instead of overwriting each other.
type OrderRepository interface {
	// Create persists a new order. Returns ErrDuplicateReadableID when
	// the readable id is already in use.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves a single order by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByReadableID retrieves a single order by its human-facing id.
	FindByReadableID(ctx context.Context, readableID string) (*entity.Order, error)

	// ListByUser returns the orders created by the given user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// ListByCatererBetween returns the orders placed against the given
	// caterer with a requested pickup time inside [from, to).
	ListByCatererBetween(ctx context.Context, catererID uuid.UUID, from, to time.Time) ([]*entity.Order, error)

	// MarkPaid flips the order from PENDING to PAID and records the
	// payment reference, only if the order is still PENDING.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error)

	// Cancel flips the order from PENDING to CANCELLED and records the
	// reason, only if the order is still PENDING.
	Cancel(ctx context.Context, id uuid.UUID, reason string) (bool, error)

	// AttachVoucher records the voucher code on the order, only if no
	// voucher is attached yet.
	AttachVoucher(ctx context.Context, id uuid.UUID, code string) (bool, error)
}
