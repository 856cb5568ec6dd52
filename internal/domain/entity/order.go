package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Order lifecycle states. PENDING is the only non-terminal state.
const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
)

// CanTransitionTo reports whether the state machine permits moving from
// s to target. PAID and CANCELLED are terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s != OrderPending {
		return false
	}

	return target == OrderPaid || target == OrderCancelled
}

// Currency is an ISO 4217 currency code accepted by the marketplace.
type Currency string

// Supported currencies.
const (
	CurrencyAUD Currency = "AUD"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// Validate rejects currency codes outside the supported set.
func (c Currency) Validate() error {
	switch c {
	case CurrencyAUD, CurrencyEUR, CurrencyUSD:
		return nil
	default:
		return errors.Errorf("unsupported currency %q", string(c))
	}
}

// Order is a purchase of a single dish. It embeds an immutable snapshot
// of the dish (which embeds the caterer) taken at creation time, so
// catalog edits never retroactively change what was ordered. ReadableID
// is the short human-facing code, globally unique and immutable.
type Order struct {
	ID            uuid.UUID
	ReadableID    string
	Description   string
	Amount        int // Equals Dish.Price at creation; never silently repriced.
	Currency      Currency
	Status        OrderStatus
	Paid          bool
	PaymentRef    string // Reference supplied by the payment collaborator on MarkPaid.
	RequestedTime time.Time
	Dish          DishSnapshot
	VoucherCode   string // Optional voucher applied to this order.
	CancelReason  string
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Total returns the amount due after applying the given voucher, which
// may be nil. The stored Amount is never mutated.
func (o *Order) Total(v *Voucher) int {
	if v == nil {
		return o.Amount
	}

	return v.Apply(o.Amount)
}
