package service

import (
	"context"

	"feast/internal/domain/entity"
)

// PaymentProvider defines the interface for confirming charges with the
// payment gateway. The order use case calls VerifyCharge before marking
// an order paid, so a forged webhook cannot flip an order's status.
type PaymentProvider interface {
	// VerifyCharge checks that paymentRef identifies a settled charge
	// for the given amount and currency.
	VerifyCharge(ctx context.Context, paymentRef string, amount int, currency entity.Currency) error
}
