// Package payment provides the payment verification collaborator.
package payment

import (
	"context"
	"log/slog"
	"strings"

	"feast/internal/domain/entity"
	"feast/internal/domain/service"

	"github.com/pkg/errors"
)

// manualProvider trusts externally settled charges. The operator (or an
// upstream gateway webhook) supplies the charge reference, and this
// provider only checks its shape; swapping in a real gateway client is
// a matter of replacing this implementation.
type manualProvider struct {
	logger *slog.Logger
}

// NewManualProvider is the constructor for manualProvider.
func NewManualProvider(logger *slog.Logger) service.PaymentProvider {
	return &manualProvider{logger: logger}
}

// VerifyCharge accepts any well-formed charge reference for a positive amount.
func (p *manualProvider) VerifyCharge(ctx context.Context, paymentRef string, amount int, currency entity.Currency) error {
	if strings.TrimSpace(paymentRef) == "" {
		return errors.New("payment reference must not be empty")
	}
	if amount <= 0 {
		return errors.Errorf("charge amount must be positive, got %d", amount)
	}
	if err := currency.Validate(); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "charge accepted without gateway verification",
		slog.String("payment_ref", paymentRef),
		slog.Int("amount", amount),
		slog.String("currency", string(currency)),
	)

	return nil
}
