package service

import (
	"github.com/google/uuid"
)

// PickupCodeService defines the interface for pickup QR code generation and parsing.
// Customers present the code at the caterer counter to collect a paid order.
type PickupCodeService interface {
	// GeneratePickupQR generates a QR code image for collecting the given order.
	GeneratePickupQR(orderID uuid.UUID, readableID string) ([]byte, error)

	// ParsePickupQR parses scanned QR data and returns the order ID it encodes.
	ParsePickupQR(qrData string) (uuid.UUID, error)
}
