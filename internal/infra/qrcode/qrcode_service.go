package qrcode

import (
	"encoding/json"
	"fmt"

	"feast/config"
	"feast/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

type pickupCodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// PickupCodeData represents the QR code payload
type PickupCodeData struct {
	OrderID    string `json:"order_id"`
	ReadableID string `json:"readable_id"`
	Type       string `json:"type"`
}

// NewPickupCodeService creates a new pickup code service instance
func NewPickupCodeService(cfg *config.Config) service.PickupCodeService {
	size := defaultSize
	correction := ""
	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		correction = cfg.QRCode.ErrorCorrectionLevel
	}

	// Set error correction level
	var level qrcode.RecoveryLevel
	switch correction {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &pickupCodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GeneratePickupQR generates a QR code for collecting a paid order at the counter
func (s *pickupCodeService) GeneratePickupQR(orderID uuid.UUID, readableID string) ([]byte, error) {
	data := PickupCodeData{
		OrderID:    orderID.String(),
		ReadableID: readableID,
		Type:       "pickup",
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParsePickupQR parses scanned QR data and returns the order ID it encodes
func (s *pickupCodeService) ParsePickupQR(qrData string) (uuid.UUID, error) {
	var data PickupCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	// Validate type
	if data.Type != "pickup" {
		return uuid.Nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	orderID, err := uuid.Parse(data.OrderID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse order ID: %w", err)
	}

	return orderID, nil
}
