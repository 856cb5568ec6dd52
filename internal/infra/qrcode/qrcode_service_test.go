package qrcode

import (
	"encoding/json"
	"testing"

	"feast/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(size int, correction string) *pickupCodeService {
	cfg := &config.Config{
		QRCode: &config.QRCodeConfig{
			Size:                 size,
			ErrorCorrectionLevel: correction,
		},
	}

	return NewPickupCodeService(cfg).(*pickupCodeService)
}

func TestNewPickupCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := testService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, service)
		})
	}
}

func TestPickupCodeService_DefaultsWithoutConfig(t *testing.T) {
	service := NewPickupCodeService(&config.Config{})
	assert.NotNil(t, service)

	qrBytes, err := service.GeneratePickupQR(uuid.New(), "TMN2PKL4")
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)
}

func TestPickupCodeService_GeneratePickupQR(t *testing.T) {
	service := testService(256, "M")

	qrBytes, err := service.GeneratePickupQR(uuid.New(), "TMN2PKL4")
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestPickupCodeService_GeneratePickupQR_DifferentSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Small QR", 128},
		{"Medium QR", 256},
		{"Large QR", 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := testService(tt.size, "M")

			qrBytes, err := service.GeneratePickupQR(uuid.New(), "TMN2PKL4")
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}

func TestPickupCodeService_ParsePickupQR(t *testing.T) {
	service := testService(256, "M")
	orderID := uuid.New()

	data := PickupCodeData{
		OrderID:    orderID.String(),
		ReadableID: "TMN2PKL4",
		Type:       "pickup",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	parsedID, err := service.ParsePickupQR(string(jsonData))
	require.NoError(t, err)
	assert.Equal(t, orderID, parsedID)
}

func TestPickupCodeService_ParsePickupQR_InvalidJSON(t *testing.T) {
	service := testService(256, "M")

	_, err := service.ParsePickupQR("invalid json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal QR code data")
}

func TestPickupCodeService_ParsePickupQR_InvalidType(t *testing.T) {
	service := testService(256, "M")

	data := PickupCodeData{
		OrderID:    uuid.New().String(),
		ReadableID: "TMN2PKL4",
		Type:       "subscription",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = service.ParsePickupQR(string(jsonData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid QR code type")
}

func TestPickupCodeService_ParsePickupQR_InvalidUUID(t *testing.T) {
	service := testService(256, "M")

	data := PickupCodeData{
		OrderID:    "not-a-valid-uuid",
		ReadableID: "TMN2PKL4",
		Type:       "pickup",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = service.ParsePickupQR(string(jsonData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse order ID")
}
