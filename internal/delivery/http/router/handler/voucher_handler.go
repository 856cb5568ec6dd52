package handler

import (
	"log/slog"
	"net/http"
	"time"

	"feast/internal/delivery/http/response"
	"feast/internal/domain/entity"
	"feast/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// VoucherHandler holds dependencies for voucher-related handlers.
type VoucherHandler struct {
	uc     usecase.VoucherUsecase
	logger *slog.Logger
}

// NewVoucherHandler is the constructor for VoucherHandler, injected by Fx.
func NewVoucherHandler(uc usecase.VoucherUsecase, logger *slog.Logger) *VoucherHandler {
	return &VoucherHandler{
		uc:     uc,
		logger: logger,
	}
}

type generateVouchersRequest struct {
	Count          int       `json:"count" validate:"required,gt=0"`
	Discount       int       `json:"discount" validate:"required,gt=0"`
	DiscountType   string    `json:"discount_type" validate:"required"`
	ExpirationType string    `json:"expiration_type" validate:"required"`
	Expiration     time.Time `json:"expiration"`
	UsesPerVoucher int       `json:"uses_per_voucher"`
}

type voucherResponse struct {
	Code           string     `json:"code"`
	Discount       int        `json:"discount"`
	DiscountType   string     `json:"discount_type"`
	ExpirationType string     `json:"expiration_type"`
	Expiration     *time.Time `json:"expiration,omitempty"`
	Status         string     `json:"status"`
	UsedCount      int        `json:"used_count"`
	RemainingUses  int        `json:"remaining_uses"`
}

func toVoucherResponse(v *entity.Voucher) voucherResponse {
	out := voucherResponse{
		Code:           v.Code,
		Discount:       v.Discount,
		DiscountType:   string(v.DiscountType),
		ExpirationType: string(v.ExpirationType),
		Status:         string(v.Status),
		UsedCount:      v.UsedCount,
		RemainingUses:  v.RemainingUses,
	}
	if !v.Expiration.IsZero() {
		exp := v.Expiration
		out.Expiration = &exp
	}

	return out
}

// Generate mints a batch of vouchers with fresh unique codes.
func (h *VoucherHandler) Generate(c echo.Context) error {
	var req generateVouchersRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid voucher input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vouchers, err := h.uc.GenerateVouchers(c.Request().Context(), usecase.GenerateVouchersInput{
		Count:          req.Count,
		Discount:       req.Discount,
		DiscountType:   entity.DiscountType(req.DiscountType),
		ExpirationType: entity.ExpirationType(req.ExpirationType),
		Expiration:     req.Expiration,
		UsesPerVoucher: req.UsesPerVoucher,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]voucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		out = append(out, toVoucherResponse(v))
	}

	return response.Success(c, http.StatusCreated, out, "Vouchers generated successfully")
}

// Get looks up a voucher by code, refreshing dated expirations first.
func (h *VoucherHandler) Get(c echo.Context) error {
	voucher, err := h.uc.GetVoucher(c.Request().Context(), c.Param("code"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toVoucherResponse(voucher), "")
}
