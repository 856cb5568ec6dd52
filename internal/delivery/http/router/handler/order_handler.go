package handler

import (
	"log/slog"
	"net/http"
	"time"

	"feast/internal/delivery/http/response"
	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order-related handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: logger,
	}
}

type createOrderRequest struct {
	DishID        uuid.UUID `json:"dish_id" validate:"required"`
	RequestedTime time.Time `json:"requested_time" validate:"required"`
	Currency      string    `json:"currency" validate:"required,len=3"`
	Description   string    `json:"description"`
	VoucherCode   string    `json:"voucher_code"`
}

type markPaidRequest struct {
	PaymentRef string `json:"payment_ref" validate:"required"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	ReadableID    string              `json:"readable_id"`
	Description   string              `json:"description,omitempty"`
	Amount        int                 `json:"amount"`
	Currency      string              `json:"currency"`
	Status        string              `json:"status"`
	Paid          bool                `json:"paid"`
	RequestedTime time.Time           `json:"requested_time"`
	Dish          entity.DishSnapshot `json:"dish"`
	VoucherCode   string              `json:"voucher_code,omitempty"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type createOrderResponse struct {
	Order         orderResponse `json:"order"`
	EarliestStart time.Time     `json:"earliest_start"`
}

func toOrderResponse(order *entity.Order) orderResponse {
	return orderResponse{
		ID:            order.ID,
		ReadableID:    order.ReadableID,
		Description:   order.Description,
		Amount:        order.Amount,
		Currency:      string(order.Currency),
		Status:        string(order.Status),
		Paid:          order.Paid,
		RequestedTime: order.RequestedTime,
		Dish:          order.Dish,
		VoucherCode:   order.VoucherCode,
		CancelReason:  order.CancelReason,
		CreatedAt:     order.CreatedAt,
	}
}

func toOrderResponses(orders []*entity.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}

	return out
}

// Create places a new order for the authenticated user.
func (h *OrderHandler) Create(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.CreateOrder(c.Request().Context(), usecase.CreateOrderInput{
		UserID:        userID,
		DishID:        req.DishID,
		RequestedTime: req.RequestedTime,
		Currency:      entity.Currency(req.Currency),
		Description:   req.Description,
		VoucherCode:   req.VoucherCode,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, createOrderResponse{
		Order:         toOrderResponse(output.Order),
		EarliestStart: output.EarliestStart,
	}, "Order placed successfully")
}

// MarkPaid settles a pending order against a charge reference.
func (h *OrderHandler) MarkPaid(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	var req markPaidRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.uc.MarkPaid(c.Request().Context(), orderID, req.PaymentRef)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order), "Order paid successfully")
}

// Cancel cancels a pending order and returns any consumed voucher use.
func (h *OrderHandler) Cancel(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	var req cancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cancel input")
	}

	order, err := h.uc.CancelOrder(c.Request().Context(), orderID, req.Reason)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order), "Order cancelled successfully")
}

// Get returns a single order. Customers can only read their own orders.
func (h *OrderHandler) Get(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	order, err := h.uc.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := h.requireOwnership(c, order); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order), "")
}

// GetByReadableID resolves the short human-facing order code.
func (h *OrderHandler) GetByReadableID(c echo.Context) error {
	order, err := h.uc.GetOrderByReadableID(c.Request().Context(), c.Param("readableId"))
	if err != nil {
		return errors.WithStack(err)
	}
	if err := h.requireOwnership(c, order); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order), "")
}

// ListMine returns the authenticated user's orders, newest first.
func (h *OrderHandler) ListMine(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orders, err := h.uc.ListUserOrders(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderResponses(orders), "")
}

// ListForCaterer returns a caterer's orders within a pickup time window.
func (h *OrderHandler) ListForCaterer(c echo.Context) error {
	catererID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid caterer ID")
	}

	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid 'from' timestamp, expected RFC 3339")
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid 'to' timestamp, expected RFC 3339")
	}

	orders, err := h.uc.ListCatererOrders(c.Request().Context(), catererID, from, to)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderResponses(orders), "")
}

// PickupCode renders the QR code presented at the counter for a paid order.
func (h *OrderHandler) PickupCode(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	order, err := h.uc.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := h.requireOwnership(c, order); err != nil {
		return err
	}

	png, err := h.uc.PickupCode(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// requireOwnership rejects access to orders created by someone else,
// unless the caller holds the admin role.
func (h *OrderHandler) requireOwnership(c echo.Context, order *entity.Order) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if roles, ok := c.Get("roles").([]string); ok {
		for _, role := range roles {
			if role == "admin" {
				return nil
			}
		}
	}

	if order.CreatedBy != userID {
		return errors.WithStack(domainerrors.ErrOrderOwnershipViolation)
	}

	return nil
}
