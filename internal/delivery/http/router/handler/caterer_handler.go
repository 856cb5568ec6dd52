package handler

import (
	"log/slog"
	"net/http"

	"feast/internal/delivery/http/response"
	"feast/internal/domain/entity"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CatererHandler holds dependencies for caterer management handlers.
type CatererHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewCatererHandler is the constructor for CatererHandler, injected by Fx.
func NewCatererHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *CatererHandler {
	return &CatererHandler{
		uc:     uc,
		logger: logger,
	}
}

type createCatererRequest struct {
	Name         string              `json:"name" validate:"required"`
	Description  string              `json:"description"`
	Manager      string              `json:"manager"`
	Email        string              `json:"email" validate:"required,email"`
	Phone        string              `json:"phone"`
	Location     entity.Location     `json:"location" validate:"required"`
	WorkingTimes entity.WorkingTimes `json:"working_times" validate:"required"`
}

type updateCatererRequest struct {
	Description  *string              `json:"description"`
	Manager      *string              `json:"manager"`
	Email        *string              `json:"email"`
	Phone        *string              `json:"phone"`
	Location     *entity.Location     `json:"location"`
	WorkingTimes *entity.WorkingTimes `json:"working_times"`
}

// Create registers a new caterer.
func (h *CatererHandler) Create(c echo.Context) error {
	var req createCatererRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid caterer input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	caterer, err := h.uc.CreateCaterer(c.Request().Context(), usecase.CreateCatererInput{
		Name:         req.Name,
		Description:  req.Description,
		Manager:      req.Manager,
		Email:        req.Email,
		Phone:        req.Phone,
		Location:     req.Location,
		WorkingTimes: req.WorkingTimes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, caterer, "Caterer registered successfully")
}

// Update changes a caterer profile and refreshes its menu embeds.
func (h *CatererHandler) Update(c echo.Context) error {
	catererID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid caterer ID")
	}

	var req updateCatererRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid caterer input")
	}

	caterer, err := h.uc.UpdateCaterer(c.Request().Context(), catererID, usecase.UpdateCatererInput{
		Description:  req.Description,
		Manager:      req.Manager,
		Email:        req.Email,
		Phone:        req.Phone,
		Location:     req.Location,
		WorkingTimes: req.WorkingTimes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, caterer, "Caterer updated successfully")
}

// Get returns a single caterer.
func (h *CatererHandler) Get(c echo.Context) error {
	catererID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid caterer ID")
	}

	caterer, err := h.uc.GetCaterer(c.Request().Context(), catererID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, caterer, "")
}

// List returns all registered caterers.
func (h *CatererHandler) List(c echo.Context) error {
	caterers, err := h.uc.ListCaterers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, caterers, "")
}

// Delete removes a caterer together with its menu.
func (h *CatererHandler) Delete(c echo.Context) error {
	catererID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid caterer ID")
	}

	if err := h.uc.DeleteCaterer(c.Request().Context(), catererID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Caterer deleted successfully")
}

// ListDishes returns the caterer's menu.
func (h *CatererHandler) ListDishes(c echo.Context) error {
	catererID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid caterer ID")
	}

	dishes, err := h.uc.ListDishesByCaterer(c.Request().Context(), catererID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dishes, "")
}
