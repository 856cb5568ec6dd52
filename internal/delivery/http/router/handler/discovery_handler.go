package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"feast/internal/delivery/http/response"
	"feast/internal/domain/entity"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// DiscoveryHandler holds dependencies for caterer discovery handlers.
type DiscoveryHandler struct {
	uc     usecase.DiscoveryUsecase
	logger *slog.Logger
}

// NewDiscoveryHandler is the constructor for DiscoveryHandler, injected by Fx.
func NewDiscoveryHandler(uc usecase.DiscoveryUsecase, logger *slog.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		uc:     uc,
		logger: logger,
	}
}

type nearbyCatererResponse struct {
	Caterer        *entity.Caterer `json:"caterer"`
	DistanceMeters float64         `json:"distance_meters"`
}

type availabilityResponse struct {
	CanFulfillNow bool      `json:"can_fulfill_now"`
	EarliestStart time.Time `json:"earliest_start"`
}

// Nearby returns the caterers within a radius of a point, closest first.
func (h *DiscoveryHandler) Nearby(c echo.Context) error {
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Query parameter 'lng' must be a number")
	}
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Query parameter 'lat' must be a number")
	}
	radius, err := strconv.ParseFloat(c.QueryParam("radius"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Query parameter 'radius' must be a number of meters")
	}

	results, err := h.uc.FindNearby(c.Request().Context(), orb.Point{lng, lat}, radius)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]nearbyCatererResponse, 0, len(results))
	for _, r := range results {
		out = append(out, nearbyCatererResponse{
			Caterer:        r.Caterer,
			DistanceMeters: r.DistanceMeters,
		})
	}

	return response.Success(c, http.StatusOK, out, "")
}

// Availability evaluates a dish's caterer schedule without ordering.
func (h *DiscoveryHandler) Availability(c echo.Context) error {
	dishID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid dish ID")
	}

	requestedTime, err := time.Parse(time.RFC3339, c.QueryParam("at"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Query parameter 'at' must be an RFC 3339 timestamp")
	}

	output, err := h.uc.CheckAvailability(c.Request().Context(), dishID, requestedTime)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, availabilityResponse{
		CanFulfillNow: output.CanFulfillNow,
		EarliestStart: output.EarliestStart,
	}, "")
}
