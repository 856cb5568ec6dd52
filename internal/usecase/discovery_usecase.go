package usecase

import (
	"context"
	"time"

	"feast/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// --- Output DTOs ---

// NearbyCaterer pairs a caterer with its distance from the query point.
type NearbyCaterer struct {
	Caterer        *entity.Caterer
	DistanceMeters float64
}

// AvailabilityOutput reports whether a dish can be ordered for a given time.
type AvailabilityOutput struct {
	CanFulfillNow bool
	// EarliestStart is the first feasible preparation start at or after
	// the requested time.
	EarliestStart time.Time
}

// DiscoveryUsecase defines read-side operations for browsing caterers.
type DiscoveryUsecase interface {
	// FindNearby returns the caterers within radiusMeters of the point,
	// ordered by ascending distance with caterer name as tiebreak.
	FindNearby(ctx context.Context, origin orb.Point, radiusMeters float64) ([]NearbyCaterer, error)

	// CheckAvailability evaluates the dish's caterer schedule for the
	// requested pickup time without creating anything.
	CheckAvailability(ctx context.Context, dishID uuid.UUID, requestedTime time.Time) (*AvailabilityOutput, error)
}
