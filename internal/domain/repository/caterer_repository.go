package repository

import (
	"context"
	"errors"

	"feast/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ErrCatererNotFound is returned when no caterer matches the lookup.
var ErrCatererNotFound = errors.New("caterer not found")

// ErrDuplicateCatererName is returned when a caterer with the same name already exists.
var ErrDuplicateCatererName = errors.New("caterer name already exists")

// CatererRepository defines the standard operations for caterer persistence.
type CatererRepository interface {
	// FindByID retrieves a single caterer by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Caterer, error)

	// FindWithinRadius returns every caterer whose location lies within
	// radiusMeters of the given point. The result carries no particular
	// order; callers rank it themselves.
	FindWithinRadius(ctx context.Context, origin orb.Point, radiusMeters float64) ([]*entity.Caterer, error)

	// List returns all registered caterers.
	List(ctx context.Context) ([]*entity.Caterer, error)

	// Create persists a new caterer entity to the storage.
	Create(ctx context.Context, caterer *entity.Caterer) error

	// Update modifies an existing caterer entity in the storage.
	Update(ctx context.Context, caterer *entity.Caterer) error

	// Delete removes a caterer from the storage.
	Delete(ctx context.Context, id uuid.UUID) error
}
