package repository

import (
	"context"
	"errors"

	"feast/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDishNotFound is returned when no dish matches the lookup.
var ErrDishNotFound = errors.New("dish not found")

// DishRepository defines the standard operations for dish persistence.
type DishRepository interface {
	// FindByID retrieves a single dish by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Dish, error)

	// ListByCaterer returns every dish offered by the given caterer.
	ListByCaterer(ctx context.Context, catererID uuid.UUID) ([]*entity.Dish, error)

	// ListByType returns every dish of the given type.
	ListByType(ctx context.Context, dishType entity.DishType) ([]*entity.Dish, error)

	// Create persists a new dish entity to the storage.
	Create(ctx context.Context, dish *entity.Dish) error

	// Update modifies an existing dish entity in the storage.
	Update(ctx context.Context, dish *entity.Dish) error

	// Delete removes a dish from the storage.
	Delete(ctx context.Context, id uuid.UUID) error

	// RefreshCatererEmbed rewrites the embedded caterer summary on every
	// dish belonging to the caterer. Called after a caterer profile
	// update so dish listings stay in step.
	RefreshCatererEmbed(ctx context.Context, caterer *entity.Caterer) error
}
