package usecase

import (
	"context"
	"io"

	"feast/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateCatererInput defines the data required to register a caterer.
type CreateCatererInput struct {
	Name         string
	Description  string
	Manager      string
	Email        string
	Phone        string
	Location     entity.Location
	WorkingTimes entity.WorkingTimes
}

// UpdateCatererInput defines the mutable caterer profile fields.
// Nil pointers leave the stored value untouched.
type UpdateCatererInput struct {
	Description  *string
	Manager      *string
	Email        *string
	Phone        *string
	Location     *entity.Location
	WorkingTimes *entity.WorkingTimes
}

// CreateDishInput defines the data required to add a dish to a caterer's menu.
type CreateDishInput struct {
	CatererID       uuid.UUID
	Name            string
	Description     string
	Type            entity.DishType
	Price           int
	CookingTime     int
	DifficultyLevel int
	Ingredients     []entity.Ingredient
	NutritionFacts  []entity.NutritionFact
	VideoURL        string
	ImageAfterURL   string
}

// UpdateDishInput defines the mutable dish fields.
// Nil pointers leave the stored value untouched.
type UpdateDishInput struct {
	Name            *string
	Description     *string
	Type            *entity.DishType
	Price           *int
	CookingTime     *int
	DifficultyLevel *int
	Ingredients     []entity.Ingredient
	NutritionFacts  []entity.NutritionFact
	VideoURL        *string
	ImageAfterURL   *string
}

// UploadMediaInput defines a media payload destined for the blob store.
type UploadMediaInput struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// CatalogUsecase defines the interface for caterer and dish management.
type CatalogUsecase interface {
	CreateCaterer(ctx context.Context, input CreateCatererInput) (*entity.Caterer, error)
	// UpdateCaterer persists profile changes and refreshes the caterer
	// summary embedded in the caterer's dishes. Snapshots inside
	// existing orders are never touched.
	UpdateCaterer(ctx context.Context, catererID uuid.UUID, input UpdateCatererInput) (*entity.Caterer, error)
	GetCaterer(ctx context.Context, catererID uuid.UUID) (*entity.Caterer, error)
	ListCaterers(ctx context.Context) ([]*entity.Caterer, error)
	DeleteCaterer(ctx context.Context, catererID uuid.UUID) error

	CreateDish(ctx context.Context, input CreateDishInput) (*entity.Dish, error)
	UpdateDish(ctx context.Context, dishID uuid.UUID, input UpdateDishInput) (*entity.Dish, error)
	GetDish(ctx context.Context, dishID uuid.UUID) (*entity.Dish, error)
	ListDishesByCaterer(ctx context.Context, catererID uuid.UUID) ([]*entity.Dish, error)
	ListDishesByType(ctx context.Context, dishType entity.DishType) ([]*entity.Dish, error)
	DeleteDish(ctx context.Context, dishID uuid.UUID) error

	// UploadMedia stores a dish photo or video and returns its URL.
	UploadMedia(ctx context.Context, input UploadMediaInput) (string, error)
}
