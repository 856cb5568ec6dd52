package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Dish is a menu item offered by exactly one caterer. The catalog keeps
// a denormalized copy of the owning caterer on each dish so discovery
// queries never need a join; the copy is refreshed whenever the caterer
// record changes. Prices are integers in the smallest currency unit.
type Dish struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Type            DishType
	Price           int // Smallest currency unit.
	CookingTime     int // Minutes.
	DifficultyLevel int
	CatererID       uuid.UUID
	Caterer         CatererSnapshot // Denormalized catalog copy, refreshed on caterer update.
	Ingredients     []Ingredient
	NutritionFacts  []NutritionFact
	VideoURL        string
	ImageAfterURL   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the invariants a dish must satisfy at the catalog level.
func (d *Dish) Validate() error {
	if d.Name == "" {
		return errors.New("dish name is required")
	}
	if d.Price <= 0 {
		return errors.New("dish price must be positive")
	}
	if d.CatererID == uuid.Nil {
		return errors.New("dish must reference a caterer")
	}
	for i, ing := range d.Ingredients {
		if ing.Name == "" {
			return errors.Errorf("ingredient %d has no name", i)
		}
	}

	return nil
}

// DishType categorizes a dish on the menu.
type DishType string

// Known dish types.
const (
	DishTypeAppetizer DishType = "appetizer"
	DishTypeMain      DishType = "main"
	DishTypeDessert   DishType = "dessert"
)

// Ingredient is one component of a dish. Sequence preserves the caterer's
// intended ordering.
type Ingredient struct {
	Name            string          `json:"name"`
	Sequence        int             `json:"sequence"`
	Quantity        float64         `json:"quantity"`
	MeasurementUnit MeasurementUnit `json:"measurementUnit"`
}

// NutritionFact is one row of a dish's nutrition table.
type NutritionFact struct {
	Name  string          `json:"name"`
	Value float64         `json:"value"`
	Unit  MeasurementUnit `json:"unit"`
}

// MeasurementUnit is the canonical unit symbol for quantities and
// nutrition values. Source data carries inconsistent casing ("G" vs "g",
// "KJ" vs "kJ"); ParseMeasurementUnit normalizes on ingestion.
type MeasurementUnit string

// Canonical measurement units.
const (
	UnitGram       MeasurementUnit = "g"
	UnitKilogram   MeasurementUnit = "kg"
	UnitMilliliter MeasurementUnit = "ml"
	UnitLiter      MeasurementUnit = "l"
	UnitKiloJoule  MeasurementUnit = "kJ"
	UnitCalorie    MeasurementUnit = "kcal"
)

// ParseMeasurementUnit maps a unit symbol to its canonical form,
// case-insensitively. Unknown symbols are an error rather than a silent
// passthrough so data-entry drift surfaces at the boundary.
func ParseMeasurementUnit(s string) (MeasurementUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g":
		return UnitGram, nil
	case "kg":
		return UnitKilogram, nil
	case "ml":
		return UnitMilliliter, nil
	case "l":
		return UnitLiter, nil
	case "kj":
		return UnitKiloJoule, nil
	case "kcal":
		return UnitCalorie, nil
	default:
		return "", errors.Errorf("unknown measurement unit %q", s)
	}
}
