package entity

import (
	"time"

	"github.com/google/uuid"
)

// CatererSnapshot is a fully value-copied caterer, embedded either in a
// dish (catalog denormalization) or inside an order's dish snapshot
// (historical record). It shares no storage with the live caterer row,
// so later caterer edits never alter it. Field names match the persisted
// record shape read by external tooling.
type CatererSnapshot struct {
	ID           uuid.UUID    `json:"_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Manager      string       `json:"manager"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Location     Location     `json:"location"`
	WorkingTimes WorkingTimes `json:"workingTimes"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// DishSnapshot is the immutable dish copy embedded in an order. It embeds
// its own caterer snapshot and carries SnapshotAt, the moment the copy
// was taken, distinct from the source records' timestamps.
type DishSnapshot struct {
	ID              uuid.UUID       `json:"_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Type            DishType        `json:"type"`
	Price           int             `json:"price"`
	CookingTime     int             `json:"cookingTime"`
	DifficultyLevel int             `json:"difficultyLevel"`
	Caterer         CatererSnapshot `json:"caterer"`
	Ingredients     []Ingredient    `json:"ingredients"`
	NutritionFacts  []NutritionFact `json:"nutritionFacts"`
	VideoURL        string          `json:"videoUrl,omitempty"`
	ImageAfterURL   string          `json:"imageAfterUrl,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	SnapshotAt      time.Time       `json:"snapshotAt"`
}
