// Package catalog builds the immutable denormalized snapshots embedded
// in orders. A snapshot is a pure value copy of the live dish and
// caterer records: once taken, catalog edits can never reach it.
package catalog

import (
	"time"

	"feast/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrIncompleteData is returned when the live records are missing fields
// a historical order display depends on. Such records must be fixed by
// the catalog owner; the snapshot is never taken partially.
var ErrIncompleteData = errors.New("catalog record incomplete, cannot snapshot")

// BuildSnapshot copies every field of the dish and its caterer needed
// for historical display into a self-contained value, stamped with its
// own snapshot time. It validates the records first: a missing geo
// point, an all-closed schedule, or an empty ingredient list makes the
// catalog data unfit to embed.
func BuildSnapshot(dish *entity.Dish, caterer *entity.Caterer, now time.Time) (entity.DishSnapshot, error) {
	if err := caterer.Location.Geo.Validate(); err != nil {
		return entity.DishSnapshot{}, errors.Wrapf(ErrIncompleteData, "caterer %s: %v", caterer.Name, err)
	}
	if caterer.WorkingTimes.Hours.OpenDays() == 0 {
		return entity.DishSnapshot{}, errors.Wrapf(ErrIncompleteData, "caterer %s has no working hours", caterer.Name)
	}
	if len(dish.Ingredients) == 0 {
		return entity.DishSnapshot{}, errors.Wrapf(ErrIncompleteData, "dish %s has no ingredients", dish.Name)
	}

	return entity.DishSnapshot{
		ID:              dish.ID,
		Name:            dish.Name,
		Description:     dish.Description,
		Type:            dish.Type,
		Price:           dish.Price,
		CookingTime:     dish.CookingTime,
		DifficultyLevel: dish.DifficultyLevel,
		Caterer:         SnapshotCaterer(caterer),
		Ingredients:     copyIngredients(dish.Ingredients),
		NutritionFacts:  copyNutritionFacts(dish.NutritionFacts),
		VideoURL:        dish.VideoURL,
		ImageAfterURL:   dish.ImageAfterURL,
		CreatedAt:       dish.CreatedAt,
		UpdatedAt:       dish.UpdatedAt,
		SnapshotAt:      now,
	}, nil
}

// SnapshotCaterer value-copies a caterer, including its schedule slices,
// for embedding in dishes and order snapshots.
func SnapshotCaterer(caterer *entity.Caterer) entity.CatererSnapshot {
	return entity.CatererSnapshot{
		ID:           caterer.ID,
		Name:         caterer.Name,
		Description:  caterer.Description,
		Manager:      caterer.Manager,
		Email:        caterer.Email,
		Phone:        caterer.Phone,
		Location:     caterer.Location,
		WorkingTimes: copyWorkingTimes(caterer.WorkingTimes),
		CreatedAt:    caterer.CreatedAt,
		UpdatedAt:    caterer.UpdatedAt,
	}
}

// copyWorkingTimes clones the per-day frame slices so the snapshot does
// not alias the live schedule's backing arrays.
func copyWorkingTimes(wt entity.WorkingTimes) entity.WorkingTimes {
	out := entity.WorkingTimes{MinimumPreparationTime: wt.MinimumPreparationTime}
	for d, frames := range wt.Hours {
		if len(frames) == 0 {
			continue
		}
		out.Hours[d] = make([]entity.TimeFrame, len(frames))
		copy(out.Hours[d], frames)
	}

	return out
}

func copyIngredients(in []entity.Ingredient) []entity.Ingredient {
	out := make([]entity.Ingredient, len(in))
	copy(out, in)

	return out
}

func copyNutritionFacts(in []entity.NutritionFact) []entity.NutritionFact {
	out := make([]entity.NutritionFact, len(in))
	copy(out, in)

	return out
}
