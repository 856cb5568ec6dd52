package postgres

import (
	"context"
	"encoding/json"

	"feast/internal/domain/catalog"
	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/domain/repository"
	"feast/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// dishRepository implements the repository.DishRepository interface using GORM.
type dishRepository struct {
	db *gorm.DB
}

// NewDishRepository is the constructor for dishRepository.
func NewDishRepository(db *gorm.DB) repository.DishRepository {
	return &dishRepository{
		db: db,
	}
}

// FindByID retrieves a single dish by its unique ID.
func (repo *dishRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Dish, error) {
	var dishM model.DishModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&dishM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDishNotFound
		}

		return nil, errors.Wrap(err, "failed to find dish by id")
	}

	return toDishDomain(&dishM)
}

// ListByCaterer returns every dish offered by the given caterer.
func (repo *dishRepository) ListByCaterer(ctx context.Context, catererID uuid.UUID) ([]*entity.Dish, error) {
	var dishModels []*model.DishModel

	if err := repo.db.WithContext(ctx).
		Where("caterer_id = ?", catererID).
		Order("name").
		Find(&dishModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list dishes by caterer")
	}

	return toDishDomainSlice(dishModels)
}

// ListByType returns every dish of the given type.
func (repo *dishRepository) ListByType(ctx context.Context, dishType entity.DishType) ([]*entity.Dish, error) {
	var dishModels []*model.DishModel

	if err := repo.db.WithContext(ctx).
		Where("type = ?", string(dishType)).
		Order("name").
		Find(&dishModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list dishes by type")
	}

	return toDishDomainSlice(dishModels)
}

// Create persists a new dish entity to the database.
func (repo *dishRepository) Create(ctx context.Context, dish *entity.Dish) error {
	dishM, err := fromDishDomain(dish)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(dishM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required dish information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrCatererNotFound.WrapMessage("dish references an unknown caterer")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create dish")
	}

	dish.ID = dishM.ID
	dish.CreatedAt = dishM.CreatedAt
	dish.UpdatedAt = dishM.UpdatedAt

	return nil
}

// Update modifies an existing dish entity in the database.
func (repo *dishRepository) Update(ctx context.Context, dish *entity.Dish) error {
	dishM, err := fromDishDomain(dish)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Save(dishM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update dish")
	}

	dish.UpdatedAt = dishM.UpdatedAt

	return nil
}

// Delete removes a dish from the database.
func (repo *dishRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).Delete(&model.DishModel{}, "id = ?", id).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete dish")
	}

	return nil
}

// RefreshCatererEmbed rewrites the embedded caterer summary on every
// dish belonging to the caterer, one statement for the whole menu.
func (repo *dishRepository) RefreshCatererEmbed(ctx context.Context, caterer *entity.Caterer) error {
	embed, err := json.Marshal(catalog.SnapshotCaterer(caterer))
	if err != nil {
		return errors.Wrap(err, "failed to encode caterer embed")
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.DishModel{}).
		Where("caterer_id = ?", caterer.ID).
		Update("caterer_embed", datatypes.JSON(embed)).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to refresh caterer embeds")
	}

	return nil
}

// --- Mapper Functions ---

// toDishDomain converts a GORM DishModel to a domain Dish entity.
func toDishDomain(data *model.DishModel) (*entity.Dish, error) {
	if data == nil {
		return nil, nil
	}

	var embed entity.CatererSnapshot
	if err := json.Unmarshal(data.CatererEmbed, &embed); err != nil {
		return nil, errors.Wrap(err, "failed to decode caterer embed")
	}

	var ingredients []entity.Ingredient
	if len(data.Ingredients) > 0 {
		if err := json.Unmarshal(data.Ingredients, &ingredients); err != nil {
			return nil, errors.Wrap(err, "failed to decode dish ingredients")
		}
	}

	var nutritionFacts []entity.NutritionFact
	if len(data.NutritionFacts) > 0 {
		if err := json.Unmarshal(data.NutritionFacts, &nutritionFacts); err != nil {
			return nil, errors.Wrap(err, "failed to decode dish nutrition facts")
		}
	}

	return &entity.Dish{
		ID:              data.ID,
		Name:            data.Name,
		Description:     data.Description,
		Type:            entity.DishType(data.Type),
		Price:           data.Price,
		CookingTime:     data.CookingTime,
		DifficultyLevel: data.DifficultyLevel,
		CatererID:       data.CatererID,
		Caterer:         embed,
		Ingredients:     ingredients,
		NutritionFacts:  nutritionFacts,
		VideoURL:        data.VideoURL,
		ImageAfterURL:   data.ImageAfterURL,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}, nil
}

func toDishDomainSlice(data []*model.DishModel) ([]*entity.Dish, error) {
	dishes := make([]*entity.Dish, 0, len(data))
	for _, m := range data {
		dish, err := toDishDomain(m)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, dish)
	}

	return dishes, nil
}

// fromDishDomain converts a domain Dish entity to a GORM DishModel for persistence.
func fromDishDomain(data *entity.Dish) (*model.DishModel, error) {
	if data == nil {
		return nil, nil
	}

	embedJSON, err := json.Marshal(data.Caterer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode caterer embed")
	}

	ingredientsJSON, err := json.Marshal(data.Ingredients)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode dish ingredients")
	}

	nutritionJSON, err := json.Marshal(data.NutritionFacts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode dish nutrition facts")
	}

	return &model.DishModel{
		ID:              data.ID,
		Name:            data.Name,
		Description:     data.Description,
		Type:            string(data.Type),
		Price:           data.Price,
		CookingTime:     data.CookingTime,
		DifficultyLevel: data.DifficultyLevel,
		CatererID:       data.CatererID,
		CatererEmbed:    datatypes.JSON(embedJSON),
		Ingredients:     datatypes.JSON(ingredientsJSON),
		NutritionFacts:  datatypes.JSON(nutritionJSON),
		VideoURL:        data.VideoURL,
		ImageAfterURL:   data.ImageAfterURL,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}, nil
}
