package impl

import (
	"context"
	"log/slog"
	"path"
	"time"

	"feast/internal/domain/catalog"
	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/domain/repository"
	"feast/internal/domain/service"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager  repository.TransactionManager
	mediaStore service.MediaStore
	logger     *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	MediaStore service.MediaStore
	Logger     *slog.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager:  params.TxManager,
		mediaStore: params.MediaStore,
		logger:     params.Logger,
	}
}

// CreateCaterer registers a new caterer after validating its schedule and location.
func (srv *catalogService) CreateCaterer(ctx context.Context, input usecase.CreateCatererInput) (*entity.Caterer, error) {
	now := time.Now()
	caterer := &entity.Caterer{
		ID:           uuid.New(),
		Name:         input.Name,
		Description:  input.Description,
		Manager:      input.Manager,
		Email:        input.Email,
		Phone:        input.Phone,
		Location:     input.Location,
		WorkingTimes: input.WorkingTimes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := caterer.Validate(); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewCatererRepository().Create(ctx, caterer); err != nil {
			if errors.Is(err, repository.ErrDuplicateCatererName) {
				return errors.Wrap(domainerrors.ErrCatererAlreadyExists, caterer.Name)
			}

			return errors.Wrap(err, "failed to create caterer")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create caterer")
	}

	srv.logger.Info("caterer created", "catererID", caterer.ID, "name", caterer.Name)

	return caterer, nil
}

// UpdateCaterer persists profile changes and refreshes the caterer copy
// embedded in the caterer's dishes. Order snapshots are never touched.
func (srv *catalogService) UpdateCaterer(ctx context.Context, catererID uuid.UUID, input usecase.UpdateCatererInput) (*entity.Caterer, error) {
	var result *entity.Caterer

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catererRepo := repoFactory.NewCatererRepository()

		caterer, err := findCaterer(ctx, catererRepo, catererID)
		if err != nil {
			return err
		}

		applyCatererUpdate(caterer, input)
		if err := caterer.Validate(); err != nil {
			return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
		}
		caterer.UpdatedAt = time.Now()

		if err := catererRepo.Update(ctx, caterer); err != nil {
			return errors.Wrap(err, "failed to update caterer")
		}
		if err := repoFactory.NewDishRepository().RefreshCatererEmbed(ctx, caterer); err != nil {
			return errors.Wrap(err, "failed to refresh dish embeds")
		}
		result = caterer

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update caterer")
	}

	srv.logger.Info("caterer updated", "catererID", catererID)

	return result, nil
}

// GetCaterer retrieves a single caterer by id.
func (srv *catalogService) GetCaterer(ctx context.Context, catererID uuid.UUID) (*entity.Caterer, error) {
	var result *entity.Caterer

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		caterer, err := findCaterer(ctx, repoFactory.NewCatererRepository(), catererID)
		if err != nil {
			return err
		}
		result = caterer

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get caterer")
	}

	return result, nil
}

// ListCaterers returns every registered caterer.
func (srv *catalogService) ListCaterers(ctx context.Context) ([]*entity.Caterer, error) {
	var result []*entity.Caterer

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		caterers, err := repoFactory.NewCatererRepository().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list caterers")
		}
		result = caterers

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list caterers")
	}

	return result, nil
}

// DeleteCaterer removes a caterer and its menu.
func (srv *catalogService) DeleteCaterer(ctx context.Context, catererID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		catererRepo := repoFactory.NewCatererRepository()

		if _, err := findCaterer(ctx, catererRepo, catererID); err != nil {
			return err
		}

		dishRepo := repoFactory.NewDishRepository()
		dishes, err := dishRepo.ListByCaterer(ctx, catererID)
		if err != nil {
			return errors.Wrap(err, "failed to list caterer dishes")
		}
		for _, dish := range dishes {
			if err := dishRepo.Delete(ctx, dish.ID); err != nil {
				return errors.Wrap(err, "failed to delete dish")
			}
		}

		if err := catererRepo.Delete(ctx, catererID); err != nil {
			return errors.Wrap(err, "failed to delete caterer")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete caterer")
	}

	srv.logger.Info("caterer deleted", "catererID", catererID)

	return nil
}

// CreateDish adds a dish to a caterer's menu, embedding the current
// caterer summary.
func (srv *catalogService) CreateDish(ctx context.Context, input usecase.CreateDishInput) (*entity.Dish, error) {
	now := time.Now()
	dish := &entity.Dish{
		ID:              uuid.New(),
		Name:            input.Name,
		Description:     input.Description,
		Type:            input.Type,
		Price:           input.Price,
		CookingTime:     input.CookingTime,
		DifficultyLevel: input.DifficultyLevel,
		CatererID:       input.CatererID,
		Ingredients:     input.Ingredients,
		NutritionFacts:  input.NutritionFacts,
		VideoURL:        input.VideoURL,
		ImageAfterURL:   input.ImageAfterURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := dish.Validate(); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		caterer, err := findCaterer(ctx, repoFactory.NewCatererRepository(), input.CatererID)
		if err != nil {
			return err
		}
		dish.Caterer = catalog.SnapshotCaterer(caterer)

		if err := repoFactory.NewDishRepository().Create(ctx, dish); err != nil {
			return errors.Wrap(err, "failed to create dish")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dish")
	}

	srv.logger.Info("dish created", "dishID", dish.ID, "catererID", input.CatererID)

	return dish, nil
}

// UpdateDish persists dish changes.
func (srv *catalogService) UpdateDish(ctx context.Context, dishID uuid.UUID, input usecase.UpdateDishInput) (*entity.Dish, error) {
	var result *entity.Dish

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		dishRepo := repoFactory.NewDishRepository()

		dish, err := findDish(ctx, dishRepo, dishID)
		if err != nil {
			return err
		}

		applyDishUpdate(dish, input)
		if err := dish.Validate(); err != nil {
			return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
		}
		dish.UpdatedAt = time.Now()

		if err := dishRepo.Update(ctx, dish); err != nil {
			return errors.Wrap(err, "failed to update dish")
		}
		result = dish

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update dish")
	}

	srv.logger.Info("dish updated", "dishID", dishID)

	return result, nil
}

// GetDish retrieves a single dish by id.
func (srv *catalogService) GetDish(ctx context.Context, dishID uuid.UUID) (*entity.Dish, error) {
	var result *entity.Dish

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		dish, err := findDish(ctx, repoFactory.NewDishRepository(), dishID)
		if err != nil {
			return err
		}
		result = dish

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get dish")
	}

	return result, nil
}

// ListDishesByCaterer returns a caterer's menu.
func (srv *catalogService) ListDishesByCaterer(ctx context.Context, catererID uuid.UUID) ([]*entity.Dish, error) {
	var result []*entity.Dish

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		dishes, err := repoFactory.NewDishRepository().ListByCaterer(ctx, catererID)
		if err != nil {
			return errors.Wrap(err, "failed to list dishes")
		}
		result = dishes

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list caterer dishes")
	}

	return result, nil
}

// ListDishesByType returns every dish of the given type.
func (srv *catalogService) ListDishesByType(ctx context.Context, dishType entity.DishType) ([]*entity.Dish, error) {
	var result []*entity.Dish

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		dishes, err := repoFactory.NewDishRepository().ListByType(ctx, dishType)
		if err != nil {
			return errors.Wrap(err, "failed to list dishes")
		}
		result = dishes

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list dishes by type")
	}

	return result, nil
}

// DeleteDish removes a dish from the menu.
func (srv *catalogService) DeleteDish(ctx context.Context, dishID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		dishRepo := repoFactory.NewDishRepository()

		if _, err := findDish(ctx, dishRepo, dishID); err != nil {
			return err
		}
		if err := dishRepo.Delete(ctx, dishID); err != nil {
			return errors.Wrap(err, "failed to delete dish")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete dish")
	}

	srv.logger.Info("dish deleted", "dishID", dishID)

	return nil
}

// UploadMedia stores a media payload under a fresh key and returns its URL.
func (srv *catalogService) UploadMedia(ctx context.Context, input usecase.UploadMediaInput) (string, error) {
	if input.FileName == "" || input.Body == nil {
		return "", domainerrors.ErrValidationFailed.WrapMessage("media file name and body are required")
	}

	key := uuid.NewString() + path.Ext(input.FileName)
	url, err := srv.mediaStore.Upload(ctx, key, input.ContentType, input.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to upload media")
	}

	srv.logger.Info("media uploaded", "key", key)

	return url, nil
}

func applyCatererUpdate(caterer *entity.Caterer, input usecase.UpdateCatererInput) {
	if input.Description != nil {
		caterer.Description = *input.Description
	}
	if input.Manager != nil {
		caterer.Manager = *input.Manager
	}
	if input.Email != nil {
		caterer.Email = *input.Email
	}
	if input.Phone != nil {
		caterer.Phone = *input.Phone
	}
	if input.Location != nil {
		caterer.Location = *input.Location
	}
	if input.WorkingTimes != nil {
		caterer.WorkingTimes = *input.WorkingTimes
	}
}

func applyDishUpdate(dish *entity.Dish, input usecase.UpdateDishInput) {
	if input.Name != nil {
		dish.Name = *input.Name
	}
	if input.Description != nil {
		dish.Description = *input.Description
	}
	if input.Type != nil {
		dish.Type = *input.Type
	}
	if input.Price != nil {
		dish.Price = *input.Price
	}
	if input.CookingTime != nil {
		dish.CookingTime = *input.CookingTime
	}
	if input.DifficultyLevel != nil {
		dish.DifficultyLevel = *input.DifficultyLevel
	}
	if input.Ingredients != nil {
		dish.Ingredients = input.Ingredients
	}
	if input.NutritionFacts != nil {
		dish.NutritionFacts = input.NutritionFacts
	}
	if input.VideoURL != nil {
		dish.VideoURL = *input.VideoURL
	}
	if input.ImageAfterURL != nil {
		dish.ImageAfterURL = *input.ImageAfterURL
	}
}

func findCaterer(ctx context.Context, catererRepo repository.CatererRepository, catererID uuid.UUID) (*entity.Caterer, error) {
	caterer, err := catererRepo.FindByID(ctx, catererID)
	if err != nil {
		if errors.Is(err, repository.ErrCatererNotFound) {
			return nil, errors.Wrap(domainerrors.ErrCatererNotFound, "caterer not found")
		}

		return nil, errors.Wrap(err, "failed to find caterer")
	}

	return caterer, nil
}

func findDish(ctx context.Context, dishRepo repository.DishRepository, dishID uuid.UUID) (*entity.Dish, error) {
	dish, err := dishRepo.FindByID(ctx, dishID)
	if err != nil {
		if errors.Is(err, repository.ErrDishNotFound) {
			return nil, errors.Wrap(domainerrors.ErrDishNotFound, "dish not found")
		}

		return nil, errors.Wrap(err, "failed to find dish")
	}

	return dish, nil
}
