package handler

import (
	"log/slog"
	"net/http"

	"feast/internal/delivery/http/response"
	"feast/internal/domain/entity"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DishHandler holds dependencies for dish management handlers.
type DishHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewDishHandler is the constructor for DishHandler, injected by Fx.
func NewDishHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *DishHandler {
	return &DishHandler{
		uc:     uc,
		logger: logger,
	}
}

type createDishRequest struct {
	CatererID       uuid.UUID              `json:"caterer_id" validate:"required"`
	Name            string                 `json:"name" validate:"required"`
	Description     string                 `json:"description"`
	Type            string                 `json:"type" validate:"required"`
	Price           int                    `json:"price" validate:"required,gt=0"`
	CookingTime     int                    `json:"cooking_time"`
	DifficultyLevel int                    `json:"difficulty_level"`
	Ingredients     []entity.Ingredient    `json:"ingredients"`
	NutritionFacts  []entity.NutritionFact `json:"nutrition_facts"`
	VideoURL        string                 `json:"video_url"`
	ImageAfterURL   string                 `json:"image_after_url"`
}

type updateDishRequest struct {
	Name            *string                `json:"name"`
	Description     *string                `json:"description"`
	Type            *string                `json:"type"`
	Price           *int                   `json:"price"`
	CookingTime     *int                   `json:"cooking_time"`
	DifficultyLevel *int                   `json:"difficulty_level"`
	Ingredients     []entity.Ingredient    `json:"ingredients"`
	NutritionFacts  []entity.NutritionFact `json:"nutrition_facts"`
	VideoURL        *string                `json:"video_url"`
	ImageAfterURL   *string                `json:"image_after_url"`
}

// Create adds a dish to a caterer's menu.
func (h *DishHandler) Create(c echo.Context) error {
	var req createDishRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid dish input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dish, err := h.uc.CreateDish(c.Request().Context(), usecase.CreateDishInput{
		CatererID:       req.CatererID,
		Name:            req.Name,
		Description:     req.Description,
		Type:            entity.DishType(req.Type),
		Price:           req.Price,
		CookingTime:     req.CookingTime,
		DifficultyLevel: req.DifficultyLevel,
		Ingredients:     req.Ingredients,
		NutritionFacts:  req.NutritionFacts,
		VideoURL:        req.VideoURL,
		ImageAfterURL:   req.ImageAfterURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, dish, "Dish created successfully")
}

// Update changes dish fields. Orders already placed keep their snapshot.
func (h *DishHandler) Update(c echo.Context) error {
	dishID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid dish ID")
	}

	var req updateDishRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid dish input")
	}

	input := usecase.UpdateDishInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		CookingTime:     req.CookingTime,
		DifficultyLevel: req.DifficultyLevel,
		Ingredients:     req.Ingredients,
		NutritionFacts:  req.NutritionFacts,
		VideoURL:        req.VideoURL,
		ImageAfterURL:   req.ImageAfterURL,
	}
	if req.Type != nil {
		dishType := entity.DishType(*req.Type)
		input.Type = &dishType
	}

	dish, err := h.uc.UpdateDish(c.Request().Context(), dishID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dish, "Dish updated successfully")
}

// Get returns a single dish.
func (h *DishHandler) Get(c echo.Context) error {
	dishID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid dish ID")
	}

	dish, err := h.uc.GetDish(c.Request().Context(), dishID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dish, "")
}

// ListByType returns all dishes of the given type across caterers.
func (h *DishHandler) ListByType(c echo.Context) error {
	dishType := c.QueryParam("type")
	if dishType == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Query parameter 'type' is required")
	}

	dishes, err := h.uc.ListDishesByType(c.Request().Context(), entity.DishType(dishType))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dishes, "")
}

// Delete removes a dish from the menu.
func (h *DishHandler) Delete(c echo.Context) error {
	dishID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid dish ID")
	}

	if err := h.uc.DeleteDish(c.Request().Context(), dishID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Dish deleted successfully")
}

// UploadMedia stores a dish photo or preparation video and returns its URL.
func (h *DishHandler) UploadMedia(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Multipart field 'file' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "open uploaded file")
	}
	defer file.Close()

	url, err := h.uc.UploadMedia(c.Request().Context(), usecase.UploadMediaInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"url": url}, "Media uploaded successfully")
}
