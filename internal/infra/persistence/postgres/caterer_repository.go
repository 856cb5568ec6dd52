package postgres

import (
	"context"
	"encoding/json"

	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/domain/repository"
	"feast/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// catererRepository implements the repository.CatererRepository interface using GORM.
type catererRepository struct {
	db *gorm.DB
}

// NewCatererRepository is the constructor for catererRepository.
func NewCatererRepository(db *gorm.DB) repository.CatererRepository {
	return &catererRepository{
		db: db,
	}
}

// FindByID retrieves a single caterer by its unique ID.
func (repo *catererRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Caterer, error) {
	var catererM model.CatererModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&catererM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCatererNotFound
		}

		return nil, errors.Wrap(err, "failed to find caterer by id")
	}

	return toCatererDomain(&catererM)
}

// FindWithinRadius returns every caterer within radiusMeters of the
// point. PostGIS does the coarse geographic cut here; deterministic
// ranking happens in the domain layer.
func (repo *catererRepository) FindWithinRadius(ctx context.Context, origin orb.Point, radiusMeters float64) ([]*entity.Caterer, error) {
	var catererModels []*model.CatererModel

	query := `
		SELECT *
		FROM caterers
		WHERE ST_DWithin(
			ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography,
			ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
			?
		)
	`

	if err := repo.db.WithContext(ctx).
		Raw(query, origin.Lon(), origin.Lat(), radiusMeters).
		Scan(&catererModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query caterers within radius")
	}

	return toCatererDomainSlice(catererModels)
}

// List returns all registered caterers.
func (repo *catererRepository) List(ctx context.Context) ([]*entity.Caterer, error) {
	var catererModels []*model.CatererModel

	if err := repo.db.WithContext(ctx).Order("name").Find(&catererModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list caterers")
	}

	return toCatererDomainSlice(catererModels)
}

// Create persists a new caterer entity to the database.
func (repo *catererRepository) Create(ctx context.Context, caterer *entity.Caterer) error {
	catererM, err := fromCatererDomain(caterer)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(catererM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCatererName
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required caterer information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create caterer")
	}

	caterer.ID = catererM.ID
	caterer.CreatedAt = catererM.CreatedAt
	caterer.UpdatedAt = catererM.UpdatedAt

	return nil
}

// Update modifies an existing caterer entity in the database.
func (repo *catererRepository) Update(ctx context.Context, caterer *entity.Caterer) error {
	catererM, err := fromCatererDomain(caterer)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Save(catererM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCatererName
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update caterer")
	}

	caterer.UpdatedAt = catererM.UpdatedAt

	return nil
}

// Delete removes a caterer from the database.
func (repo *catererRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).Delete(&model.CatererModel{}, "id = ?", id).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete caterer")
	}

	return nil
}

// --- Mapper Functions ---

// toCatererDomain converts a GORM CatererModel to a domain Caterer entity.
func toCatererDomain(data *model.CatererModel) (*entity.Caterer, error) {
	if data == nil {
		return nil, nil
	}

	var location entity.Location
	if err := json.Unmarshal(data.Location, &location); err != nil {
		return nil, errors.Wrap(err, "failed to decode caterer location")
	}

	var workingTimes entity.WorkingTimes
	if err := json.Unmarshal(data.WorkingTimes, &workingTimes); err != nil {
		return nil, errors.Wrap(err, "failed to decode caterer working times")
	}

	return &entity.Caterer{
		ID:           data.ID,
		Name:         data.Name,
		Description:  data.Description,
		Manager:      data.Manager,
		Email:        data.Email,
		Phone:        data.Phone,
		Location:     location,
		WorkingTimes: workingTimes,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}, nil
}

func toCatererDomainSlice(data []*model.CatererModel) ([]*entity.Caterer, error) {
	caterers := make([]*entity.Caterer, 0, len(data))
	for _, m := range data {
		caterer, err := toCatererDomain(m)
		if err != nil {
			return nil, err
		}
		caterers = append(caterers, caterer)
	}

	return caterers, nil
}

// fromCatererDomain converts a domain Caterer entity to a GORM CatererModel for persistence.
func fromCatererDomain(data *entity.Caterer) (*model.CatererModel, error) {
	if data == nil {
		return nil, nil
	}

	locationJSON, err := json.Marshal(data.Location)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode caterer location")
	}

	workingTimesJSON, err := json.Marshal(data.WorkingTimes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode caterer working times")
	}

	return &model.CatererModel{
		ID:           data.ID,
		Name:         data.Name,
		Description:  data.Description,
		Manager:      data.Manager,
		Email:        data.Email,
		Phone:        data.Phone,
		Longitude:    data.Location.Geo.Lng(),
		Latitude:     data.Location.Geo.Lat(),
		Location:     datatypes.JSON(locationJSON),
		WorkingTimes: datatypes.JSON(workingTimesJSON),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}, nil
}
