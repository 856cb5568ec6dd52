package impl

import (
	"context"
	"log/slog"
	"time"

	domainerrors "feast/internal/domain/errors"
	"feast/internal/domain/geo"
	"feast/internal/domain/repository"
	"feast/internal/domain/schedule"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maxSearchRadiusMeters caps a nearby query so a stray client cannot
// scan the whole table.
const maxSearchRadiusMeters = 50_000

// discoveryService implements the DiscoveryUsecase interface.
type discoveryService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// DiscoveryServiceParams holds dependencies for DiscoveryService, injected by Fx.
type DiscoveryServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewDiscoveryService creates a new discovery service instance
func NewDiscoveryService(params DiscoveryServiceParams) usecase.DiscoveryUsecase {
	return &discoveryService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

// FindNearby returns the caterers within radiusMeters of the point,
// ranked by ascending distance with caterer name as tiebreak.
func (srv *discoveryService) FindNearby(ctx context.Context, origin orb.Point, radiusMeters float64) ([]usecase.NearbyCaterer, error) {
	if radiusMeters <= 0 || radiusMeters > maxSearchRadiusMeters {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("search radius out of range")
	}

	var nearby []usecase.NearbyCaterer

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		candidates, err := repoFactory.NewCatererRepository().FindWithinRadius(ctx, origin, radiusMeters)
		if err != nil {
			return errors.Wrap(err, "failed to query caterers within radius")
		}

		ranked := geo.Rank(origin, candidates, radiusMeters)
		nearby = make([]usecase.NearbyCaterer, 0, len(ranked))
		for _, r := range ranked {
			nearby = append(nearby, usecase.NearbyCaterer{
				Caterer:        r.Caterer,
				DistanceMeters: r.DistanceMeters,
			})
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find nearby caterers")
	}

	return nearby, nil
}

// CheckAvailability evaluates the dish's caterer schedule for the
// requested pickup time.
func (srv *discoveryService) CheckAvailability(ctx context.Context, dishID uuid.UUID, requestedTime time.Time) (*usecase.AvailabilityOutput, error) {
	if requestedTime.IsZero() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("requested time is required")
	}

	var output *usecase.AvailabilityOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		dish, err := findDish(ctx, repoFactory.NewDishRepository(), dishID)
		if err != nil {
			return err
		}
		caterer, err := findCaterer(ctx, repoFactory.NewCatererRepository(), dish.CatererID)
		if err != nil {
			return err
		}

		slot, err := schedule.Evaluate(caterer.WorkingTimes, requestedTime)
		if err != nil {
			if errors.Is(err, schedule.ErrUnavailable) {
				return errors.Wrap(domainerrors.ErrScheduleUnavailable, "no slot within the lookahead window")
			}

			return errors.Wrap(err, "failed to evaluate schedule")
		}

		output = &usecase.AvailabilityOutput{
			CanFulfillNow: slot.CanFulfillNow,
			EarliestStart: slot.EarliestStart,
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to check availability")
	}

	return output, nil
}
