package impl

import (
	"context"
	"log/slog"
	"testing"

	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscoveryService(store *fakeStore) usecase.DiscoveryUsecase {
	return NewDiscoveryService(DiscoveryServiceParams{
		TxManager: newFakeTxManager(store),
		Logger:    slog.New(slog.DiscardHandler),
	})
}

func discoveryCaterer(name string, lng, lat float64) entity.Caterer {
	return entity.Caterer{
		ID:    uuid.New(),
		Name:  name,
		Email: name + "@example.com",
		Location: entity.Location{
			Geo: entity.NewGeoPoint(lng, lat),
		},
		WorkingTimes: superThaiWorkingTimes(),
	}
}

func TestDiscoveryService_FindNearby_RanksByDistanceThenName(t *testing.T) {
	store := newFakeStore()
	// Query point in the Chicago loop; candidates at increasing distance.
	store.addCaterer(discoveryCaterer("Super Kebab", -87.6600, 41.876845))
	store.addCaterer(discoveryCaterer("Super Thai", -87.6510, 41.876845))
	store.addCaterer(discoveryCaterer("Super Pizza", -87.6550, 41.876845))
	// Two caterers on the same spot resolve by name.
	store.addCaterer(discoveryCaterer("Zest Kitchen", -87.6700, 41.876845))
	store.addCaterer(discoveryCaterer("Amber Wok", -87.6700, 41.876845))

	svc := newDiscoveryService(store)

	origin := orb.Point{-87.650276, 41.876845}
	nearby, err := svc.FindNearby(context.Background(), origin, 5000)
	require.NoError(t, err)
	require.Len(t, nearby, 5)

	names := make([]string, 0, len(nearby))
	for _, n := range nearby {
		names = append(names, n.Caterer.Name)
	}
	assert.Equal(t, []string{"Super Thai", "Super Pizza", "Super Kebab", "Amber Wok", "Zest Kitchen"}, names)

	for i := 1; i < len(nearby); i++ {
		assert.GreaterOrEqual(t, nearby[i].DistanceMeters, nearby[i-1].DistanceMeters)
	}
}

func TestDiscoveryService_FindNearby_RadiusCutsOff(t *testing.T) {
	store := newFakeStore()
	store.addCaterer(discoveryCaterer("Near", -87.6510, 41.876845))
	store.addCaterer(discoveryCaterer("Far", -87.9000, 41.876845))

	svc := newDiscoveryService(store)

	nearby, err := svc.FindNearby(context.Background(), orb.Point{-87.650276, 41.876845}, 2000)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "Near", nearby[0].Caterer.Name)
}

func TestDiscoveryService_FindNearby_RadiusValidation(t *testing.T) {
	svc := newDiscoveryService(newFakeStore())

	_, err := svc.FindNearby(context.Background(), orb.Point{0, 0}, 0)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = svc.FindNearby(context.Background(), orb.Point{0, 0}, maxSearchRadiusMeters+1)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestDiscoveryService_CheckAvailability(t *testing.T) {
	store := newFakeStore()
	caterer := store.addCaterer(discoveryCaterer("Super Thai", -87.650276, 41.876845))
	dish := store.addDish(entity.Dish{
		ID:        uuid.New(),
		Name:      "Thai Inbox",
		Price:     500,
		CatererID: caterer.ID,
	})

	svc := newDiscoveryService(store)

	out, err := svc.CheckAvailability(context.Background(), dish.ID, monday(500))
	require.NoError(t, err)
	assert.True(t, out.CanFulfillNow)
	assert.Equal(t, monday(500), out.EarliestStart)

	out, err = svc.CheckAvailability(context.Background(), dish.ID, monday(860))
	require.NoError(t, err)
	assert.False(t, out.CanFulfillNow)
	assert.Equal(t, monday(1074), out.EarliestStart)

	_, err = svc.CheckAvailability(context.Background(), uuid.New(), monday(500))
	require.ErrorIs(t, err, domainerrors.ErrDishNotFound)
}

func TestDiscoveryService_CheckAvailability_NoSlot(t *testing.T) {
	store := newFakeStore()
	caterer := discoveryCaterer("Closed Kitchen", -87.650276, 41.876845)
	caterer.WorkingTimes = entity.WorkingTimes{MinimumPreparationTime: 30}
	stored := store.addCaterer(caterer)
	dish := store.addDish(entity.Dish{
		ID:        uuid.New(),
		Name:      "Unobtainable",
		Price:     500,
		CatererID: stored.ID,
	})

	svc := newDiscoveryService(store)

	_, err := svc.CheckAvailability(context.Background(), dish.ID, monday(500))
	require.ErrorIs(t, err, domainerrors.ErrScheduleUnavailable)
}
