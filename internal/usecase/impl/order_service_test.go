package impl

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"feast/internal/domain/codes"
	"feast/internal/domain/entity"
	domainerrors "feast/internal/domain/errors"
	"feast/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderEnv struct {
	store    *fakeStore
	payments *fakePayments
	service  usecase.OrderUsecase

	user    *entity.User
	caterer *entity.Caterer
	dish    *entity.Dish
}

// monday returns the given minute of day on a fixed Monday.
func monday(minute int) time.Time {
	base := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)

	return base.Add(time.Duration(minute) * time.Minute)
}

func superThaiWorkingTimes() entity.WorkingTimes {
	var hours entity.Hours
	hours[entity.Monday] = []entity.TimeFrame{{Open: 492, Close: 868}, {Open: 1074, Close: 1395}}
	hours[entity.Tuesday] = []entity.TimeFrame{{Open: 492, Close: 868}}

	return entity.WorkingTimes{Hours: hours, MinimumPreparationTime: 30}
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()

	store := newFakeStore()
	payments := &fakePayments{}

	user := store.addUser(entity.User{
		ID:    uuid.New(),
		Name:  "carl",
		Email: "carl@example.com",
		Allow: true,
	})
	caterer := store.addCaterer(entity.Caterer{
		ID:          uuid.New(),
		Name:        "Super Thai",
		Description: "Super Thai caterer",
		Manager:     "George Lucas",
		Email:       "superthai@superthai.com",
		Phone:       "312412",
		Location: entity.Location{
			Address: entity.Address{Label: "House next to the police station", City: "Chicago"},
			Geo:     entity.NewGeoPoint(-87.650276, 41.876845),
		},
		WorkingTimes: superThaiWorkingTimes(),
	})
	dish := store.addDish(entity.Dish{
		ID:          uuid.New(),
		Name:        "Thai Inbox",
		Description: "Noodles with rice",
		Type:        entity.DishTypeMain,
		Price:       500,
		CookingTime: 5,
		CatererID:   caterer.ID,
		Caterer:     catererSnapshotOf(caterer),
		Ingredients: []entity.Ingredient{{Name: "Noodles", Sequence: 1, Quantity: 1, MeasurementUnit: entity.UnitGram}},
	})

	svc := NewOrderService(OrderServiceParams{
		TxManager:   newFakeTxManager(store),
		Payments:    payments,
		PickupCodes: fakePickupCodes{},
		Logger:      slog.New(slog.DiscardHandler),
	})

	return &orderEnv{store: store, payments: payments, service: svc, user: user, caterer: caterer, dish: dish}
}

func catererSnapshotOf(c *entity.Caterer) entity.CatererSnapshot {
	return entity.CatererSnapshot{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Manager:      c.Manager,
		Email:        c.Email,
		Phone:        c.Phone,
		Location:     c.Location,
		WorkingTimes: c.WorkingTimes,
	}
}

func (e *orderEnv) createInput() usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		UserID:        e.user.ID,
		DishID:        e.dish.ID,
		RequestedTime: monday(500),
		Currency:      entity.CurrencyAUD,
		Description:   "1 Thai Inbox",
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	env := newOrderEnv(t)

	out, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.NoError(t, err)

	order := out.Order
	assert.Equal(t, 500, order.Amount)
	assert.Equal(t, entity.CurrencyAUD, order.Currency)
	assert.Equal(t, entity.OrderPending, order.Status)
	assert.False(t, order.Paid)
	assert.True(t, codes.Valid(order.ReadableID), "readable id %q", order.ReadableID)
	assert.Equal(t, env.user.ID, order.CreatedBy)
	assert.Equal(t, monday(500), out.EarliestStart)

	// The embedded snapshot must be complete.
	assert.Equal(t, "Thai Inbox", order.Dish.Name)
	assert.Equal(t, "Super Thai", order.Dish.Caterer.Name)
	assert.False(t, order.Dish.SnapshotAt.IsZero())

	stored := env.store.orderByID(order.ID)
	assert.Equal(t, order.ReadableID, stored.ReadableID)
}

func TestOrderService_CreateOrder_ShiftsStartWhenPrepOverrunsFrame(t *testing.T) {
	env := newOrderEnv(t)

	input := env.createInput()
	input.RequestedTime = monday(860)

	out, err := env.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, monday(1074), out.EarliestStart)
	assert.Equal(t, monday(860), out.Order.RequestedTime)
}

func TestOrderService_CreateOrder_ScheduleUnavailable(t *testing.T) {
	env := newOrderEnv(t)
	env.caterer.WorkingTimes.Hours = entity.Hours{}
	env.store.caterers[env.caterer.ID] = env.caterer

	_, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.ErrorIs(t, err, domainerrors.ErrScheduleUnavailable)
	assert.Empty(t, env.store.orders)
}

func TestOrderService_CreateOrder_DisabledUser(t *testing.T) {
	env := newOrderEnv(t)
	env.user.Allow = false
	env.store.users[env.user.ID] = env.user

	_, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.ErrorIs(t, err, domainerrors.ErrUserNotAllowed)
}

func TestOrderService_CreateOrder_UnknownDish(t *testing.T) {
	env := newOrderEnv(t)

	input := env.createInput()
	input.DishID = uuid.New()

	_, err := env.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, domainerrors.ErrDishNotFound)
}

func TestOrderService_CreateOrder_UnsupportedCurrency(t *testing.T) {
	env := newOrderEnv(t)

	input := env.createInput()
	input.Currency = "XBT"

	_, err := env.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderService_CreateOrder_IncompleteCatalogData(t *testing.T) {
	env := newOrderEnv(t)
	env.dish.Ingredients = nil
	env.store.dishes[env.dish.ID] = env.dish

	_, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.ErrorIs(t, err, domainerrors.ErrIncompleteCatalogData)
	assert.Empty(t, env.store.orders)
}

func TestOrderService_CreateOrder_RedeemsVoucher(t *testing.T) {
	env := newOrderEnv(t)
	env.store.addVoucher(entity.Voucher{
		ID:             uuid.New(),
		Code:           "KJS8SCR8",
		Discount:       5,
		DiscountType:   entity.DiscountAmount,
		ExpirationType: entity.ExpirationUntil,
		Expiration:     monday(0).AddDate(1, 0, 0),
		Status:         entity.VoucherValid,
		RemainingUses:  3,
	})

	input := env.createInput()
	input.VoucherCode = "KJS8SCR8"

	out, err := env.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "KJS8SCR8", out.Order.VoucherCode)

	voucher := env.store.voucherByCode("KJS8SCR8")
	assert.Equal(t, 2, voucher.RemainingUses)
	assert.Equal(t, 1, voucher.UsedCount)
}

func TestOrderService_CreateOrder_VoucherFailures(t *testing.T) {
	tests := []struct {
		name    string
		voucher *entity.Voucher
		wantErr error
	}{
		{
			name:    "unknown code",
			voucher: nil,
			wantErr: domainerrors.ErrVoucherNotFound,
		},
		{
			name: "date passed",
			voucher: &entity.Voucher{
				Code:           "KJS8SCR8",
				ExpirationType: entity.ExpirationUntil,
				Expiration:     monday(0).AddDate(-1, 0, 0),
				Status:         entity.VoucherValid,
				RemainingUses:  3,
			},
			wantErr: domainerrors.ErrVoucherExpired,
		},
		{
			name: "marked expired",
			voucher: &entity.Voucher{
				Code:           "KJS8SCR8",
				ExpirationType: entity.ExpirationOneTime,
				Status:         entity.VoucherExpired,
				RemainingUses:  1,
			},
			wantErr: domainerrors.ErrVoucherExpired,
		},
		{
			name: "no uses left",
			voucher: &entity.Voucher{
				Code:           "KJS8SCR8",
				ExpirationType: entity.ExpirationUntil,
				Expiration:     monday(0).AddDate(1, 0, 0),
				Status:         entity.VoucherValid,
				RemainingUses:  0,
			},
			wantErr: domainerrors.ErrVoucherExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newOrderEnv(t)
			if tt.voucher != nil {
				tt.voucher.ID = uuid.New()
				env.store.addVoucher(*tt.voucher)
			}

			input := env.createInput()
			input.VoucherCode = "KJS8SCR8"

			_, err := env.service.CreateOrder(context.Background(), input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.store.orders, "no order may exist after a failed redemption")
		})
	}
}

func TestOrderService_CreateOrder_IdAllocationFailed(t *testing.T) {
	env := newOrderEnv(t)
	env.store.addVoucher(entity.Voucher{
		ID:             uuid.New(),
		Code:           "KJS8SCR8",
		ExpirationType: entity.ExpirationUntil,
		Expiration:     monday(0).AddDate(1, 0, 0),
		Status:         entity.VoucherValid,
		RemainingUses:  3,
	})
	env.store.forceDuplicateReadable = true

	input := env.createInput()
	input.VoucherCode = "KJS8SCR8"

	_, err := env.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, domainerrors.ErrIdAllocationFailed)

	// Every attempt rolled back, so the voucher kept all its uses.
	voucher := env.store.voucherByCode("KJS8SCR8")
	assert.Equal(t, 3, voucher.RemainingUses)
	assert.Equal(t, 0, voucher.UsedCount)
	assert.Empty(t, env.store.orders)
}

func TestOrderService_CreateOrder_ConcurrentReadableIDsStayUnique(t *testing.T) {
	env := newOrderEnv(t)

	const n = 24

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.service.CreateOrder(context.Background(), env.createInput())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "order %d", i)
	}

	seen := make(map[string]bool)
	for _, o := range env.store.orders {
		require.False(t, seen[o.ReadableID], "duplicate readable id %q", o.ReadableID)
		seen[o.ReadableID] = true
	}
	assert.Len(t, seen, n)
}

func TestOrderService_CreateOrder_VoucherLastUseRace(t *testing.T) {
	env := newOrderEnv(t)
	env.store.addVoucher(entity.Voucher{
		ID:             uuid.New(),
		Code:           "KJS8SCR8",
		ExpirationType: entity.ExpirationUntil,
		Expiration:     monday(0).AddDate(1, 0, 0),
		Status:         entity.VoucherValid,
		RemainingUses:  1,
	})

	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := env.createInput()
			input.VoucherCode = "KJS8SCR8"
			_, errs[i] = env.service.CreateOrder(context.Background(), input)
		}(i)
	}
	wg.Wait()

	var wins, exhausted int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domainerrors.ErrVoucherExhausted):
			exhausted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one caller may win the last use")
	assert.Equal(t, n-1, exhausted)

	voucher := env.store.voucherByCode("KJS8SCR8")
	assert.Equal(t, 0, voucher.RemainingUses)
	assert.Equal(t, 1, voucher.UsedCount)
}

func TestOrderService_MarkPaid(t *testing.T) {
	env := newOrderEnv(t)

	out, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.NoError(t, err)

	paid, err := env.service.MarkPaid(context.Background(), out.Order.ID, "ch_123")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPaid, paid.Status)
	assert.True(t, paid.Paid)
	assert.Equal(t, "ch_123", paid.PaymentRef)
	assert.Equal(t, []string{"ch_123"}, env.payments.verified)
}

func TestOrderService_MarkPaid_ReplaySameRefIsNoOp(t *testing.T) {
	env := newOrderEnv(t)

	out, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.NoError(t, err)

	_, err = env.service.MarkPaid(context.Background(), out.Order.ID, "ch_123")
	require.NoError(t, err)

	again, err := env.service.MarkPaid(context.Background(), out.Order.ID, "ch_123")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPaid, again.Status)
	assert.Equal(t, "ch_123", again.PaymentRef)
	// The replay short-circuits before touching the gateway.
	assert.Len(t, env.payments.verified, 1)
}

func TestOrderService_MarkPaid_DifferentRefOnPaidOrder(t *testing.T) {
	env := newOrderEnv(t)

	out, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.NoError(t, err)

	_, err = env.service.MarkPaid(context.Background(), out.Order.ID, "ch_123")
	require.NoError(t, err)

	_, err = env.service.MarkPaid(context.Background(), out.Order.ID, "ch_456")
	require.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestOrderService_MarkPaid_OnCancelledOrder(t *testing.T) {
	env := newOrderEnv(t)

	out, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.NoError(t, err)

	_, err = env.service.CancelOrder(context.Background(), out.Order.ID, "changed my mind")
	require.NoError(t, err)

	_, err = env.service.MarkPaid(context.Background(), out.Order.ID, "ch_123")
	require.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestOrderService_MarkPaid_ChargeVerificationFailure(t *testing.T) {
	env := newOrderEnv(t)
	env.payments.failWith = errors.New("charge not settled")

	out, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.NoError(t, err)

	_, err = env.service.MarkPaid(context.Background(), out.Order.ID, "ch_123")
	require.Error(t, err)

	stored := env.store.orderByID(out.Order.ID)
	assert.Equal(t, entity.OrderPending, stored.Status)
	assert.False(t, stored.Paid)
}

func TestOrderService_CancelOrder_RevertsVoucher(t *testing.T) {
	env := newOrderEnv(t)
	env.store.addVoucher(entity.Voucher{
		ID:             uuid.New(),
		Code:           "KJS8SCR8",
		ExpirationType: entity.ExpirationOneTime,
		Status:         entity.VoucherValid,
		RemainingUses:  1,
	})

	input := env.createInput()
	input.VoucherCode = "KJS8SCR8"

	out, err := env.service.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, 0, env.store.voucherByCode("KJS8SCR8").RemainingUses)

	cancelled, err := env.service.CancelOrder(context.Background(), out.Order.ID, "kitchen closed")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)
	assert.Equal(t, "kitchen closed", cancelled.CancelReason)

	voucher := env.store.voucherByCode("KJS8SCR8")
	assert.Equal(t, 1, voucher.RemainingUses)
	assert.Equal(t, entity.VoucherValid, voucher.Status)
}

func TestOrderService_CancelOrder_OnPaidOrder(t *testing.T) {
	env := newOrderEnv(t)

	out, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.NoError(t, err)

	_, err = env.service.MarkPaid(context.Background(), out.Order.ID, "ch_123")
	require.NoError(t, err)

	_, err = env.service.CancelOrder(context.Background(), out.Order.ID, "too late")
	require.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestOrderService_PickupCode(t *testing.T) {
	env := newOrderEnv(t)

	out, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.NoError(t, err)

	_, err = env.service.PickupCode(context.Background(), out.Order.ID)
	require.ErrorIs(t, err, domainerrors.ErrInvalidTransition, "pending orders have no pickup code")

	_, err = env.service.MarkPaid(context.Background(), out.Order.ID, "ch_123")
	require.NoError(t, err)

	png, err := env.service.PickupCode(context.Background(), out.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("qr:"+out.Order.ReadableID), png)
}

func TestOrderService_Lookups(t *testing.T) {
	env := newOrderEnv(t)

	out, err := env.service.CreateOrder(context.Background(), env.createInput())
	require.NoError(t, err)

	byID, err := env.service.GetOrder(context.Background(), out.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Order.ID, byID.ID)

	byReadable, err := env.service.GetOrderByReadableID(context.Background(), out.Order.ReadableID)
	require.NoError(t, err)
	assert.Equal(t, out.Order.ID, byReadable.ID)

	mine, err := env.service.ListUserOrders(context.Background(), env.user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	day, err := env.service.ListCatererOrders(context.Background(), env.caterer.ID, monday(0), monday(1439))
	require.NoError(t, err)
	require.Len(t, day, 1)

	_, err = env.service.GetOrder(context.Background(), uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}
