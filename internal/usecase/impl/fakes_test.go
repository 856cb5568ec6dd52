package impl

// In-memory fakes backing the use case tests. The store serializes
// transactions under one mutex and restores a snapshot on rollback,
// which mirrors what the SQL layer guarantees: conditional updates see
// committed state, and a failed transaction leaves nothing behind.

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"feast/internal/domain/entity"
	"feast/internal/domain/repository"
	"feast/internal/domain/service"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
)

type fakeStore struct {
	mu sync.Mutex

	users    map[uuid.UUID]*entity.User
	caterers map[uuid.UUID]*entity.Caterer
	dishes   map[uuid.UUID]*entity.Dish
	orders   map[uuid.UUID]*entity.Order
	vouchers map[string]*entity.Voucher

	// forceDuplicateReadable makes every order insert collide, to
	// exercise the bounded retry path.
	forceDuplicateReadable bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		caterers: make(map[uuid.UUID]*entity.Caterer),
		dishes:   make(map[uuid.UUID]*entity.Dish),
		orders:   make(map[uuid.UUID]*entity.Order),
		vouchers: make(map[string]*entity.Voucher),
	}
}

func (s *fakeStore) addUser(u entity.User) *entity.User       { s.users[u.ID] = &u; return &u }
func (s *fakeStore) addCaterer(c entity.Caterer) *entity.Caterer { s.caterers[c.ID] = &c; return &c }
func (s *fakeStore) addDish(d entity.Dish) *entity.Dish       { s.dishes[d.ID] = &d; return &d }
func (s *fakeStore) addVoucher(v entity.Voucher) *entity.Voucher { s.vouchers[v.Code] = &v; return &v }

func (s *fakeStore) voucherByCode(code string) entity.Voucher {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.vouchers[code]
}

func (s *fakeStore) orderByID(id uuid.UUID) entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.orders[id]
}

func (s *fakeStore) snapshot() *fakeStore {
	clone := newFakeStore()
	for k, v := range s.users {
		u := *v
		clone.users[k] = &u
	}
	for k, v := range s.caterers {
		c := *v
		clone.caterers[k] = &c
	}
	for k, v := range s.dishes {
		d := *v
		clone.dishes[k] = &d
	}
	for k, v := range s.orders {
		o := *v
		clone.orders[k] = &o
	}
	for k, v := range s.vouchers {
		vc := *v
		clone.vouchers[k] = &vc
	}

	return clone
}

func (s *fakeStore) restore(from *fakeStore) {
	s.users = from.users
	s.caterers = from.caterers
	s.dishes = from.dishes
	s.orders = from.orders
	s.vouchers = from.vouchers
}

// fakeTxManager runs the whole transaction under the store lock, so a
// rollback can restore the pre-transaction snapshot atomically.
type fakeTxManager struct {
	store *fakeStore
}

func newFakeTxManager(store *fakeStore) repository.TransactionManager {
	return &fakeTxManager{store: store}
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	backup := m.store.snapshot()
	if err := fn(&fakeRepoFactory{store: m.store}); err != nil {
		m.store.restore(backup)

		return err
	}

	return nil
}

type fakeRepoFactory struct {
	store *fakeStore
}

func (f *fakeRepoFactory) NewUserRepository() repository.UserRepository {
	return &fakeUserRepo{store: f.store}
}

func (f *fakeRepoFactory) NewCatererRepository() repository.CatererRepository {
	return &fakeCatererRepo{store: f.store}
}

func (f *fakeRepoFactory) NewDishRepository() repository.DishRepository {
	return &fakeDishRepo{store: f.store}
}

func (f *fakeRepoFactory) NewOrderRepository() repository.OrderRepository {
	return &fakeOrderRepo{store: f.store}
}

func (f *fakeRepoFactory) NewVoucherRepository() repository.VoucherRepository {
	return &fakeVoucherRepo{store: f.store}
}

// --- user repository ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u

	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			copied := *u

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	copied := *user
	r.store.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	r.store.users[user.ID] = &copied

	return nil
}

// --- caterer repository ---

type fakeCatererRepo struct {
	store *fakeStore
}

func (r *fakeCatererRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Caterer, error) {
	c, ok := r.store.caterers[id]
	if !ok {
		return nil, repository.ErrCatererNotFound
	}
	copied := *c

	return &copied, nil
}

func (r *fakeCatererRepo) FindWithinRadius(_ context.Context, origin orb.Point, radiusMeters float64) ([]*entity.Caterer, error) {
	var out []*entity.Caterer
	for _, c := range r.store.caterers {
		if orbgeo.Distance(origin, c.Location.Geo.Point()) <= radiusMeters {
			copied := *c
			out = append(out, &copied)
		}
	}
	// Deliberately unordered-ish: reverse name order, so ranking in the
	// use case is what produces the final ordering.
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })

	return out, nil
}

func (r *fakeCatererRepo) List(_ context.Context) ([]*entity.Caterer, error) {
	var out []*entity.Caterer
	for _, c := range r.store.caterers {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *fakeCatererRepo) Create(_ context.Context, caterer *entity.Caterer) error {
	for _, c := range r.store.caterers {
		if c.Name == caterer.Name {
			return repository.ErrDuplicateCatererName
		}
	}
	copied := *caterer
	r.store.caterers[caterer.ID] = &copied

	return nil
}

func (r *fakeCatererRepo) Update(_ context.Context, caterer *entity.Caterer) error {
	if _, ok := r.store.caterers[caterer.ID]; !ok {
		return repository.ErrCatererNotFound
	}
	copied := *caterer
	r.store.caterers[caterer.ID] = &copied

	return nil
}

func (r *fakeCatererRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.caterers, id)

	return nil
}

// --- dish repository ---

type fakeDishRepo struct {
	store *fakeStore
}

func (r *fakeDishRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Dish, error) {
	d, ok := r.store.dishes[id]
	if !ok {
		return nil, repository.ErrDishNotFound
	}
	copied := *d

	return &copied, nil
}

func (r *fakeDishRepo) ListByCaterer(_ context.Context, catererID uuid.UUID) ([]*entity.Dish, error) {
	var out []*entity.Dish
	for _, d := range r.store.dishes {
		if d.CatererID == catererID {
			copied := *d
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *fakeDishRepo) ListByType(_ context.Context, dishType entity.DishType) ([]*entity.Dish, error) {
	var out []*entity.Dish
	for _, d := range r.store.dishes {
		if d.Type == dishType {
			copied := *d
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *fakeDishRepo) Create(_ context.Context, dish *entity.Dish) error {
	copied := *dish
	r.store.dishes[dish.ID] = &copied

	return nil
}

func (r *fakeDishRepo) Update(_ context.Context, dish *entity.Dish) error {
	if _, ok := r.store.dishes[dish.ID]; !ok {
		return repository.ErrDishNotFound
	}
	copied := *dish
	r.store.dishes[dish.ID] = &copied

	return nil
}

func (r *fakeDishRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.dishes, id)

	return nil
}

func (r *fakeDishRepo) RefreshCatererEmbed(_ context.Context, caterer *entity.Caterer) error {
	for _, d := range r.store.dishes {
		if d.CatererID == caterer.ID {
			d.Caterer.Name = caterer.Name
			d.Caterer.Description = caterer.Description
			d.Caterer.Manager = caterer.Manager
			d.Caterer.Email = caterer.Email
			d.Caterer.Phone = caterer.Phone
			d.Caterer.Location = caterer.Location
			d.Caterer.WorkingTimes = caterer.WorkingTimes
			d.Caterer.UpdatedAt = caterer.UpdatedAt
		}
	}

	return nil
}

// --- order repository ---

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	if r.store.forceDuplicateReadable {
		return repository.ErrDuplicateReadableID
	}
	for _, o := range r.store.orders {
		if o.ReadableID == order.ReadableID {
			return repository.ErrDuplicateReadableID
		}
	}
	copied := *order
	r.store.orders[order.ID] = &copied

	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *o

	return &copied, nil
}

func (r *fakeOrderRepo) FindByReadableID(_ context.Context, readableID string) (*entity.Order, error) {
	for _, o := range r.store.orders {
		if o.ReadableID == readableID {
			copied := *o

			return &copied, nil
		}
	}

	return nil, repository.ErrOrderNotFound
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.store.orders {
		if o.CreatedBy == userID {
			copied := *o
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *fakeOrderRepo) ListByCatererBetween(_ context.Context, catererID uuid.UUID, from, to time.Time) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.store.orders {
		if o.Dish.Caterer.ID != catererID {
			continue
		}
		if o.RequestedTime.Before(from) || !o.RequestedTime.Before(to) {
			continue
		}
		copied := *o
		out = append(out, &copied)
	}

	return out, nil
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, id uuid.UUID, paymentRef string) (bool, error) {
	o, ok := r.store.orders[id]
	if !ok || o.Status != entity.OrderPending {
		return false, nil
	}
	o.Status = entity.OrderPaid
	o.Paid = true
	o.PaymentRef = paymentRef
	o.UpdatedAt = time.Now()

	return true, nil
}

func (r *fakeOrderRepo) Cancel(_ context.Context, id uuid.UUID, reason string) (bool, error) {
	o, ok := r.store.orders[id]
	if !ok || o.Status != entity.OrderPending {
		return false, nil
	}
	o.Status = entity.OrderCancelled
	o.CancelReason = reason
	o.UpdatedAt = time.Now()

	return true, nil
}

func (r *fakeOrderRepo) AttachVoucher(_ context.Context, id uuid.UUID, code string) (bool, error) {
	o, ok := r.store.orders[id]
	if !ok || o.VoucherCode != "" {
		return false, nil
	}
	o.VoucherCode = code

	return true, nil
}

// --- voucher repository ---

type fakeVoucherRepo struct {
	store *fakeStore
}

func (r *fakeVoucherRepo) FindByCode(_ context.Context, code string) (*entity.Voucher, error) {
	v, ok := r.store.vouchers[code]
	if !ok {
		return nil, repository.ErrVoucherNotFound
	}
	copied := *v

	return &copied, nil
}

func (r *fakeVoucherRepo) Create(_ context.Context, voucher *entity.Voucher) error {
	if _, ok := r.store.vouchers[voucher.Code]; ok {
		return repository.ErrDuplicateVoucherCode
	}
	copied := *voucher
	r.store.vouchers[voucher.Code] = &copied

	return nil
}

func (r *fakeVoucherRepo) Redeem(_ context.Context, code string) (bool, error) {
	v, ok := r.store.vouchers[code]
	if !ok || v.Status != entity.VoucherValid || v.RemainingUses <= 0 {
		return false, nil
	}
	v.RemainingUses--
	v.UsedCount++
	if v.ExpirationType == entity.ExpirationOneTime && v.RemainingUses == 0 {
		v.Status = entity.VoucherExpired
	}

	return true, nil
}

func (r *fakeVoucherRepo) Revert(_ context.Context, code string) (bool, error) {
	v, ok := r.store.vouchers[code]
	if !ok {
		return false, nil
	}
	v.RemainingUses++
	if v.UsedCount > 0 {
		v.UsedCount--
	}
	if v.ExpirationType == entity.ExpirationOneTime {
		v.Status = entity.VoucherValid
	}

	return true, nil
}

func (r *fakeVoucherRepo) MarkExpired(_ context.Context, code string) (bool, error) {
	v, ok := r.store.vouchers[code]
	if !ok {
		return false, nil
	}
	v.Status = entity.VoucherExpired

	return true, nil
}

// --- collaborator fakes ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Check(password, hash string) bool { return "hashed:"+password == hash }

type fakeTokenService struct{}

func (fakeTokenService) GenerateTokens(uuid.UUID, []string) (string, string, error) {
	return "access-token", "refresh-token", nil
}

func (fakeTokenService) ValidateToken(string) (*service.Claims, error) {
	return nil, errors.New("not implemented")
}

func (fakeTokenService) GetRefreshTokenDuration() time.Duration { return time.Hour }

type fakePayments struct {
	mu       sync.Mutex
	failWith error
	verified []string
}

func (p *fakePayments) VerifyCharge(_ context.Context, paymentRef string, _ int, _ entity.Currency) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	p.verified = append(p.verified, paymentRef)

	return nil
}

type fakePickupCodes struct{}

func (fakePickupCodes) GeneratePickupQR(_ uuid.UUID, readableID string) ([]byte, error) {
	return []byte("qr:" + readableID), nil
}

func (fakePickupCodes) ParsePickupQR(string) (uuid.UUID, error) {
	return uuid.Nil, errors.New("not implemented")
}

type fakeMediaStore struct {
	uploads map[string]string
}

func (m *fakeMediaStore) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	if m.uploads == nil {
		m.uploads = make(map[string]string)
	}
	url := "https://media.example.com/" + key
	m.uploads[key] = url

	return url, nil
}

func (m *fakeMediaStore) Delete(_ context.Context, key string) error {
	delete(m.uploads, key)

	return nil
}
