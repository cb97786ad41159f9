//go:build !integration

package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"institute-backend/internal/domain"
	"institute-backend/internal/domain/model"
	"institute-backend/internal/domain/ports/adapter"
	"institute-backend/internal/domain/ports/repository"
)

//
// ---------------- in-memory repositories ----------------
//

type memSubscriptionRepo struct {
	mu   sync.RWMutex
	byID map[string]*model.Subscription

	errSave error
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{byID: map[string]*model.Subscription{}}
}

func (m *memSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if m.errSave != nil {
		return m.errSave
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscriptionRepo) FindLatestByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *model.Subscription
	for _, s := range m.byID {
		if s.UserID != userID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *memSubscriptionRepo) FindByOrder(ctx context.Context, tx repository.Tx, orderID string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.byID {
		if s.RazorpayOrderID == orderID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memSubscriptionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	return nil
}

func (m *memSubscriptionRepo) FindActiveExpiringWithin(ctx context.Context, tx repository.Tx, withinDays int) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now()
	cutoff := now.AddDate(0, 0, withinDays)
	var out []*model.Subscription
	for _, s := range m.byID {
		if s.Status == model.SubscriptionStatusActive && s.ExpiryDate.After(now) && !s.ExpiryDate.After(cutoff) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

func (m *memSubscriptionRepo) CountActive(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	now := time.Now()
	for _, s := range m.byID {
		if s.Status == model.SubscriptionStatusActive && s.ExpiryDate.After(now) {
			n++
		}
	}
	return n, nil
}

type memPaymentRepo struct {
	mu     sync.RWMutex
	byPair map[string]*model.Payment

	errSave error
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{byPair: map[string]*model.Payment{}}
}

func pairKey(orderID, paymentID string) string { return orderID + "|" + paymentID }

func (m *memPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.errSave != nil {
		return m.errSave
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(p.OrderID, p.PaymentID)
	if _, ok := m.byPair[key]; ok {
		return domain.ErrDuplicateTransaction
	}
	cp := *p
	m.byPair[key] = &cp
	return nil
}

func (m *memPaymentRepo) FindByOrderAndPayment(ctx context.Context, tx repository.Tx, orderID, paymentID string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byPair[pairKey(orderID, paymentID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.byPair {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memPaymentRepo) SumByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, p := range m.byPair {
		if p.Status == model.PaymentStatusSuccess {
			sum += p.Amount
		}
	}
	return sum, nil
}

type memUserRepo struct {
	mu   sync.RWMutex
	byID map[string]*model.User

	errSetCurrent error
}

func newMemUserRepo(users ...*model.User) *memUserRepo {
	m := &memUserRepo{byID: map[string]*model.User{}}
	for _, u := range users {
		cp := *u
		m.byID[u.ID] = &cp
	}
	return m
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) SetCurrentSubscription(ctx context.Context, tx repository.Tx, userID string, subscriptionID *string) error {
	if m.errSetCurrent != nil {
		return m.errSetCurrent
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.CurrentSubscriptionID = subscriptionID
	return nil
}

func (m *memUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.User
	for _, u := range m.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memUserRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}

//
// ---------------- gateway / verifier / tx / lock fakes ----------------
//

type fakeGateway struct {
	mu     sync.Mutex
	orders map[string]*adapter.Order

	createCalls int
	fetchCalls  int
	errCreate   error
	errFetch    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{orders: map[string]*adapter.Order{}}
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) CreateOrder(ctx context.Context, planID string, amountMajor int64) (*adapter.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	if g.errCreate != nil {
		return nil, g.errCreate
	}
	o := &adapter.Order{
		ID:       "order_" + planID,
		Amount:   amountMajor * adapter.MinorUnitFactor,
		Currency: "INR",
		Status:   "created",
		Plan:     planID,
	}
	g.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (g *fakeGateway) FetchOrder(ctx context.Context, orderID string) (*adapter.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchCalls++
	if g.errFetch != nil {
		return nil, g.errFetch
	}
	o, ok := g.orders[orderID]
	if !ok {
		return nil, domain.ErrGatewayRejected
	}
	cp := *o
	return &cp, nil
}

// put registers an order the gateway will report, bypassing CreateOrder.
func (g *fakeGateway) put(o *adapter.Order) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders[o.ID] = o
}

type fakeVerifier struct{ ok bool }

func (v fakeVerifier) Verify(orderID, paymentID, signature string) bool { return v.ok }

// memTxManager runs the callback directly; the in-memory repositories have no
// real transactions to coordinate.
type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocker() *memLocker { return &memLocker{held: map[string]bool{}} }

func (l *memLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return "", domain.ErrLockNotAcquired
	}
	l.held[key] = true
	return "token", nil
}

func (l *memLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
