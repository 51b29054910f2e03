package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// In-memory fakes shared by the service tests. They are deliberately
// small: maps behind a mutex, with injectable failures where a test needs
// to exercise an error path.

// --- users ---

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Permissions = append([]domain.Permission(nil), u.Permissions...)
	if u.ResetTokenExpiry != nil {
		exp := *u.ResetTokenExpiry
		clone.ResetTokenExpiry = &exp
	}
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		r.nextID++
		u.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	for _, u := range r.users {
		if u.Email == user.Email {
			r.mu.Unlock()
			return nil, domain.ErrUserExists
		}
	}
	r.mu.Unlock()
	return r.add(cloneUser(user)), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) SetResetToken(_ context.Context, userID, token string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetToken = token
	u.ResetTokenExpiry = &expiry
	return nil
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token == "" {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.ResetToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	u.ResetTokenExpiry = nil
	return nil
}

func (r *stubUserRepo) UpdatePermissions(_ context.Context, userID string, permissions []domain.Permission) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Permissions = append([]domain.Permission(nil), permissions...)
	return cloneUser(u), nil
}

// --- items ---

type stubItemRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Item
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[string]*domain.Item)}
}

func (r *stubItemRepo) add(item *domain.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *item
	r.items[item.ID] = &clone
}

func (r *stubItemRepo) Create(_ context.Context, item *domain.Item) error {
	r.add(item)
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *stubItemRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.Item, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			clone := *item
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *stubItemRepo) Update(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *stubItemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubItemRepo) List(_ context.Context, filter ports.ListItemsFilter) ([]*domain.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		clone := *item
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

// --- cart ---

type stubCartRepo struct {
	mu     sync.Mutex
	lines  map[string]*domain.CartItem
	nextID int
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{lines: make(map[string]*domain.CartItem)}
}

func (r *stubCartRepo) UpsertIncrement(_ context.Context, userID, itemID string) (*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if l.UserID == userID && l.ItemID == itemID {
			l.Quantity++
			l.UpdatedAt = time.Now().UTC()
			clone := *l
			return &clone, nil
		}
	}
	r.nextID++
	line := &domain.CartItem{
		ID:        fmt.Sprintf("cart-%d", r.nextID),
		UserID:    userID,
		ItemID:    itemID,
		Quantity:  1,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	r.lines[line.ID] = line
	clone := *line
	return &clone, nil
}

func (r *stubCartRepo) FindByID(_ context.Context, id string) (*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lines[id]
	if !ok {
		return nil, domain.ErrCartItemNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubCartRepo) ListByUser(_ context.Context, userID string) ([]*domain.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.CartItem, 0)
	for _, l := range r.lines {
		if l.UserID == userID {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubCartRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lines[id]; !ok {
		return domain.ErrCartItemNotFound
	}
	delete(r.lines, id)
	return nil
}

func (r *stubCartRepo) DeleteByIDs(_ context.Context, userID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if l, ok := r.lines[id]; ok && l.UserID == userID {
			delete(r.lines, id)
		}
	}
	return nil
}

func (r *stubCartRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

// --- orders ---

type stubOrderRepo struct {
	mu         sync.Mutex
	orders     map[string]*domain.Order
	failCreate error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// --- reconciliation ---

type stubReconRepo struct {
	mu      sync.Mutex
	records []*ports.ReconciliationRecord
}

func (r *stubReconRepo) Insert(_ context.Context, rec *ports.ReconciliationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *rec
	r.records = append(r.records, &clone)
	return nil
}

func (r *stubReconRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// --- payment gateway ---

type stubGateway struct {
	mu      sync.Mutex
	charges []ports.ChargeInput
	// errs is consumed one per Charge call; a nil entry means success.
	// Once exhausted, every call succeeds.
	errs []error
	// onCharge, when set, runs during the charge window, outside the
	// repo lock. Tests use it to mutate the cart mid-charge.
	onCharge func(ports.ChargeInput)
}

func (g *stubGateway) Charge(_ context.Context, in ports.ChargeInput) (*ports.ChargeResult, error) {
	g.mu.Lock()
	g.charges = append(g.charges, in)
	n := len(g.charges)
	var err error
	if len(g.errs) > 0 {
		err = g.errs[0]
		g.errs = g.errs[1:]
	}
	g.mu.Unlock()

	if g.onCharge != nil {
		g.onCharge(in)
	}
	if err != nil {
		return nil, err
	}
	return &ports.ChargeResult{
		ChargeID: fmt.Sprintf("ch_%d", n),
		Amount:   in.Amount,
	}, nil
}

func (g *stubGateway) chargeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}

func (g *stubGateway) chargeKeys() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	keys := make([]string, 0, len(g.charges))
	for _, c := range g.charges {
		keys = append(keys, c.IdempotencyKey)
	}
	return keys
}

// --- idempotency store and guard ---

type memClaim struct {
	inFlight  bool
	orderID   string
	reconcile string
}

type memIdemStore struct {
	mu     sync.Mutex
	claims map[string]*memClaim
}

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{claims: make(map[string]*memClaim)}
}

func (s *memIdemStore) Claim(_ context.Context, key string) (IdempotencyClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.claims[key]
	if !ok {
		s.claims[key] = &memClaim{inFlight: true}
		return IdempotencyClaim{Acquired: true}, nil
	}
	switch {
	case c.orderID != "":
		return IdempotencyClaim{CompletedOrderID: c.orderID}, nil
	case c.reconcile != "":
		return IdempotencyClaim{ReconcileChargeID: c.reconcile}, nil
	default:
		return IdempotencyClaim{InFlight: true}, nil
	}
}

func (s *memIdemStore) Complete(_ context.Context, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[key] = &memClaim{orderID: orderID}
	return nil
}

func (s *memIdemStore) MarkReconciliation(_ context.Context, key, chargeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[key] = &memClaim{reconcile: chargeID}
	return nil
}

func (s *memIdemStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, key)
	return nil
}

type memGuard struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemGuard() *memGuard {
	return &memGuard{held: make(map[string]bool)}
}

func (g *memGuard) Acquire(_ context.Context, userID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[userID] {
		return false, nil
	}
	g.held[userID] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, userID)
	return nil
}

// --- mail ---

type stubDispatcher struct {
	mu   sync.Mutex
	jobs []ports.MailJob
}

func (d *stubDispatcher) Enqueue(job ports.MailJob) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
}

func (d *stubDispatcher) sent() []ports.MailJob {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ports.MailJob(nil), d.jobs...)
}
