package commands_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

// memoryStore is an in-memory ledger with the same insert-if-absent rules as
// the postgres partial unique indexes.
type memoryStore struct {
	mu       sync.Mutex
	orders   []*order.Order
	drivers  map[kernel.UUID]*driver.Driver
	attempts []*assignment.Attempt
	criteria []ports.EligibilityCriteria

	// beforeAddPending runs inside AddPending before the uniqueness check.
	beforeAddPending func()
	rejectedIDsErr   error
	loadErrs         *ports.OrderLoadErrors
}

func newMemoryStore() *memoryStore {
	return &memoryStore{drivers: make(map[kernel.UUID]*driver.Driver)}
}

func (s *memoryStore) addDriver(d *driver.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[d.ID()] = d
}

func (s *memoryStore) addAttempt(a *assignment.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, a)
}

func (s *memoryStore) attemptsFor(orderID kernel.UUID) []*assignment.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*assignment.Attempt
	for _, a := range s.attempts {
		if a.OrderID().IsEqual(orderID) {
			out = append(out, a)
		}
	}
	return out
}

func (s *memoryStore) pendingCount(driverID kernel.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.attempts {
		if a.DriverID().IsEqual(driverID) && a.Status().IsPending() {
			n++
		}
	}
	return n
}

func (s *memoryStore) Create() commands.DispatchUoW {
	return &memoryUoW{store: s}
}

type memoryUoW struct {
	store   *memoryStore
	inTx    bool
	written []kernel.UUID
}

func (u *memoryUoW) Begin(context.Context) error {
	u.inTx = true
	u.written = nil
	return nil
}

func (u *memoryUoW) Commit(context.Context) error {
	if !u.inTx {
		return errs.NewValueIsInvalidError("no active transaction")
	}
	u.inTx = false
	u.written = nil
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	if !u.inTx {
		return errs.NewValueIsInvalidError("no active transaction")
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	kept := u.store.attempts[:0]
	for _, a := range u.store.attempts {
		if !containsID(u.written, a.ID()) {
			kept = append(kept, a)
		}
	}
	u.store.attempts = kept
	u.inTx = false
	u.written = nil
	return nil
}

func (u *memoryUoW) OrderRepository() ports.OrderRepository    { return memoryOrders{u.store} }
func (u *memoryUoW) DriverDirectory() ports.DriverDirectory    { return memoryDrivers{u.store} }
func (u *memoryUoW) AssignmentLedger() ports.AssignmentLedger { return &memoryLedger{uow: u} }

type memoryOrders struct{ s *memoryStore }

func (r memoryOrders) GetEligibleForDispatch(_ context.Context, c ports.EligibilityCriteria) ([]*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.criteria = append(r.s.criteria, c)
	out := make([]*order.Order, 0, c.Limit)
	for _, o := range r.s.orders {
		if len(out) == c.Limit {
			break
		}
		out = append(out, o)
	}
	if r.s.loadErrs != nil {
		return out, r.s.loadErrs
	}
	return out, nil
}

func (r memoryOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.ID().IsEqual(id) {
			return o, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order", id)
}

type memoryDrivers struct{ s *memoryStore }

func (r memoryDrivers) Get(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.drivers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("driver", id)
	}
	return d, nil
}

type memoryLedger struct{ uow *memoryUoW }

func (l *memoryLedger) RejectedDriverIDs(_ context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	s := l.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectedIDsErr != nil {
		return nil, s.rejectedIDsErr
	}
	var ids []kernel.UUID
	for _, a := range s.attempts {
		if a.OrderID().IsEqual(orderID) && a.Status().IsRejected() {
			ids = append(ids, a.DriverID())
		}
	}
	return ids, nil
}

func (l *memoryLedger) Snapshot(_ context.Context, orderID, driverID kernel.UUID) (assignment.Snapshot, error) {
	s := l.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var snap assignment.Snapshot
	for _, a := range s.attempts {
		if !a.DriverID().IsEqual(driverID) {
			continue
		}
		if a.Status().IsPending() {
			snap.HasPendingAnywhere = true
		}
		if a.Status().IsRejected() && a.OrderID().IsEqual(orderID) {
			snap.RejectedForOrder = true
		}
	}
	return snap, nil
}

func (l *memoryLedger) AddPending(_ context.Context, attempt *assignment.Attempt) (bool, error) {
	s := l.uow.store
	if s.beforeAddPending != nil {
		s.beforeAddPending()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attempts {
		if a.DriverID().IsEqual(attempt.DriverID()) && a.Status().IsPending() {
			return false, nil
		}
	}
	s.attempts = append(s.attempts, attempt)
	if l.uow.inTx {
		l.uow.written = append(l.uow.written, attempt.ID())
	}
	return true, nil
}

func (l *memoryLedger) AddRejected(_ context.Context, attempt *assignment.Attempt) (bool, error) {
	s := l.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attempts {
		if a.Status().IsRejected() && a.DriverID().IsEqual(attempt.DriverID()) && a.OrderID().IsEqual(attempt.OrderID()) {
			return false, nil
		}
	}
	s.attempts = append(s.attempts, attempt)
	if l.uow.inTx {
		l.uow.written = append(l.uow.written, attempt.ID())
	}
	return true, nil
}


func containsID(ids []kernel.UUID, id kernel.UUID) bool {
	for _, candidate := range ids {
		if candidate.IsEqual(id) {
			return true
		}
	}
	return false
}

// positionSource answers candidate lookups from fixed positions, nearest
// first, honouring Exclude and Limit like the real sources do.
type positionSource struct {
	mu        sync.Mutex
	positions map[kernel.UUID]kernel.GeoPoint
	queries   []ports.CandidateQuery
	err       error
}

func newPositionSource() *positionSource {
	return &positionSource{positions: make(map[kernel.UUID]kernel.GeoPoint)}
}

func (p *positionSource) place(id kernel.UUID, at kernel.GeoPoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.positions[id] = at
}

func (p *positionSource) lastQuery() ports.CandidateQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries[len(p.queries)-1]
}

func (p *positionSource) FindCandidates(_ context.Context, q ports.CandidateQuery) ([]ports.Candidate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries = append(p.queries, q)
	if p.err != nil {
		return nil, p.err
	}

	type ranked struct {
		c    ports.Candidate
		dist float64
	}
	var all []ranked
	for id, at := range p.positions {
		if q.IsExcluded(id) {
			continue
		}
		dist, _ := at.DistanceKm(q.Pickup)
		all = append(all, ranked{c: ports.Candidate{DriverID: id, Location: at}, dist: dist})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].dist < all[j].dist })

	out := make([]ports.Candidate, 0, q.Limit)
	for _, r := range all {
		if len(out) == q.Limit {
			break
		}
		out = append(out, r.c)
	}
	return out, nil
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, d *driver.Driver, payload services.OfferPayload) error {
	args := m.Called(ctx, d, payload)
	return args.Error(0)
}

type MockSettingsSource struct{ mock.Mock }

func (m *MockSettingsSource) Load(ctx context.Context) (ports.DispatchSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.DispatchSettings), args.Error(1)
}

type MockSweepLock struct{ mock.Mock }

func (m *MockSweepLock) TryLock(ctx context.Context) (func(context.Context) error, bool, error) {
	args := m.Called(ctx)
	unlock, _ := args.Get(0).(func(context.Context) error)
	return unlock, args.Bool(1), args.Error(2)
}

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
