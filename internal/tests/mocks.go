package tests

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"logistics/internal/domain"
	"logistics/internal/redis"
	"logistics/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver
	order   []string

	// Counters for verification
	CreateCallCount       int32
	ListEligibleCallCount int32

	// Error injection
	CreateError       error
	ListEligibleError error

	// ListEligibleHook runs before eligible drivers are returned. Tests use it
	// to block or panic inside a simulation.
	ListEligibleHook func()
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.ID]; !ok {
		m.order = append(m.order, driver.ID)
	}
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddDriver(driver)
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.order))
	for _, id := range m.order {
		copy := *m.drivers[id]
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *driver
	m.drivers[driver.ID] = &copy
	return nil
}

func (m *MockDriverRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.drivers, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	return nil
}

// ListEligible mirrors the ordering of the SQL implementation: least worked
// first, then highest rated, then oldest.
func (m *MockDriverRepository) ListEligible(ctx context.Context, limit int) ([]*domain.Driver, error) {
	atomic.AddInt32(&m.ListEligibleCallCount, 1)
	if m.ListEligibleHook != nil {
		m.ListEligibleHook()
	}
	if m.ListEligibleError != nil {
		return nil, m.ListEligibleError
	}

	all, _ := m.GetAll(ctx)
	eligible := slices.DeleteFunc(all, func(d *domain.Driver) bool { return !d.IsActive() })
	slices.SortStableFunc(eligible, func(a, b *domain.Driver) int {
		if c := cmp.Compare(a.CurrentShiftHours, b.CurrentShiftHours); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible, nil
}

func (m *MockDriverRepository) UpdateShiftHours(ctx context.Context, id string, hours float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.CurrentShiftHours = hours
	return nil
}

// GetDriver returns driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route
	order  []string

	// Counters for verification
	UpdateCallCount int32

	// Error injection
	DeleteError error
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{
		routes: make(map[string]*domain.Route),
	}
}

// AddRoute adds a route to the mock repository.
func (m *MockRouteRepository) AddRoute(route *domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[route.ID]; !ok {
		m.order = append(m.order, route.ID)
	}
	m.routes[route.ID] = route
}

func (m *MockRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	m.AddRoute(route)
	return nil
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *route
	return &copy, nil
}

func (m *MockRouteRepository) GetAll(ctx context.Context) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Route, 0, len(m.order))
	for _, id := range m.order {
		copy := *m.routes[id]
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRouteRepository) Update(ctx context.Context, route *domain.Route) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[route.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *route
	m.routes[route.ID] = &copy
	return nil
}

func (m *MockRouteRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.routes, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	return nil
}

func (m *MockRouteRepository) RecordCompletion(ctx context.Context, id string, actualMinutes int) (*domain.Route, error) {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	route, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	route.RecordCompletion(actualMinutes)
	copy := *route
	return &copy, nil
}

// GetRoute returns route for test assertions.
func (m *MockRouteRepository) GetRoute(id string) *domain.Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.routes[id]
}

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository. Routes are
// resolved through the linked route repository, like the SQL join.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	order  []string
	routes *MockRouteRepository

	// Counters for verification
	UpdateCallCount int32

	// Error injection
	ListPendingError error
	UpdateError      error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository(routes *MockRouteRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
		routes: routes,
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		m.order = append(m.order, order.ID)
	}
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.AddOrder(order)
	return nil
}

func (m *MockOrderRepository) withRoute(order *domain.Order) *domain.Order {
	copy := *order
	copy.Route = nil
	if m.routes != nil && order.RouteID != "" {
		if route, err := m.routes.GetByID(context.Background(), order.RouteID); err == nil {
			copy.Route = route
		}
	}
	return &copy
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m.withRoute(order), nil
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Order, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.withRoute(m.orders[id]))
	}
	return result, nil
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *order
	m.orders[order.ID] = &copy
	return nil
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.orders, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	return nil
}

func (m *MockOrderRepository) Complete(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[order.ID]
	if !ok || stored.Status != domain.OrderStatusInProgress {
		return domain.ErrOrderNotInProgress
	}
	copy := *order
	m.orders[order.ID] = &copy
	return nil
}

func (m *MockOrderRepository) ListPendingWithRoutes(ctx context.Context) ([]*domain.Order, error) {
	if m.ListPendingError != nil {
		return nil, m.ListPendingError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Order
	for _, id := range m.order {
		if o := m.orders[id]; o.Status == domain.OrderStatusPending {
			result = append(result, m.withRoute(o))
		}
	}
	return result, nil
}

// GetOrder returns order for test assertions.
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

// ──────────────────────────────────────────────
// MOCK SIMULATION REPOSITORY
// ──────────────────────────────────────────────

// MockSimulationRepository is a mock implementation of SimulationRepository.
type MockSimulationRepository struct {
	mu   sync.RWMutex
	runs []*domain.SimulationRun

	// Last committed values for verification
	CommittedRunID      string
	CommittedAssignment []domain.Assignment
	CommittedShiftHours map[string]float64

	// Counters for verification
	SaveCallCount   int32
	CommitCallCount int32

	// Error injection
	SaveError   error
	CommitError error
}

// NewMockSimulationRepository creates a new mock simulation repository.
func NewMockSimulationRepository() *MockSimulationRepository {
	return &MockSimulationRepository{}
}

func (m *MockSimulationRepository) Save(ctx context.Context, run *domain.SimulationRun) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *MockSimulationRepository) GetLatest(ctx context.Context) (*domain.SimulationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.runs) == 0 {
		return nil, repository.ErrNotFound
	}
	return m.runs[len(m.runs)-1], nil
}

func (m *MockSimulationRepository) List(ctx context.Context, limit int) ([]*domain.SimulationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.SimulationRun, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.runs[i])
	}
	return result, nil
}

func (m *MockSimulationRepository) CommitAssignments(ctx context.Context, run *domain.SimulationRun, assignments []domain.Assignment, shiftHours map[string]float64) error {
	atomic.AddInt32(&m.CommitCallCount, 1)
	if m.CommitError != nil {
		return m.CommitError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	run.Committed = true
	m.runs = append(m.runs, run)
	m.CommittedRunID = run.ID
	m.CommittedAssignment = assignments
	m.CommittedShiftHours = shiftHours
	return nil
}

// CountRuns returns the number of saved runs.
func (m *MockSimulationRepository) CountRuns() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu     sync.Mutex
	owner  string
	expiry time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure, as if another instance held the lock
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{}
}

func (m *MockLockStore) AcquireSimulationLock(ctx context.Context, owner string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.owner != "" && time.Now().Before(m.expiry) {
		return false, nil // Lock still held.
	}

	m.owner = owner
	m.expiry = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseSimulationLock(ctx context.Context, owner string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner == owner {
		m.owner = ""
	}
	return nil
}

// IsLocked checks if the simulation lock is held (for test assertions).
func (m *MockLockStore) IsLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner != "" && time.Now().Before(m.expiry)
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStore.
type MockCacheStore struct {
	mu        sync.Mutex
	last      *domain.SimulationResult
	dashboard *domain.DashboardKPIs

	// Counters
	SetDashboardCallCount int32
	InvalidateCallCount   int32

	// Error injection
	SetLastError error
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{}
}

func (m *MockCacheStore) SetLastSimulation(ctx context.Context, result *domain.SimulationResult, ttl time.Duration) error {
	if m.SetLastError != nil {
		return m.SetLastError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = result
	return nil
}

func (m *MockCacheStore) GetLastSimulation(ctx context.Context) (*domain.SimulationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, nil
}

func (m *MockCacheStore) SetDashboard(ctx context.Context, kpis *domain.DashboardKPIs, ttl time.Duration) error {
	atomic.AddInt32(&m.SetDashboardCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dashboard = kpis
	return nil
}

func (m *MockCacheStore) GetDashboard(ctx context.Context) (*domain.DashboardKPIs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dashboard, nil
}

func (m *MockCacheStore) InvalidateDashboard(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dashboard = nil
	return nil
}

// ──────────────────────────────────────────────
// INTERFACE CHECKS
// ──────────────────────────────────────────────

var (
	_ repository.DriverRepository     = (*MockDriverRepository)(nil)
	_ repository.RouteRepository      = (*MockRouteRepository)(nil)
	_ repository.OrderRepository      = (*MockOrderRepository)(nil)
	_ repository.SimulationRepository = (*MockSimulationRepository)(nil)
	_ redis.LockStoreInterface        = (*MockLockStore)(nil)
	_ redis.CacheStoreInterface       = (*MockCacheStore)(nil)
)

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDB         = errors.New("mock: database unavailable")
	ErrMockRouteInUse = fmt.Errorf("mock: route referenced by orders: %w", repository.ErrInUse)
)
