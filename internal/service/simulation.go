package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"

	"logistics/internal/domain"
	"logistics/internal/metrics"
	"logistics/internal/obs"
	"logistics/internal/redis"
	"logistics/internal/repository"
)

// Accepted ranges of simulation parameters.
const (
	MinDrivers     = 1
	MaxDrivers     = 50
	MinHoursPerDay = 1.0
	MaxHoursPerDay = 24.0

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// SimulationOptions tunes a SimulationService.
type SimulationOptions struct {
	// LockTTL bounds how long the distributed run lock may be held.
	LockTTL time.Duration
	// ResultCacheTTL is the lifetime of the cached last result; 0 keeps it forever.
	ResultCacheTTL time.Duration
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// SimulationService runs delivery simulations. At most one simulation runs at
// a time in this process, and when a lock store is configured, across all
// processes sharing it.
type SimulationService struct {
	driverRepo repository.DriverRepository
	orderRepo  repository.OrderRepository
	simRepo    repository.SimulationRepository
	lockStore  redis.LockStoreInterface
	cacheStore redis.CacheStoreInterface
	opts       SimulationOptions

	running atomic.Bool
	last    atomic.Pointer[domain.SimulationResult]
}

// NewSimulationService creates a new SimulationService. simRepo, lockStore and
// cacheStore are optional.
func NewSimulationService(
	driverRepo repository.DriverRepository,
	orderRepo repository.OrderRepository,
	simRepo repository.SimulationRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	opts SimulationOptions,
) *SimulationService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 5 * time.Minute
	}
	return &SimulationService{
		driverRepo: driverRepo,
		orderRepo:  orderRepo,
		simRepo:    simRepo,
		lockStore:  lockStore,
		cacheStore: cacheStore,
		opts:       opts,
	}
}

// RunSimulationRequest contains the parameters of a simulation run.
type RunSimulationRequest struct {
	NumberOfDrivers   int
	MaxHoursPerDriver float64
	StartTime         *time.Time // Optional: defaults to now
	Commit            bool       // Persist the assignments to orders and drivers
}

// SimulationStatus reports whether a run is in progress and the last result.
type SimulationStatus struct {
	InProgress bool
	LastResult *domain.SimulationResult
}

// Run executes a simulation. Parameters are validated before the run slot is
// taken, so invalid requests never block other callers. A failed run leaves
// the previous result in place.
func (s *SimulationService) Run(ctx context.Context, req RunSimulationRequest) (result *domain.SimulationResult, err error) {
	defer obs.Time(ctx, "simulation.run")(&err)

	started := time.Now()
	defer func() { s.observe(started, result, err) }()

	if err := validateRunRequest(req); err != nil {
		return nil, err
	}

	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrSimulationInProgress
	}
	defer s.running.Store(false)

	metrics.SimulationInProgress.Set(1)
	defer metrics.SimulationInProgress.Set(0)

	if s.lockStore != nil {
		owner := uuid.New().String()
		acquired, lockErr := s.lockStore.AcquireSimulationLock(ctx, owner, s.opts.LockTTL)
		if lockErr != nil {
			return nil, fmt.Errorf("%w: acquire lock: %w", ErrSimulationFailed, lockErr)
		}
		if !acquired {
			return nil, ErrSimulationInProgress
		}
		defer func() {
			if relErr := s.lockStore.ReleaseSimulationLock(context.WithoutCancel(ctx), owner); relErr != nil {
				log.Printf("op=simulation.unlock owner=%s err=%v", owner, relErr)
			}
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrSimulationFailed, r)
		}
	}()

	defer newrelic.FromContext(ctx).StartSegment("simulation/run").End()

	return s.run(ctx, req)
}

func (s *SimulationService) run(ctx context.Context, req RunSimulationRequest) (*domain.SimulationResult, error) {
	drivers, err := s.driverRepo.ListEligible(ctx, req.NumberOfDrivers)
	if err != nil {
		return nil, fmt.Errorf("%w: load drivers: %w", ErrSimulationFailed, err)
	}
	if len(drivers) == 0 {
		return nil, ErrNoEligibleDrivers
	}

	orders, err := s.orderRepo.ListPendingWithRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load orders: %w", ErrSimulationFailed, err)
	}
	if len(orders) == 0 {
		return nil, ErrNoPendingOrders
	}

	startTime := s.opts.Now()
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	engine := AssignmentEngine{
		MaxHoursPerDriver: req.MaxHoursPerDriver,
		StartTime:         startTime,
	}
	result, err := engine.Run(drivers, orders)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSimulationFailed, err)
	}

	result.RunID = uuid.New().String()
	result.StartTime = startTime
	result.NumberOfDrivers = req.NumberOfDrivers
	result.CompletedAt = s.opts.Now()

	txn := newrelic.FromContext(ctx)
	txn.AddAttribute("simulation.runId", result.RunID)
	txn.AddAttribute("simulation.ordersAssigned", result.TotalOrders)
	txn.AddAttribute("simulation.driversUsed", result.DriversUsed)

	if err := s.persist(ctx, result, req.Commit); err != nil {
		return nil, err
	}

	s.last.Store(result)
	if s.cacheStore != nil {
		if err := s.cacheStore.SetLastSimulation(ctx, result, s.opts.ResultCacheTTL); err != nil {
			log.Printf("op=simulation.cache run_id=%s err=%v", result.RunID, err)
		}
		if err := s.cacheStore.InvalidateDashboard(ctx); err != nil {
			log.Printf("op=dashboard.invalidate run_id=%s err=%v", result.RunID, err)
		}
	}

	log.Printf("op=simulation.result run_id=%s drivers=%d orders=%d dropped=%d profit=%.0f score=%.2f committed=%t",
		result.RunID, result.DriversUsed, result.TotalOrders, result.OptimizationDetails.DroppedOrders,
		result.TotalProfit, result.EfficiencyScore, req.Commit)

	return result, nil
}

// persist records the run in history. Saving is best effort unless the
// assignments have to be committed, in which case the run is stored together
// with the assignments or not at all.
func (s *SimulationService) persist(ctx context.Context, result *domain.SimulationResult, commit bool) error {
	if s.simRepo == nil {
		if commit {
			return fmt.Errorf("%w: no simulation repository configured", ErrSimulationFailed)
		}
		return nil
	}

	run := &domain.SimulationRun{
		ID:        result.RunID,
		Result:    result,
		CreatedAt: result.CompletedAt,
	}

	if commit {
		if err := s.simRepo.CommitAssignments(ctx, run, result.Assignments(), result.FinalShiftHours()); err != nil {
			return fmt.Errorf("%w: commit assignments: %w", ErrSimulationFailed, err)
		}
		return nil
	}

	if err := s.simRepo.Save(ctx, run); err != nil {
		log.Printf("op=simulation.save run_id=%s err=%v", run.ID, err)
	}
	return nil
}

// Status reports whether a simulation is running and returns the last
// successful result, falling back to the cache and then to history after a
// restart.
func (s *SimulationService) Status(ctx context.Context) (*SimulationStatus, error) {
	status := &SimulationStatus{InProgress: s.running.Load()}

	if last := s.last.Load(); last != nil {
		status.LastResult = last
		return status, nil
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetLastSimulation(ctx)
		if err != nil {
			log.Printf("op=simulation.status source=cache err=%v", err)
		} else if cached != nil {
			s.last.CompareAndSwap(nil, cached)
			status.LastResult = cached
			return status, nil
		}
	}

	if s.simRepo != nil {
		run, err := s.simRepo.GetLatest(ctx)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if run != nil {
			s.last.CompareAndSwap(nil, run.Result)
			status.LastResult = run.Result
		}
	}

	return status, nil
}

// History returns up to limit persisted runs, newest first.
func (s *SimulationService) History(ctx context.Context, limit int) ([]*domain.SimulationRun, error) {
	if s.simRepo == nil {
		return []*domain.SimulationRun{}, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.simRepo.List(ctx, limit)
}

func validateRunRequest(req RunSimulationRequest) error {
	if req.NumberOfDrivers < MinDrivers || req.NumberOfDrivers > MaxDrivers {
		return ErrInvalidDriverCount
	}
	if req.MaxHoursPerDriver < MinHoursPerDay || req.MaxHoursPerDriver > MaxHoursPerDay {
		return ErrInvalidMaxHours
	}
	return nil
}

func (s *SimulationService) observe(started time.Time, result *domain.SimulationResult, err error) {
	switch {
	case err == nil:
		metrics.SimulationRuns.WithLabelValues(metrics.OutcomeSuccess).Inc()
		metrics.SimulationDuration.Observe(time.Since(started).Seconds())
		metrics.SimulationOrders.WithLabelValues("assigned").Add(float64(result.TotalOrders))
		metrics.SimulationOrders.WithLabelValues("dropped").Add(float64(result.OptimizationDetails.DroppedOrders))
	case errors.Is(err, ErrSimulationInProgress):
		metrics.SimulationRuns.WithLabelValues(metrics.OutcomeConflict).Inc()
	case errors.Is(err, ErrSimulationFailed):
		metrics.SimulationRuns.WithLabelValues(metrics.OutcomeFailed).Inc()
	default:
		metrics.SimulationRuns.WithLabelValues(metrics.OutcomeRejected).Inc()
	}
}
