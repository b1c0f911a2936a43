package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"logistics/internal/domain"
	"logistics/internal/metrics"
	"logistics/internal/service"
)

func TestSimulation_RunSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFleet()
	f.seed()
	svc := f.simulationService()

	result, err := svc.Run(ctx, validRun())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.RunID == "" {
		t.Error("expected a run id")
	}
	if result.TotalOrders != 3 {
		t.Errorf("total orders = %d, want 3", result.TotalOrders)
	}
	if !result.StartTime.Equal(baseTime) {
		t.Errorf("start time = %v, want %v", result.StartTime, baseTime)
	}
	// The urgent order is processed first.
	if result.OrderResults[0].OrderID != "o1" {
		t.Errorf("first order = %s, want o1", result.OrderResults[0].OrderID)
	}
	for _, p := range result.DriverPerformance {
		if p.DriverID == "d3" {
			t.Error("driver on leave took part in the simulation")
		}
	}

	status, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.InProgress {
		t.Error("expected no simulation in progress after the run")
	}
	if status.LastResult == nil || status.LastResult.RunID != result.RunID {
		t.Error("expected status to return the last result")
	}

	if f.locks.IsLocked() {
		t.Error("expected the simulation lock to be released")
	}
	if f.runs.CountRuns() != 1 {
		t.Errorf("saved runs = %d, want 1", f.runs.CountRuns())
	}
	if f.cache.InvalidateCallCount != 1 {
		t.Errorf("dashboard invalidations = %d, want 1", f.cache.InvalidateCallCount)
	}
	if f.runs.CommitCallCount != 0 {
		t.Error("assignments must not be committed unless requested")
	}

	// Stored orders are untouched by a dry run.
	if got := f.orders.GetOrder("o1"); got.Status != domain.OrderStatusPending {
		t.Errorf("order status = %s, want pending", got.Status)
	}
}

func TestSimulation_UsesRequestedStartTime(t *testing.T) {
	t.Parallel()

	f := newFleet()
	f.seed()
	svc := f.simulationService()

	start := baseTime.Add(-4 * time.Hour)
	req := validRun()
	req.StartTime = &start

	result, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.StartTime.Equal(start) {
		t.Errorf("start time = %v, want %v", result.StartTime, start)
	}
	// Starting early makes every delivery on time.
	if result.LateDeliveries != 0 {
		t.Errorf("late deliveries = %d, want 0", result.LateDeliveries)
	}
}

func TestSimulation_RejectsInvalidParameters(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		drivers int
		hours   float64
		wantErr error
	}{
		{"zero drivers", 0, 8, service.ErrInvalidDriverCount},
		{"too many drivers", 51, 8, service.ErrInvalidDriverCount},
		{"hours below one", 5, 0.5, service.ErrInvalidMaxHours},
		{"hours above a day", 5, 25, service.ErrInvalidMaxHours},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFleet()
			f.seed()
			svc := f.simulationService()

			_, err := svc.Run(context.Background(), service.RunSimulationRequest{
				NumberOfDrivers:   tc.drivers,
				MaxHoursPerDriver: tc.hours,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if f.locks.AcquireCallCount != 0 {
				t.Error("lock must not be taken for invalid parameters")
			}
			if f.drivers.ListEligibleCallCount != 0 {
				t.Error("drivers must not be loaded for invalid parameters")
			}
		})
	}
}

func TestSimulation_NoEligibleDrivers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFleet()
	f.seed()
	f.drivers = NewMockDriverRepository()
	f.drivers.AddDriver(&domain.Driver{ID: "x", Name: "Inactive", Rating: 4, Status: domain.DriverStatusInactive})
	svc := f.simulationService()

	_, err := svc.Run(ctx, validRun())
	if !errors.Is(err, service.ErrNoEligibleDrivers) {
		t.Fatalf("err = %v, want ErrNoEligibleDrivers", err)
	}

	status, _ := svc.Status(ctx)
	if status.InProgress {
		t.Error("in-progress flag must be cleared after a rejection")
	}
	if f.locks.IsLocked() {
		t.Error("lock must be released after a rejection")
	}
}

func TestSimulation_NoPendingOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFleet()
	f.drivers.AddDriver(&domain.Driver{ID: "d1", Name: "Asha", Rating: 4.8, HourlyRate: 150, Status: domain.DriverStatusActive})
	svc := f.simulationService()

	_, err := svc.Run(ctx, validRun())
	if !errors.Is(err, service.ErrNoPendingOrders) {
		t.Fatalf("err = %v, want ErrNoPendingOrders", err)
	}
	if err.Error() != "no pending orders available for simulation" {
		t.Errorf("message = %q", err.Error())
	}

	status, _ := svc.Status(ctx)
	if status.InProgress || status.LastResult != nil {
		t.Errorf("status = %+v, want idle with no result", status)
	}
}

func TestSimulation_PanicClearsFlag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFleet()
	f.seed()
	f.drivers.ListEligibleHook = func() { panic("driver store exploded") }
	svc := f.simulationService()

	_, err := svc.Run(ctx, validRun())
	if !errors.Is(err, service.ErrSimulationFailed) {
		t.Fatalf("err = %v, want ErrSimulationFailed", err)
	}

	status, _ := svc.Status(ctx)
	if status.InProgress {
		t.Fatal("in-progress flag must be cleared after a panic")
	}
	if f.locks.IsLocked() {
		t.Fatal("lock must be released after a panic")
	}

	// The service is usable again.
	f.drivers.ListEligibleHook = nil
	if _, err := svc.Run(ctx, validRun()); err != nil {
		t.Fatalf("run after panic: %v", err)
	}
}

func TestSimulation_ConcurrentRunRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFleet()
	f.seed()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.drivers.ListEligibleHook = func() {
		once.Do(func() {
			close(started)
			<-release
		})
	}
	svc := f.simulationService()

	var (
		wg       sync.WaitGroup
		firstRes *domain.SimulationResult
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstRes, firstErr = svc.Run(ctx, validRun())
	}()

	<-started

	status, _ := svc.Status(ctx)
	if !status.InProgress {
		t.Error("expected simulation in progress")
	}

	if _, err := svc.Run(ctx, validRun()); !errors.Is(err, service.ErrSimulationInProgress) {
		t.Errorf("second run err = %v, want ErrSimulationInProgress", err)
	}

	close(release)
	wg.Wait()

	if firstErr != nil {
		t.Fatalf("first run: %v", firstErr)
	}

	status, _ = svc.Status(ctx)
	if status.InProgress {
		t.Error("expected simulation finished")
	}
	if status.LastResult == nil || status.LastResult.RunID != firstRes.RunID {
		t.Error("first run's result must be the last result")
	}
}

func TestSimulation_LockHeldByAnotherInstance(t *testing.T) {
	t.Parallel()

	f := newFleet()
	f.seed()
	f.locks.ForceAcquireFailure = true
	svc := f.simulationService()

	_, err := svc.Run(context.Background(), validRun())
	if !errors.Is(err, service.ErrSimulationInProgress) {
		t.Fatalf("err = %v, want ErrSimulationInProgress", err)
	}
	if f.drivers.ListEligibleCallCount != 0 {
		t.Error("drivers must not be loaded without the lock")
	}
}

func TestSimulation_FailedRunKeepsLastResult(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFleet()
	f.seed()
	svc := f.simulationService()

	first, err := svc.Run(ctx, validRun())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	f.orders.ListPendingError = ErrMockDB
	if _, err := svc.Run(ctx, validRun()); !errors.Is(err, service.ErrSimulationFailed) {
		t.Fatalf("err = %v, want ErrSimulationFailed", err)
	}

	status, _ := svc.Status(ctx)
	if status.LastResult == nil || status.LastResult.RunID != first.RunID {
		t.Error("a failed run must not replace the last result")
	}
}

func TestSimulation_HistorySaveFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	f := newFleet()
	f.seed()
	f.runs.SaveError = ErrMockDB
	svc := f.simulationService()

	if _, err := svc.Run(context.Background(), validRun()); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestSimulation_CommitAssignments(t *testing.T) {
	t.Parallel()

	f := newFleet()
	f.seed()
	svc := f.simulationService()

	req := validRun()
	req.Commit = true

	result, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if f.runs.CommittedRunID != result.RunID {
		t.Errorf("committed run = %s, want %s", f.runs.CommittedRunID, result.RunID)
	}
	if len(f.runs.CommittedAssignment) != result.TotalOrders {
		t.Errorf("committed assignments = %d, want %d", len(f.runs.CommittedAssignment), result.TotalOrders)
	}
	for _, p := range result.DriverPerformance {
		if got := f.runs.CommittedShiftHours[p.DriverID]; domain.Round2(got) != p.HoursWorked {
			t.Errorf("driver %s shift hours = %v, want %v", p.DriverID, got, p.HoursWorked)
		}
	}

	runs, err := svc.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(runs) != 1 || !runs[0].Committed {
		t.Errorf("history = %+v, want one committed run", runs)
	}
}

func TestSimulation_CommitFailureIsReported(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFleet()
	f.seed()
	f.runs.CommitError = ErrMockDB
	svc := f.simulationService()

	req := validRun()
	req.Commit = true

	if _, err := svc.Run(ctx, req); !errors.Is(err, service.ErrSimulationFailed) {
		t.Fatalf("err = %v, want ErrSimulationFailed", err)
	}

	status, _ := svc.Status(ctx)
	if status.InProgress {
		t.Error("in-progress flag must be cleared")
	}
	if status.LastResult != nil {
		t.Errorf("failed run exposed as last result: %s", status.LastResult.RunID)
	}
	if n := f.runs.CountRuns(); n != 0 {
		t.Errorf("history runs = %d, want 0", n)
	}

	// A fresh service, as after a restart with an empty cache, must not find
	// the failed run either.
	restarted := service.NewSimulationService(f.drivers, f.orders, f.runs, f.locks, nil, service.SimulationOptions{})
	status, err := restarted.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.LastResult != nil {
		t.Errorf("restarted status shows run %s", status.LastResult.RunID)
	}
}

func TestSimulation_StatusFallsBackToCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFleet()
	cached := &domain.SimulationResult{RunID: "from-cache", TotalProfit: 42}
	if err := f.cache.SetLastSimulation(ctx, cached, 0); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	svc := f.simulationService()
	status, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.LastResult == nil || status.LastResult.RunID != "from-cache" {
		t.Errorf("last result = %+v, want cached run", status.LastResult)
	}
}

func TestSimulation_HistoryNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFleet()
	f.seed()
	svc := f.simulationService()

	var ids []string
	for i := 0; i < 3; i++ {
		result, err := svc.Run(ctx, validRun())
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		ids = append(ids, result.RunID)
	}

	runs, err := svc.History(ctx, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("history ids = %v, want newest two of %v", runs, ids)
	}
}

// Not parallel: reads global counters.
func TestSimulation_RecordsOutcomeMetrics(t *testing.T) {
	ctx := context.Background()

	f := newFleet()
	f.seed()
	f.locks.ForceAcquireFailure = true
	svc := f.simulationService()

	conflicts := testutil.ToFloat64(metrics.SimulationRuns.WithLabelValues(metrics.OutcomeConflict))
	rejected := testutil.ToFloat64(metrics.SimulationRuns.WithLabelValues(metrics.OutcomeRejected))
	successes := testutil.ToFloat64(metrics.SimulationRuns.WithLabelValues(metrics.OutcomeSuccess))

	_, _ = svc.Run(ctx, validRun())
	_, _ = svc.Run(ctx, service.RunSimulationRequest{NumberOfDrivers: 0, MaxHoursPerDriver: 8})

	f.locks.ForceAcquireFailure = false
	if _, err := svc.Run(ctx, validRun()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := testutil.ToFloat64(metrics.SimulationRuns.WithLabelValues(metrics.OutcomeConflict)) - conflicts; got != 1 {
		t.Errorf("conflict runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.SimulationRuns.WithLabelValues(metrics.OutcomeRejected)) - rejected; got != 1 {
		t.Errorf("rejected runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.SimulationRuns.WithLabelValues(metrics.OutcomeSuccess)) - successes; got != 1 {
		t.Errorf("successful runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.SimulationInProgress); got != 0 {
		t.Errorf("in-progress gauge = %v, want 0", got)
	}
}
