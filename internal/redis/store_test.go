package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"logistics/internal/domain"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestLockStore_SingleHolder(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	store := NewLockStore(client)

	ok, err := store.AcquireSimulationLock(ctx, "run-1", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}

	ok, err = store.AcquireSimulationLock(ctx, "run-2", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected second acquire to fail while lock is held")
	}

	if err := store.ReleaseSimulationLock(ctx, "run-1"); err != nil {
		t.Fatalf("release: %v", err)
	}

	ok, _ = store.AcquireSimulationLock(ctx, "run-2", time.Minute)
	if !ok {
		t.Error("expected acquire to succeed after release")
	}
}

func TestLockStore_ReleaseByOtherOwnerIsIgnored(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	store := NewLockStore(client)

	if ok, _ := store.AcquireSimulationLock(ctx, "run-1", time.Minute); !ok {
		t.Fatal("expected acquire to succeed")
	}

	if err := store.ReleaseSimulationLock(ctx, "run-2"); err != nil {
		t.Fatalf("release: %v", err)
	}

	got, err := mr.Get(simulationLockKey)
	if err != nil {
		t.Fatalf("lock key missing: %v", err)
	}
	if got != "run-1" {
		t.Errorf("expected lock owner run-1, got %q", got)
	}
}

func TestLockStore_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	store := NewLockStore(client)

	if ok, _ := store.AcquireSimulationLock(ctx, "run-1", 5*time.Second); !ok {
		t.Fatal("expected acquire to succeed")
	}

	mr.FastForward(6 * time.Second)

	if ok, _ := store.AcquireSimulationLock(ctx, "run-2", 5*time.Second); !ok {
		t.Error("expected acquire to succeed after TTL expiry")
	}
}

func TestCacheStore_LastSimulationRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	store := NewCacheStore(client)

	got, err := store.GetLastSimulation(ctx)
	if err != nil {
		t.Fatalf("unexpected error on miss: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil on cache miss")
	}

	result := &domain.SimulationResult{
		RunID:       "run-1",
		TotalProfit: 1234,
		TotalOrders: 3,
		DriversUsed: 2,
		OrderResults: []domain.OrderResult{
			{OrderID: "order-1", DriverID: "driver-1", ActualTime: 68, IsOnTime: true},
		},
	}
	if err := store.SetLastSimulation(ctx, result, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err = store.GetLastSimulation(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RunID != "run-1" || got.TotalProfit != 1234 || len(got.OrderResults) != 1 {
		t.Errorf("unexpected cached result: %+v", got)
	}
}

func TestCacheStore_DashboardTTLAndInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	store := NewCacheStore(client)

	kpis := &domain.DashboardKPIs{TotalDrivers: 4, ActiveDrivers: 3}
	if err := store.SetDashboard(ctx, kpis, 30*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, _ := store.GetDashboard(ctx)
	if got == nil || got.ActiveDrivers != 3 {
		t.Fatalf("unexpected dashboard: %+v", got)
	}

	if err := store.InvalidateDashboard(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if got, _ := store.GetDashboard(ctx); got != nil {
		t.Error("expected miss after invalidate")
	}

	_ = store.SetDashboard(ctx, kpis, 30*time.Second)
	mr.FastForward(31 * time.Second)
	if got, _ := store.GetDashboard(ctx); got != nil {
		t.Error("expected miss after TTL expiry")
	}
}
