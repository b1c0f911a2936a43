package redis

import (
	"context"
	"time"

	"logistics/internal/domain"
)

// LockStoreInterface defines the interface for the distributed simulation lock.
type LockStoreInterface interface {
	AcquireSimulationLock(ctx context.Context, owner string, ttl time.Duration) (bool, error)
	ReleaseSimulationLock(ctx context.Context, owner string) error
}

// CacheStoreInterface defines the interface for cached simulation and
// dashboard data.
type CacheStoreInterface interface {
	SetLastSimulation(ctx context.Context, result *domain.SimulationResult, ttl time.Duration) error
	GetLastSimulation(ctx context.Context) (*domain.SimulationResult, error)
	SetDashboard(ctx context.Context, kpis *domain.DashboardKPIs, ttl time.Duration) error
	GetDashboard(ctx context.Context) (*domain.DashboardKPIs, error)
	InvalidateDashboard(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
