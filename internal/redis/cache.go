package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"logistics/internal/domain"
)

// CacheStore handles simulation and dashboard caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Key names
const (
	lastSimulationKey = "cache:simulation:last"
	dashboardKey      = "cache:dashboard"
)

// SetLastSimulation stores the result of the latest completed simulation.
// A zero ttl keeps the entry until it is overwritten.
func (s *CacheStore) SetLastSimulation(ctx context.Context, result *domain.SimulationResult, ttl time.Duration) error {
	return s.setJSON(ctx, lastSimulationKey, result, ttl)
}

// GetLastSimulation retrieves the latest simulation result from cache.
func (s *CacheStore) GetLastSimulation(ctx context.Context) (*domain.SimulationResult, error) {
	var result domain.SimulationResult
	found, err := s.getJSON(ctx, lastSimulationKey, &result)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

// SetDashboard stores dashboard KPIs.
func (s *CacheStore) SetDashboard(ctx context.Context, kpis *domain.DashboardKPIs, ttl time.Duration) error {
	return s.setJSON(ctx, dashboardKey, kpis, ttl)
}

// GetDashboard retrieves dashboard KPIs from cache.
func (s *CacheStore) GetDashboard(ctx context.Context) (*domain.DashboardKPIs, error) {
	var kpis domain.DashboardKPIs
	found, err := s.getJSON(ctx, dashboardKey, &kpis)
	if err != nil || !found {
		return nil, err
	}
	return &kpis, nil
}

// InvalidateDashboard removes cached dashboard KPIs.
func (s *CacheStore) InvalidateDashboard(ctx context.Context) error {
	return s.client.Del(ctx, dashboardKey).Err()
}

func (s *CacheStore) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// getJSON decodes key into v. A cache miss returns false with no error.
func (s *CacheStore) getJSON(ctx context.Context, key string, v any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // Cache miss
		}
		return false, err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}
