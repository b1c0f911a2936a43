package service

import (
	"context"
	"log"
	"time"

	"logistics/internal/domain"
	"logistics/internal/redis"
	"logistics/internal/repository"
)

// SimulationStatusReader exposes the last simulation result.
type SimulationStatusReader interface {
	Status(ctx context.Context) (*SimulationStatus, error)
}

// DashboardService computes the operational KPIs shown on the dashboard.
type DashboardService struct {
	driverRepo repository.DriverRepository
	routeRepo  repository.RouteRepository
	orderRepo  repository.OrderRepository
	simulation SimulationStatusReader
	cacheStore redis.CacheStoreInterface
	cacheTTL   time.Duration
}

// NewDashboardService creates a new DashboardService. simulation and
// cacheStore are optional.
func NewDashboardService(
	driverRepo repository.DriverRepository,
	routeRepo repository.RouteRepository,
	orderRepo repository.OrderRepository,
	simulation SimulationStatusReader,
	cacheStore redis.CacheStoreInterface,
	cacheTTL time.Duration,
) *DashboardService {
	return &DashboardService{
		driverRepo: driverRepo,
		routeRepo:  routeRepo,
		orderRepo:  orderRepo,
		simulation: simulation,
		cacheStore: cacheStore,
		cacheTTL:   cacheTTL,
	}
}

// GetKPIs returns the dashboard KPIs, from cache when available.
func (s *DashboardService) GetKPIs(ctx context.Context) (*domain.DashboardKPIs, error) {
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetDashboard(ctx)
		if err != nil {
			log.Printf("op=dashboard.cache_get err=%v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	kpis, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		if err := s.cacheStore.SetDashboard(ctx, kpis, s.cacheTTL); err != nil {
			log.Printf("op=dashboard.cache_set err=%v", err)
		}
	}

	return kpis, nil
}

func (s *DashboardService) compute(ctx context.Context) (*domain.DashboardKPIs, error) {
	drivers, err := s.driverRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	routes, err := s.routeRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	kpis := &domain.DashboardKPIs{
		TotalDrivers:   len(drivers),
		TotalRoutes:    len(routes),
		TotalOrders:    len(orders),
		OrdersByStatus: make(map[domain.OrderStatus]int),
		GeneratedAt:    time.Now(),
	}

	for _, d := range drivers {
		if d.IsActive() {
			kpis.ActiveDrivers++
		}
	}

	var (
		completed    int
		onTime       int
		timed        int
		totalMinutes int
		revenue      float64
	)
	for _, o := range orders {
		kpis.OrdersByStatus[o.Status]++
		if o.IsHighValue {
			kpis.HighValueOrders++
		}

		if o.Status != domain.OrderStatusDelivered && o.Status != domain.OrderStatusLate {
			continue
		}
		completed++
		revenue += o.ValueRs * revenueRate
		if o.Status == domain.OrderStatusDelivered && !o.IsLate() {
			onTime++
		}
		if o.ActualDeliveryTime != nil {
			timed++
			totalMinutes += *o.ActualDeliveryTime
		}
	}

	kpis.DeliveredRevenue = domain.RoundHalfUp(revenue)
	if completed > 0 {
		kpis.OnTimeRate = domain.Round2(float64(onTime) / float64(completed) * 100)
	}
	if timed > 0 {
		kpis.AverageDeliveryTime = domain.Round2(float64(totalMinutes) / float64(timed))
	}

	if s.simulation != nil {
		status, err := s.simulation.Status(ctx)
		if err != nil {
			return nil, err
		}
		if last := status.LastResult; last != nil {
			profit, score, at := last.TotalProfit, last.EfficiencyScore, last.CompletedAt
			kpis.LastSimulationProfit = &profit
			kpis.LastSimulationScore = &score
			kpis.LastSimulationAt = &at
		}
	}

	return kpis, nil
}
