package tests

import (
	"time"

	"logistics/internal/domain"
	"logistics/internal/service"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// fleet bundles the mocks behind a simulation service.
type fleet struct {
	drivers *MockDriverRepository
	routes  *MockRouteRepository
	orders  *MockOrderRepository
	runs    *MockSimulationRepository
	locks   *MockLockStore
	cache   *MockCacheStore
}

func newFleet() *fleet {
	routes := NewMockRouteRepository()
	return &fleet{
		drivers: NewMockDriverRepository(),
		routes:  routes,
		orders:  NewMockOrderRepository(routes),
		runs:    NewMockSimulationRepository(),
		locks:   NewMockLockStore(),
		cache:   NewMockCacheStore(),
	}
}

// seed adds two active drivers, one route and three pending orders.
func (f *fleet) seed() {
	f.drivers.AddDriver(&domain.Driver{ID: "d1", Name: "Asha", Rating: 4.8, HourlyRate: 150, Status: domain.DriverStatusActive})
	f.drivers.AddDriver(&domain.Driver{ID: "d2", Name: "Ravi", Rating: 4.2, HourlyRate: 120, Status: domain.DriverStatusActive, CurrentShiftHours: 1})
	f.drivers.AddDriver(&domain.Driver{ID: "d3", Name: "Off", Rating: 5.0, HourlyRate: 200, Status: domain.DriverStatusOnLeave})

	f.routes.AddRoute(&domain.Route{ID: "r1", DistanceKm: 12, TrafficLevel: domain.TrafficMedium, BaseTimeMinutes: 40, FuelCostPerKm: 8.5, TollCharges: 10})

	f.orders.AddOrder(domain.NewOrder("o1", 12000, "r1", domain.PriorityUrgent, baseTime.Add(2*time.Hour)))
	f.orders.AddOrder(domain.NewOrder("o2", 3000, "r1", domain.PriorityMedium, baseTime.Add(3*time.Hour)))
	f.orders.AddOrder(domain.NewOrder("o3", 800, "r1", domain.PriorityLow, baseTime.Add(30*time.Minute)))
}

func (f *fleet) simulationService() *service.SimulationService {
	return service.NewSimulationService(f.drivers, f.orders, f.runs, f.locks, f.cache, service.SimulationOptions{
		LockTTL: time.Minute,
		Now:     func() time.Time { return baseTime },
	})
}

func validRun() service.RunSimulationRequest {
	return service.RunSimulationRequest{NumberOfDrivers: 5, MaxHoursPerDriver: 8}
}
