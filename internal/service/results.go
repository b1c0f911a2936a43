package service

import (
	"logistics/internal/domain"
)

// Weights of the efficiency score components.
const (
	completionWeight  = 0.4
	onTimeWeight      = 0.4
	utilizationWeight = 0.2
)

// AggregateResults turns the raw outcome of an assignment run into a result.
// Rates and sums are computed at full precision and rounded only when stored
// in the result.
func AggregateResults(outcome *SimulationOutcome, maxHoursPerDriver float64) *domain.SimulationResult {
	result := &domain.SimulationResult{
		MaxHoursPerDriver: maxHoursPerDriver,
		NumberOfDrivers:   len(outcome.States),
		ShiftHours:        make(map[string]float64),
	}

	var (
		totalProfit   float64
		totalFuel     float64
		totalDistance float64
		totalTime     int
		onTime        int
	)

	for _, d := range outcome.Deliveries {
		totalProfit += d.Profit
		totalFuel += d.FuelCost
		totalDistance += d.Order.Route.DistanceKm
		totalTime += d.ActualTime
		if d.IsOnTime {
			onTime++
		}
		result.OrderResults = append(result.OrderResults, d.Result())
	}

	for _, state := range outcome.States {
		if len(state.AssignedOrders) == 0 {
			continue
		}
		result.DriverPerformance = append(result.DriverPerformance, driverPerformance(state))
		result.ShiftHours[state.Driver.ID] = state.CurrentHours
	}

	assigned := len(outcome.Deliveries)
	driversUsed := len(result.DriverPerformance)

	var completionRate, onTimeRate, utilization float64
	if outcome.TotalInputOrders > 0 {
		completionRate = float64(assigned) / float64(outcome.TotalInputOrders) * 100
	}
	if assigned > 0 {
		onTimeRate = float64(onTime) / float64(assigned) * 100
	}
	if capacity := float64(driversUsed) * maxHoursPerDriver * 60; capacity > 0 {
		utilization = float64(totalTime) / capacity * 100
	}

	result.TotalProfit = domain.RoundHalfUp(totalProfit)
	result.TotalFuelCost = domain.RoundHalfUp(totalFuel)
	result.TotalOrders = assigned
	result.OnTimeDeliveries = onTime
	result.LateDeliveries = assigned - onTime
	result.DriversUsed = driversUsed
	result.EfficiencyScore = domain.Round2(
		completionRate*completionWeight + onTimeRate*onTimeWeight + utilization*utilizationWeight)
	result.OptimizationDetails = domain.OptimizationDetails{
		TotalDistance:      domain.Round2(totalDistance),
		TotalTime:          totalTime,
		AverageUtilization: domain.Round2(utilization),
		CompletionRate:     domain.Round2(completionRate),
		OnTimeRate:         domain.Round2(onTimeRate),
		TotalInputOrders:   outcome.TotalInputOrders,
		DroppedOrders:      outcome.TotalInputOrders - assigned,
	}

	return result
}

func driverPerformance(state *DriverState) domain.DriverPerformance {
	var profit float64
	onTime := 0
	for _, d := range state.AssignedOrders {
		profit += d.Profit
		if d.IsOnTime {
			onTime++
		}
	}

	var efficiency float64
	if state.CurrentHours > 0 {
		efficiency = profit / state.CurrentHours
	}

	return domain.DriverPerformance{
		DriverID:        state.Driver.ID,
		DriverName:      state.Driver.Name,
		OrdersCompleted: len(state.AssignedOrders),
		TotalEarnings:   domain.RoundHalfUp(state.TotalEarnings),
		TotalDistance:   domain.Round2(state.TotalDistance),
		HoursWorked:     domain.Round2(state.CurrentHours),
		Efficiency:      domain.Round2(efficiency),
		OnTimeRate:      domain.Round2(float64(onTime) / float64(len(state.AssignedOrders)) * 100),
	}
}
