package service

import (
	"testing"
	"time"

	"logistics/internal/domain"
)

func TestAggregateResults(t *testing.T) {
	t.Parallel()

	route := newRoute("r1", 10, domain.TrafficLow, 60, 0)
	orders := []*domain.Order{
		newOrder("on-time", 5000, domain.PriorityMedium, route, simStart.Add(2*time.Hour)),
		newOrder("late", 4000, domain.PriorityMedium, route, simStart.Add(time.Hour)),
		newOrder("no-route", 3000, domain.PriorityMedium, nil, simStart),
	}
	drivers := []*domain.Driver{
		newDriver("d1", 4.8, 150, 0),
		newDriver("idle", 3.0, 100, 6),
	}

	result, err := AssignmentEngine{MaxHoursPerDriver: 8, StartTime: simStart}.Run(drivers, orders)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// on-time: 500 revenue - (85 fuel + 150 wages) + 100 bonus = 365
	// late:    400 revenue - (85 fuel + 150 wages) - 50 penalty = 115
	if result.TotalProfit != 480 {
		t.Errorf("total profit = %v, want 480", result.TotalProfit)
	}
	if result.TotalFuelCost != 170 {
		t.Errorf("total fuel = %v, want 170", result.TotalFuelCost)
	}
	if result.TotalOrders != 2 || result.OnTimeDeliveries != 1 || result.LateDeliveries != 1 {
		t.Errorf("orders = %d on-time = %d late = %d, want 2/1/1",
			result.TotalOrders, result.OnTimeDeliveries, result.LateDeliveries)
	}
	if result.DriversUsed != 1 {
		t.Errorf("drivers used = %d, want 1", result.DriversUsed)
	}

	details := result.OptimizationDetails
	if details.CompletionRate != 66.67 {
		t.Errorf("completion rate = %v, want 66.67", details.CompletionRate)
	}
	if details.OnTimeRate != 50 {
		t.Errorf("on-time rate = %v, want 50", details.OnTimeRate)
	}
	if details.AverageUtilization != 25 {
		t.Errorf("utilization = %v, want 25", details.AverageUtilization)
	}
	if details.TotalDistance != 20 || details.TotalTime != 120 {
		t.Errorf("distance = %v time = %d, want 20/120", details.TotalDistance, details.TotalTime)
	}
	if details.TotalInputOrders != 3 || details.DroppedOrders != 1 {
		t.Errorf("input = %d dropped = %d, want 3/1", details.TotalInputOrders, details.DroppedOrders)
	}

	// 66.666..*0.4 + 50*0.4 + 25*0.2
	if result.EfficiencyScore != 51.67 {
		t.Errorf("efficiency score = %v, want 51.67", result.EfficiencyScore)
	}

	if len(result.DriverPerformance) != 1 {
		t.Fatalf("driver performance entries = %d, want 1", len(result.DriverPerformance))
	}
	perf := result.DriverPerformance[0]
	if perf.DriverID != "d1" || perf.OrdersCompleted != 2 {
		t.Errorf("performance = %+v", perf)
	}
	if perf.TotalEarnings != 300 || perf.TotalDistance != 20 || perf.HoursWorked != 2 {
		t.Errorf("earnings = %v distance = %v hours = %v, want 300/20/2",
			perf.TotalEarnings, perf.TotalDistance, perf.HoursWorked)
	}
	if perf.Efficiency != 240 || perf.OnTimeRate != 50 {
		t.Errorf("efficiency = %v on-time = %v, want 240/50", perf.Efficiency, perf.OnTimeRate)
	}

	if len(result.OrderResults) != 2 || result.OrderResults[0].OrderID != "on-time" {
		t.Errorf("order results = %+v", result.OrderResults)
	}
	if !result.OrderResults[0].IsOnTime || result.OrderResults[1].IsOnTime {
		t.Error("on-time flags are wrong")
	}
}

func TestAggregateResults_NoAssignments(t *testing.T) {
	t.Parallel()

	outcome := &SimulationOutcome{
		States:           []*DriverState{NewDriverState(newDriver("d1", 4, 100, 0), simStart)},
		TotalInputOrders: 4,
	}

	result := AggregateResults(outcome, 8)

	if result.EfficiencyScore != 0 || result.TotalProfit != 0 || result.DriversUsed != 0 {
		t.Errorf("unexpected totals: %+v", result)
	}
	if result.OptimizationDetails.DroppedOrders != 4 {
		t.Errorf("dropped = %d, want 4", result.OptimizationDetails.DroppedOrders)
	}
	if len(result.DriverPerformance) != 0 {
		t.Errorf("expected no driver performance, got %d", len(result.DriverPerformance))
	}
}

func TestAggregateResults_FinalShiftHours(t *testing.T) {
	t.Parallel()

	route := newRoute("r1", 10, domain.TrafficMedium, 50, 0)
	orders := []*domain.Order{newOrder("o1", 1000, domain.PriorityMedium, route, simStart.Add(time.Hour))}

	result, err := AssignmentEngine{MaxHoursPerDriver: 8, StartTime: simStart}.Run(
		[]*domain.Driver{newDriver("d1", 4.5, 100, 3)}, orders)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// 50 * 1.2 = 60 minutes on top of 3 hours already worked.
	hours := result.FinalShiftHours()
	if hours["d1"] != 4 {
		t.Errorf("final shift hours = %v, want 4", hours["d1"])
	}
	if a := result.Assignments(); len(a) != 1 || a[0].DriverID != "d1" || a[0].OrderID != "o1" {
		t.Errorf("assignments = %+v", a)
	}
}

func TestAggregateResults_FinalShiftHoursKeepFullPrecision(t *testing.T) {
	t.Parallel()

	route := newRoute("r1", 10, domain.TrafficLow, 70, 0)
	orders := []*domain.Order{newOrder("o1", 1000, domain.PriorityMedium, route, simStart.Add(2*time.Hour))}

	result, err := AssignmentEngine{MaxHoursPerDriver: 8, StartTime: simStart}.Run(
		[]*domain.Driver{newDriver("d1", 4.5, 100, 3)}, orders)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := 3 + 70.0/60
	if got := result.DriverPerformance[0].HoursWorked; got != 4.17 {
		t.Errorf("hours worked = %v, want 4.17", got)
	}
	if got := result.FinalShiftHours()["d1"]; !approx(got, want) {
		t.Errorf("final shift hours = %v, want %v", got, want)
	}

	// A result decoded from storage only has the rounded hours.
	stored := *result
	stored.ShiftHours = nil
	if got := stored.FinalShiftHours()["d1"]; got != 4.17 {
		t.Errorf("stored final shift hours = %v, want 4.17", got)
	}
}
