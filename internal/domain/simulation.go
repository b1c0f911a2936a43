package domain

import "time"

// SimulationResult is the complete, presentation-rounded outcome of a
// simulation run.
type SimulationResult struct {
	RunID               string              `json:"run_id"`
	StartTime           time.Time           `json:"start_time"`
	NumberOfDrivers     int                 `json:"number_of_drivers"`
	MaxHoursPerDriver   float64             `json:"max_hours_per_driver"`
	TotalProfit         float64             `json:"total_profit"`
	TotalFuelCost       float64             `json:"total_fuel_cost"`
	TotalOrders         int                 `json:"total_orders"`
	OnTimeDeliveries    int                 `json:"on_time_deliveries"`
	LateDeliveries      int                 `json:"late_deliveries"`
	DriversUsed         int                 `json:"drivers_used"`
	EfficiencyScore     float64             `json:"efficiency_score"`
	DriverPerformance   []DriverPerformance `json:"driver_performance"`
	OrderResults        []OrderResult       `json:"order_results"`
	OptimizationDetails OptimizationDetails `json:"optimization_details"`
	CompletedAt         time.Time           `json:"completed_at"`

	// ShiftHours holds each used driver's unrounded shift hours after the
	// run. It is not serialised.
	ShiftHours map[string]float64 `json:"-"`
}

// DriverPerformance summarises one driver's share of a simulation run.
type DriverPerformance struct {
	DriverID        string  `json:"driver_id"`
	DriverName      string  `json:"driver_name"`
	OrdersCompleted int     `json:"orders_completed"`
	TotalEarnings   float64 `json:"total_earnings"`
	TotalDistance   float64 `json:"total_distance"`
	HoursWorked     float64 `json:"hours_worked"`
	Efficiency      float64 `json:"efficiency"`
	OnTimeRate      float64 `json:"on_time_rate"`
}

// OrderResult is the simulated delivery of a single order.
type OrderResult struct {
	OrderID           string        `json:"order_id"`
	DriverID          string        `json:"driver_id"`
	DriverName        string        `json:"driver_name"`
	RouteID           string        `json:"route_id"`
	Priority          OrderPriority `json:"priority"`
	ValueRs           float64       `json:"value_rs"`
	DistanceKm        float64       `json:"distance_km"`
	ActualTime        int           `json:"actual_time"` // minutes
	FatigueFactor     float64       `json:"fatigue_factor"`
	TrafficMultiplier float64       `json:"traffic_multiplier"`
	FuelCost          float64       `json:"fuel_cost"`
	DriverEarnings    float64       `json:"driver_earnings"`
	Bonus             float64       `json:"bonus"`
	Revenue           float64       `json:"revenue"`
	Profit            float64       `json:"profit"`
	DeliveryTime      time.Time     `json:"delivery_time"`
	IsOnTime          bool          `json:"is_on_time"`
}

// OptimizationDetails holds system-wide totals and rates of a run.
type OptimizationDetails struct {
	TotalDistance      float64 `json:"total_distance"`
	TotalTime          int     `json:"total_time"` // minutes
	AverageUtilization float64 `json:"average_utilization"`
	CompletionRate     float64 `json:"completion_rate"`
	OnTimeRate         float64 `json:"on_time_rate"`
	TotalInputOrders   int     `json:"total_input_orders"`
	DroppedOrders      int     `json:"dropped_orders"`
}

// Assignment is a driver/order pairing produced by a simulation run that can
// be committed back to storage.
type Assignment struct {
	OrderID  string
	DriverID string
}

// SimulationRun is a persisted simulation result.
type SimulationRun struct {
	ID        string
	Result    *SimulationResult
	Committed bool
	CreatedAt time.Time
}

// Assignments returns the driver/order pairings of the result.
func (r *SimulationResult) Assignments() []Assignment {
	out := make([]Assignment, 0, len(r.OrderResults))
	for _, o := range r.OrderResults {
		out = append(out, Assignment{OrderID: o.OrderID, DriverID: o.DriverID})
	}
	return out
}

// FinalShiftHours returns each used driver's shift hours after the run.
// Results decoded from storage carry no ShiftHours and fall back to the
// rounded HoursWorked.
func (r *SimulationResult) FinalShiftHours() map[string]float64 {
	out := make(map[string]float64, len(r.DriverPerformance))
	for _, p := range r.DriverPerformance {
		if hours, ok := r.ShiftHours[p.DriverID]; ok {
			out[p.DriverID] = hours
			continue
		}
		out[p.DriverID] = p.HoursWorked
	}
	return out
}
