package domain

import "time"

// DashboardKPIs is the operational summary shown on the dashboard.
type DashboardKPIs struct {
	TotalDrivers         int                 `json:"total_drivers"`
	ActiveDrivers        int                 `json:"active_drivers"`
	TotalRoutes          int                 `json:"total_routes"`
	TotalOrders          int                 `json:"total_orders"`
	OrdersByStatus       map[OrderStatus]int `json:"orders_by_status"`
	HighValueOrders      int                 `json:"high_value_orders"`
	DeliveredRevenue     float64             `json:"delivered_revenue"`
	OnTimeRate           float64             `json:"on_time_rate"`
	AverageDeliveryTime  float64             `json:"average_delivery_time"` // minutes
	LastSimulationProfit *float64            `json:"last_simulation_profit,omitempty"`
	LastSimulationScore  *float64            `json:"last_simulation_efficiency_score,omitempty"`
	LastSimulationAt     *time.Time          `json:"last_simulation_at,omitempty"`
	GeneratedAt          time.Time           `json:"generated_at"`
}
