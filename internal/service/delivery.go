package service

import (
	"time"

	"logistics/internal/domain"
)

// revenueRate is the share of an order's value the company keeps as revenue.
const revenueRate = 0.1

// Delivery is the simulated outcome of one order, at full precision.
type Delivery struct {
	Order             *domain.Order
	DriverID          string
	DriverName        string
	ActualTime        int // minutes
	FatigueFactor     float64
	TrafficMultiplier float64
	FuelCost          float64
	DriverEarnings    float64
	Bonus             float64
	Revenue           float64
	Profit            float64
	DeliveryTime      time.Time
	IsOnTime          bool
}

// SimulateDelivery computes what delivering the order would look like for the
// driver in its current state. Neither argument is modified.
func SimulateDelivery(state *DriverState, order *domain.Order) Delivery {
	route := order.Route
	fatigue := domain.FatigueFactor(state.CurrentHours)

	actualTime := route.EstimatedTimeMinutes(fatigue)
	fuelCost := route.FuelCost()
	earnings := float64(actualTime) / 60 * state.Driver.HourlyRate
	deliveryTime := state.CurrentTime.Add(time.Duration(actualTime) * time.Minute)

	// The bonus is evaluated as if the order had been delivered at the
	// simulated time.
	delivered := *order
	delivered.Status = domain.OrderStatusDelivered
	delivered.DeliveryTimestamp = &deliveryTime
	bonus := delivered.DeliveryBonus()

	revenue := order.ValueRs * revenueRate

	return Delivery{
		Order:             order,
		DriverID:          state.Driver.ID,
		DriverName:        state.Driver.Name,
		ActualTime:        actualTime,
		FatigueFactor:     fatigue,
		TrafficMultiplier: route.TrafficLevel.Multiplier(),
		FuelCost:          fuelCost,
		DriverEarnings:    earnings,
		Bonus:             bonus,
		Revenue:           revenue,
		Profit:            revenue - (fuelCost + earnings) + bonus,
		DeliveryTime:      deliveryTime,
		IsOnTime:          !domain.IsLate(&deliveryTime, order.ScheduledDeliveryTime),
	}
}

// Result converts the delivery to its presentation form. Money is rounded to
// whole units.
func (d Delivery) Result() domain.OrderResult {
	return domain.OrderResult{
		OrderID:           d.Order.ID,
		DriverID:          d.DriverID,
		DriverName:        d.DriverName,
		RouteID:           d.Order.RouteID,
		Priority:          d.Order.Priority,
		ValueRs:           d.Order.ValueRs,
		DistanceKm:        d.Order.Route.DistanceKm,
		ActualTime:        d.ActualTime,
		FatigueFactor:     d.FatigueFactor,
		TrafficMultiplier: d.TrafficMultiplier,
		FuelCost:          domain.RoundHalfUp(d.FuelCost),
		DriverEarnings:    domain.RoundHalfUp(d.DriverEarnings),
		Bonus:             domain.RoundHalfUp(d.Bonus),
		Revenue:           domain.RoundHalfUp(d.Revenue),
		Profit:            domain.RoundHalfUp(d.Profit),
		DeliveryTime:      d.DeliveryTime,
		IsOnTime:          d.IsOnTime,
	}
}
