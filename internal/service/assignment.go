package service

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"logistics/internal/domain"
)

// Scoring weights for pairing a driver with an order.
const (
	ratingWeight          = 20.0
	fatiguePenaltyWeight  = 30.0
	standardShiftHours    = 8.0
	remainingHoursWeight  = 5.0
	routeFamiliarityRate  = 0.1
	maxRouteFamiliarity   = 10.0
	highValueRatingFloor  = 4.5
	highValuePenaltyScore = 20.0
)

// DriverState is the simulation-local working state of one driver. It holds a
// copy of the driver so that the caller's records are never mutated.
type DriverState struct {
	Driver         domain.Driver
	CurrentHours   float64
	AssignedOrders []Delivery
	TotalEarnings  float64
	TotalDistance  float64
	CurrentTime    time.Time
}

// NewDriverState creates the initial state of a driver at the start of a run.
func NewDriverState(driver *domain.Driver, start time.Time) *DriverState {
	return &DriverState{
		Driver:       *driver,
		CurrentHours: driver.CurrentShiftHours,
		CurrentTime:  start,
	}
}

// SimulationOutcome is the raw, full-precision output of the assignment loop.
type SimulationOutcome struct {
	States           []*DriverState
	Deliveries       []Delivery // in assignment order
	TotalInputOrders int
}

// SortOrderQueue returns the orders sorted by priority weight and then value,
// both descending. Orders that compare equal keep their input order. The input
// slice is not modified.
func SortOrderQueue(orders []*domain.Order) []*domain.Order {
	queue := slices.Clone(orders)
	slices.SortStableFunc(queue, func(a, b *domain.Order) int {
		if c := cmp.Compare(b.Priority.Weight(), a.Priority.Weight()); c != 0 {
			return c
		}
		return cmp.Compare(b.ValueRs, a.ValueRs)
	})
	return queue
}

// ScoreDriver rates how well a driver in its current state suits an order.
// Higher is better; the value is only meaningful relative to other drivers.
func ScoreDriver(state *DriverState, order *domain.Order) float64 {
	fatigue := domain.FatigueFactor(state.CurrentHours)

	score := state.Driver.Rating*ratingWeight -
		(fatigue-1)*fatiguePenaltyWeight +
		(standardShiftHours-state.CurrentHours)*remainingHoursWeight

	if order.Route != nil {
		score += math.Min(float64(order.Route.TotalCompletions)*routeFamiliarityRate, maxRouteFamiliarity)
	}

	if order.IsHighValue && state.Driver.Rating < highValueRatingFloor {
		score -= highValuePenaltyScore
	}

	return score
}

// AssignmentEngine greedily assigns orders to drivers. Assignments are final:
// the engine never revisits an earlier choice.
type AssignmentEngine struct {
	MaxHoursPerDriver float64
	StartTime         time.Time
}

// Assign processes the order queue and returns the per-driver states and
// deliveries. Drivers are scanned in the given order, which decides ties.
// Orders without a route, and orders no driver can fit into the hour budget,
// are left out of the outcome.
func (e AssignmentEngine) Assign(drivers []*domain.Driver, orders []*domain.Order) (*SimulationOutcome, error) {
	states := make([]*DriverState, len(drivers))
	for i, d := range drivers {
		states[i] = NewDriverState(d, e.StartTime)
	}

	outcome := &SimulationOutcome{
		States:           states,
		TotalInputOrders: len(orders),
	}

	for _, order := range SortOrderQueue(orders) {
		if order.Route == nil {
			continue
		}

		best := e.selectDriver(states, order)
		if best == nil {
			continue
		}

		delivery := SimulateDelivery(best, order)
		best.AssignedOrders = append(best.AssignedOrders, delivery)
		best.CurrentHours += float64(delivery.ActualTime) / 60
		best.TotalEarnings += delivery.DriverEarnings
		best.TotalDistance += order.Route.DistanceKm
		best.CurrentTime = best.CurrentTime.Add(time.Duration(delivery.ActualTime) * time.Minute)

		if best.CurrentHours > e.MaxHoursPerDriver {
			return nil, fmt.Errorf("%w: driver %s at %.2fh after order %s",
				ErrShiftLimitExceeded, best.Driver.ID, best.CurrentHours, order.ID)
		}

		outcome.Deliveries = append(outcome.Deliveries, delivery)
	}

	return outcome, nil
}

// selectDriver returns the highest scoring driver that can still fit the
// order into its hour budget. The first driver wins exact ties.
func (e AssignmentEngine) selectDriver(states []*DriverState, order *domain.Order) *DriverState {
	var best *DriverState
	bestScore := math.Inf(-1)

	for _, state := range states {
		estimated := order.Route.EstimatedTimeMinutes(domain.FatigueFactor(state.CurrentHours))
		if state.CurrentHours+float64(estimated)/60 > e.MaxHoursPerDriver {
			continue
		}

		score := ScoreDriver(state, order)
		if best == nil || score > bestScore {
			best = state
			bestScore = score
		}
	}

	return best
}

// Run assigns the orders and aggregates the outcome into a result.
func (e AssignmentEngine) Run(drivers []*domain.Driver, orders []*domain.Order) (*domain.SimulationResult, error) {
	outcome, err := e.Assign(drivers, orders)
	if err != nil {
		return nil, err
	}
	return AggregateResults(outcome, e.MaxHoursPerDriver), nil
}
