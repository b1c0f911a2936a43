package domain

import (
	"math"
	"time"
)

// TrafficLevel represents congestion on a route.
type TrafficLevel string

const (
	TrafficLow    TrafficLevel = "Low"
	TrafficMedium TrafficLevel = "Medium"
	TrafficHigh   TrafficLevel = "High"
)

// DefaultFuelCostPerKm is applied when a route is created without a fuel rate.
const DefaultFuelCostPerKm = 8.5

// IsValid reports whether l is a known traffic level.
func (l TrafficLevel) IsValid() bool {
	switch l {
	case TrafficLow, TrafficMedium, TrafficHigh:
		return true
	default:
		return false
	}
}

// Multiplier returns the delivery time multiplier for the traffic level.
// Unknown levels are treated as Low.
func (l TrafficLevel) Multiplier() float64 {
	switch l {
	case TrafficMedium:
		return 1.2
	case TrafficHigh:
		return 1.5
	default:
		return 1.0
	}
}

// Route represents a delivery route and its running completion statistics.
type Route struct {
	ID                    string
	DistanceKm            float64
	TrafficLevel          TrafficLevel
	BaseTimeMinutes       int
	FuelCostPerKm         float64
	TollCharges           float64
	TotalCompletions      int
	AverageCompletionTime int // minutes
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// FuelCost returns the total cost of driving the route once, tolls included.
func (r *Route) FuelCost() float64 {
	return r.DistanceKm*r.FuelCostPerKm + r.TollCharges
}

// EstimatedTimeMinutes returns the expected traversal time for a driver with
// the given fatigue factor.
func (r *Route) EstimatedTimeMinutes(fatigueFactor float64) int {
	return int(RoundHalfUp(float64(r.BaseTimeMinutes) * r.TrafficLevel.Multiplier() * fatigueFactor))
}

// RecordCompletion folds a real delivery duration into the running average.
func (r *Route) RecordCompletion(actualMinutes int) {
	total := float64(r.AverageCompletionTime)*float64(r.TotalCompletions) + float64(actualMinutes)
	r.AverageCompletionTime = int(RoundHalfUp(total / float64(r.TotalCompletions+1)))
	r.TotalCompletions++
}

// RoundHalfUp rounds to the nearest integer, with halves rounded towards
// positive infinity.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Round2 rounds to two decimal places using RoundHalfUp.
func Round2(x float64) float64 {
	return RoundHalfUp(x*100) / 100
}
