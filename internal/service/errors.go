package service

import (
	"errors"

	"logistics/internal/domain"
)

var (
	// ErrInvalidDriverCount is returned when the requested number of drivers is out of range.
	ErrInvalidDriverCount = errors.New("number of drivers must be between 1 and 50")

	// ErrInvalidMaxHours is returned when the per-driver hour budget is out of range.
	ErrInvalidMaxHours = errors.New("max hours per driver must be between 1 and 24")

	// ErrNoEligibleDrivers is returned when no active driver can take part in a simulation.
	ErrNoEligibleDrivers = errors.New("no active drivers available for simulation")

	// ErrNoPendingOrders is returned when there is nothing to simulate.
	ErrNoPendingOrders = errors.New("no pending orders available for simulation")

	// ErrSimulationInProgress is returned when another simulation is already running.
	ErrSimulationInProgress = errors.New("a simulation is already in progress")

	// ErrSimulationFailed wraps unexpected faults raised while a simulation runs.
	ErrSimulationFailed = errors.New("simulation failed")

	// ErrShiftLimitExceeded is returned if an assignment leaves a driver over the hour budget.
	ErrShiftLimitExceeded = errors.New("driver exceeded max hours per driver")

	// ErrValidation is returned when a create or update request is malformed.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an entity ID is empty.
	ErrInvalidID = errors.New("invalid id")

	// ErrRouteRequired is returned when an order is created without a route.
	ErrRouteRequired = errors.New("order requires an assigned route")

	// ErrInvalidDeliveryTime is returned when a completed delivery has a negative duration.
	ErrInvalidDeliveryTime = errors.New("actual delivery time must not be negative")
)

// Order lifecycle errors are defined by the domain and re-exported here so
// that callers only depend on the service package.
var (
	ErrOrderNotPending    = domain.ErrOrderNotPending
	ErrOrderNotAssigned   = domain.ErrOrderNotAssigned
	ErrOrderNotInProgress = domain.ErrOrderNotInProgress
	ErrOrderClosed        = domain.ErrOrderClosed
)
