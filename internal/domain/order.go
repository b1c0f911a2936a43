package domain

import (
	"errors"
	"math"
	"time"
)

// OrderPriority represents how urgently an order should be delivered.
type OrderPriority string

const (
	PriorityLow    OrderPriority = "low"
	PriorityMedium OrderPriority = "medium"
	PriorityHigh   OrderPriority = "high"
	PriorityUrgent OrderPriority = "urgent"
)

// IsValid reports whether p is a known priority.
func (p OrderPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Weight returns the queue weight of the priority. Unknown priorities weigh
// the same as medium.
func (p OrderPriority) Weight() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAssigned   OrderStatus = "assigned"
	OrderStatusInProgress OrderStatus = "in-progress"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusLate       OrderStatus = "late"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusInProgress,
		OrderStatusDelivered, OrderStatusLate, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsClosed reports whether no further transitions are allowed from s.
func (s OrderStatus) IsClosed() bool {
	return s == OrderStatusDelivered || s == OrderStatusLate || s == OrderStatusCancelled
}

// Order economics.
const (
	HighValueThreshold = 10000.0
	HighValueBonusRate = 0.02
	OnTimeBonus        = 100.0
	LatePenaltyPerHour = 50.0
	MinDeliveryBonus   = -500.0
)

// Lifecycle errors.
var (
	ErrOrderNotPending    = errors.New("order is not pending")
	ErrOrderNotAssigned   = errors.New("order is not assigned")
	ErrOrderNotInProgress = errors.New("order is not in progress")
	ErrOrderClosed        = errors.New("order is already closed")
)

// Order represents a delivery order. Route is populated by repositories that
// join the assigned route and may be nil.
type Order struct {
	ID                    string
	ValueRs               float64
	RouteID               string
	Route                 *Route
	AssignedDriverID      string
	Priority              OrderPriority
	Status                OrderStatus
	IsHighValue           bool
	ScheduledDeliveryTime time.Time
	DeliveryTimestamp     *time.Time
	ActualDeliveryTime    *int // minutes
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewOrder creates a pending order. The high-value flag is fixed here and is
// not re-evaluated if the value later changes.
func NewOrder(id string, valueRs float64, routeID string, priority OrderPriority, scheduled time.Time) *Order {
	if priority == "" {
		priority = PriorityMedium
	}
	return &Order{
		ID:                    id,
		ValueRs:               valueRs,
		RouteID:               routeID,
		Priority:              priority,
		Status:                OrderStatusPending,
		IsHighValue:           valueRs >= HighValueThreshold,
		ScheduledDeliveryTime: scheduled,
	}
}

// IsLate reports whether a delivery happened after its scheduled time.
// Missing timestamps are never late.
func IsLate(delivered *time.Time, scheduled time.Time) bool {
	if delivered == nil || delivered.IsZero() || scheduled.IsZero() {
		return false
	}
	return delivered.After(scheduled)
}

// IsLate reports whether the order was delivered after its scheduled time.
func (o *Order) IsLate() bool {
	return IsLate(o.DeliveryTimestamp, o.ScheduledDeliveryTime)
}

// DeliveryBonus returns the bonus (or penalty, when negative) earned by the
// order. The result is never below MinDeliveryBonus and has no upper bound.
func (o *Order) DeliveryBonus() float64 {
	bonus := 0.0
	if o.IsHighValue {
		bonus += o.ValueRs * HighValueBonusRate
	}

	if o.Status == OrderStatusDelivered {
		if !o.IsLate() {
			bonus += OnTimeBonus
		} else {
			hoursLate := o.DeliveryTimestamp.Sub(o.ScheduledDeliveryTime).Hours()
			bonus -= math.Ceil(hoursLate) * LatePenaltyPerHour
		}
	}

	return math.Max(bonus, MinDeliveryBonus)
}

// Assign moves a pending order to a driver.
func (o *Order) Assign(driverID string) error {
	if o.Status != OrderStatusPending {
		return ErrOrderNotPending
	}
	o.AssignedDriverID = driverID
	o.Status = OrderStatusAssigned
	return nil
}

// Start marks an assigned order as out for delivery.
func (o *Order) Start() error {
	if o.Status != OrderStatusAssigned {
		return ErrOrderNotAssigned
	}
	o.Status = OrderStatusInProgress
	return nil
}

// MarkDelivered completes an in-progress order.
func (o *Order) MarkDelivered(at time.Time, actualMinutes int) error {
	if o.Status != OrderStatusInProgress {
		return ErrOrderNotInProgress
	}
	o.DeliveryTimestamp = &at
	o.ActualDeliveryTime = &actualMinutes
	o.Status = OrderStatusDelivered
	return nil
}

// MarkLate closes an in-progress order as late without a measured duration.
func (o *Order) MarkLate(at time.Time) error {
	if o.Status != OrderStatusInProgress {
		return ErrOrderNotInProgress
	}
	o.DeliveryTimestamp = &at
	o.Status = OrderStatusLate
	return nil
}

// Cancel cancels an order that has not been completed yet.
func (o *Order) Cancel() error {
	if o.Status.IsClosed() {
		return ErrOrderClosed
	}
	o.Status = OrderStatusCancelled
	return nil
}
