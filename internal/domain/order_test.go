package domain

import (
	"errors"
	"testing"
	"time"
)

var scheduled = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func delivered(o *Order, at time.Time) *Order {
	o.Status = OrderStatusDelivered
	o.DeliveryTimestamp = &at
	return o
}

func TestNewOrder_HighValueFixedAtCreation(t *testing.T) {
	t.Parallel()

	o := NewOrder("order-1", 10000, "route-1", "", scheduled)
	if !o.IsHighValue {
		t.Fatal("expected 10000 to be high value")
	}
	if o.Priority != PriorityMedium {
		t.Errorf("expected default priority medium, got %s", o.Priority)
	}
	if o.Status != OrderStatusPending {
		t.Errorf("expected pending, got %s", o.Status)
	}

	o.ValueRs = 50
	if !o.IsHighValue {
		t.Error("high value flag must not be re-evaluated")
	}

	if NewOrder("order-2", 9999.99, "route-1", PriorityLow, scheduled).IsHighValue {
		t.Error("expected 9999.99 not to be high value")
	}
}

func TestIsLate(t *testing.T) {
	t.Parallel()

	before := scheduled.Add(-time.Minute)
	after := scheduled.Add(time.Second)

	if IsLate(nil, scheduled) {
		t.Error("missing delivery timestamp must not be late")
	}
	if IsLate(&after, time.Time{}) {
		t.Error("missing scheduled time must not be late")
	}
	if IsLate(&before, scheduled) {
		t.Error("early delivery must not be late")
	}
	if IsLate(&scheduled, scheduled) {
		t.Error("delivery exactly on schedule must not be late")
	}
	if !IsLate(&after, scheduled) {
		t.Error("expected late delivery")
	}
}

func TestDeliveryBonus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		order *Order
		want  float64
	}{
		{
			name:  "pending regular order",
			order: NewOrder("o", 5000, "r", PriorityMedium, scheduled),
			want:  0,
		},
		{
			name:  "pending high value order",
			order: NewOrder("o", 15000, "r", PriorityMedium, scheduled),
			want:  300,
		},
		{
			name:  "delivered on time regular",
			order: delivered(NewOrder("o", 5000, "r", PriorityMedium, scheduled), scheduled.Add(-10*time.Minute)),
			want:  100,
		},
		{
			name:  "delivered on time high value",
			order: delivered(NewOrder("o", 20000, "r", PriorityMedium, scheduled), scheduled),
			want:  500,
		},
		{
			name:  "late by 10 minutes counts as one hour",
			order: delivered(NewOrder("o", 5000, "r", PriorityMedium, scheduled), scheduled.Add(10*time.Minute)),
			want:  -50,
		},
		{
			name:  "late by 2h30 counts as three hours",
			order: delivered(NewOrder("o", 15000, "r", PriorityMedium, scheduled), scheduled.Add(150*time.Minute)),
			want:  300 - 150,
		},
		{
			name:  "very late is floored",
			order: delivered(NewOrder("o", 5000, "r", PriorityMedium, scheduled), scheduled.Add(48*time.Hour)),
			want:  -500,
		},
		{
			name:  "large bonus is not capped",
			order: delivered(NewOrder("o", 1000000, "r", PriorityMedium, scheduled), scheduled),
			want:  20100,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.order.DeliveryBonus(); got != tc.want {
				t.Errorf("bonus = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeliveryBonus_NeverBelowFloor(t *testing.T) {
	t.Parallel()

	for hours := 0; hours < 200; hours += 7 {
		o := delivered(NewOrder("o", 1, "r", PriorityLow, scheduled), scheduled.Add(time.Duration(hours)*time.Hour+time.Minute))
		if got := o.DeliveryBonus(); got < MinDeliveryBonus {
			t.Fatalf("bonus %v below floor at %dh late", got, hours)
		}
	}
}

func TestOrderPriority_Weight(t *testing.T) {
	t.Parallel()

	want := map[OrderPriority]int{
		PriorityUrgent:        4,
		PriorityHigh:          3,
		PriorityMedium:        2,
		PriorityLow:           1,
		OrderPriority("asap"): 2,
	}
	for p, w := range want {
		if got := p.Weight(); got != w {
			t.Errorf("%q.Weight() = %d, want %d", p, got, w)
		}
	}
}

func TestOrderLifecycle(t *testing.T) {
	t.Parallel()

	o := NewOrder("order-1", 500, "route-1", PriorityHigh, scheduled)

	if err := o.MarkDelivered(scheduled, 30); !errors.Is(err, ErrOrderNotInProgress) {
		t.Fatalf("expected ErrOrderNotInProgress from pending, got %v", err)
	}
	if err := o.Start(); !errors.Is(err, ErrOrderNotAssigned) {
		t.Fatalf("expected ErrOrderNotAssigned, got %v", err)
	}
	if err := o.Assign("driver-1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := o.Assign("driver-2"); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("expected ErrOrderNotPending, got %v", err)
	}
	if err := o.MarkDelivered(scheduled, 30); !errors.Is(err, ErrOrderNotInProgress) {
		t.Fatalf("expected ErrOrderNotInProgress from assigned, got %v", err)
	}
	if err := o.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	at := scheduled.Add(-5 * time.Minute)
	if err := o.MarkDelivered(at, 42); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if o.Status != OrderStatusDelivered || *o.ActualDeliveryTime != 42 || !o.DeliveryTimestamp.Equal(at) {
		t.Errorf("unexpected delivered state: %+v", o)
	}
	if err := o.Cancel(); !errors.Is(err, ErrOrderClosed) {
		t.Errorf("expected ErrOrderClosed, got %v", err)
	}
}

func TestOrder_MarkLate(t *testing.T) {
	t.Parallel()

	at := scheduled.Add(3 * time.Hour)
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusAssigned, OrderStatusDelivered, OrderStatusCancelled} {
		o := NewOrder("order-1", 500, "route-1", PriorityLow, scheduled)
		o.Status = status
		if err := o.MarkLate(at); !errors.Is(err, ErrOrderNotInProgress) {
			t.Errorf("MarkLate from %s: err = %v, want ErrOrderNotInProgress", status, err)
		}
		if o.Status != status {
			t.Errorf("status changed from %s to %s", status, o.Status)
		}
	}

	o := NewOrder("order-2", 500, "route-1", PriorityLow, scheduled)
	o.Status = OrderStatusInProgress
	if err := o.MarkLate(at); err != nil {
		t.Fatalf("MarkLate: %v", err)
	}
	if o.Status != OrderStatusLate || !o.IsLate() {
		t.Errorf("status = %s late = %v, want late", o.Status, o.IsLate())
	}
	if o.ActualDeliveryTime != nil {
		t.Error("late orders closed by hand carry no measured duration")
	}
}
