package domain

import "time"

// DriverStatus represents the employment status of a driver.
type DriverStatus string

const (
	DriverStatusActive   DriverStatus = "active"
	DriverStatusInactive DriverStatus = "inactive"
	DriverStatusOnLeave  DriverStatus = "on-leave"
)

// IsValid reports whether s is a known driver status.
func (s DriverStatus) IsValid() bool {
	switch s {
	case DriverStatusActive, DriverStatusInactive, DriverStatusOnLeave:
		return true
	default:
		return false
	}
}

// Fatigue thresholds in shift hours. Upper bounds are inclusive.
const (
	FreshShiftHours    = 4.0
	NormalShiftHours   = 8.0
	ExtendedShiftHours = 12.0
)

// Driver represents a delivery driver.
// CurrentShiftHours is the number of hours already worked today.
type Driver struct {
	ID                string
	Name              string
	Rating            float64 // 1.0 - 5.0
	HourlyRate        float64
	Status            DriverStatus
	CurrentShiftHours float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FatigueFactor returns the delivery time multiplier for a driver who has
// worked the given number of hours in the current shift.
func FatigueFactor(hours float64) float64 {
	switch {
	case hours <= FreshShiftHours:
		return 1.0
	case hours <= NormalShiftHours:
		return 1.1
	case hours <= ExtendedShiftHours:
		return 1.3
	default:
		return 1.5
	}
}

// FatigueFactor returns the fatigue multiplier for the driver's current shift.
func (d *Driver) FatigueFactor() float64 {
	return FatigueFactor(d.CurrentShiftHours)
}

// IsActive reports whether the driver can take deliveries.
func (d *Driver) IsActive() bool {
	return d.Status == DriverStatusActive
}
