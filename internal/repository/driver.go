package repository

import (
	"context"

	"logistics/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetAll retrieves all drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// Update replaces the mutable fields of a driver.
	Update(ctx context.Context, driver *domain.Driver) error

	// Delete removes a driver.
	Delete(ctx context.Context, id string) error

	// ListEligible returns up to limit active drivers, least worked first and
	// then highest rated first.
	ListEligible(ctx context.Context, limit int) ([]*domain.Driver, error)

	// UpdateShiftHours sets the hours a driver has worked in the current shift.
	UpdateShiftHours(ctx context.Context, id string, hours float64) error
}
