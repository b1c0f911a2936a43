package repository

import (
	"context"

	"logistics/internal/domain"
)

// RouteRepository defines the persistence operations for routes.
type RouteRepository interface {
	Create(ctx context.Context, route *domain.Route) error
	GetByID(ctx context.Context, id string) (*domain.Route, error)
	GetAll(ctx context.Context) ([]*domain.Route, error)
	Update(ctx context.Context, route *domain.Route) error
	Delete(ctx context.Context, id string) error

	// RecordCompletion folds one delivery duration into the route's running
	// average in a single atomic write and returns the updated route.
	RecordCompletion(ctx context.Context, id string, actualMinutes int) (*domain.Route, error)
}
