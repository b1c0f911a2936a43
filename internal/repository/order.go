package repository

import (
	"context"

	"logistics/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID with its route populated.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetAll retrieves all orders, newest first.
	GetAll(ctx context.Context) ([]*domain.Order, error)

	// Update updates an existing order.
	Update(ctx context.Context, order *domain.Order) error

	// Delete removes an order.
	Delete(ctx context.Context, id string) error

	// Complete writes a closed order only while the stored order is still
	// in progress, returning domain.ErrOrderNotInProgress otherwise.
	Complete(ctx context.Context, order *domain.Order) error

	// ListPendingWithRoutes returns pending orders in creation order with
	// their routes populated. Orders whose route no longer exists are
	// returned with a nil Route.
	ListPendingWithRoutes(ctx context.Context) ([]*domain.Order, error)
}
