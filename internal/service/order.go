package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"logistics/internal/domain"
	"logistics/internal/repository"
	"logistics/internal/repository/postgres"
)

// OrderService handles order operations and the order lifecycle.
type OrderService struct {
	db         *sql.DB
	orderRepo  repository.OrderRepository
	routeRepo  repository.RouteRepository
	driverRepo repository.DriverRepository
}

// NewOrderService creates a new OrderService. When db is nil, delivery
// completion is written without a transaction.
func NewOrderService(
	db *sql.DB,
	orderRepo repository.OrderRepository,
	routeRepo repository.RouteRepository,
	driverRepo repository.DriverRepository,
) *OrderService {
	return &OrderService{
		db:         db,
		orderRepo:  orderRepo,
		routeRepo:  routeRepo,
		driverRepo: driverRepo,
	}
}

// CreateOrderInput contains the parameters for creating an order.
type CreateOrderInput struct {
	ID                    string               `validate:"omitempty,max=64"` // Optional: generated when empty
	ValueRs               float64              `validate:"gte=1,lte=1000000"`
	RouteID               string               // Required: must reference an existing route
	Priority              domain.OrderPriority `validate:"omitempty,oneof=low medium high urgent"` // Optional: defaults to medium
	ScheduledDeliveryTime time.Time            `validate:"required"`
}

// UpdateOrderInput contains the fields of an order that can be changed after
// creation. Nil fields are left untouched. Status only closes an order as
// late or cancelled; the other transitions have their own operations.
type UpdateOrderInput struct {
	ValueRs               *float64              `validate:"omitempty,gte=1,lte=1000000"`
	RouteID               *string               `validate:"omitempty,min=1"`
	Priority              *domain.OrderPriority `validate:"omitempty,oneof=low medium high urgent"`
	Status                *domain.OrderStatus   `validate:"omitempty,oneof=late cancelled"`
	ScheduledDeliveryTime *time.Time
}

// Create adds a new pending order on an existing route.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.RouteID == "" {
		return nil, ErrRouteRequired
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	route, err := s.routeRepo.GetByID(ctx, in.RouteID)
	if err != nil {
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}

	order := domain.NewOrder(id, in.ValueRs, route.ID, in.Priority, in.ScheduledDeliveryTime)
	order.Route = route
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get retrieves an order by ID.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	return s.orderRepo.GetByID(ctx, id)
}

// List returns all orders.
func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// Update changes an order's editable fields. The high-value flag is fixed at
// creation and is not recomputed.
func (s *OrderService) Update(ctx context.Context, id string, in UpdateOrderInput) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.RouteID != nil && *in.RouteID != order.RouteID {
		route, err := s.routeRepo.GetByID(ctx, *in.RouteID)
		if err != nil {
			return nil, err
		}
		order.RouteID = route.ID
		order.Route = route
	}
	if in.ValueRs != nil {
		order.ValueRs = *in.ValueRs
	}
	if in.Priority != nil {
		order.Priority = *in.Priority
	}
	if in.ScheduledDeliveryTime != nil {
		order.ScheduledDeliveryTime = *in.ScheduledDeliveryTime
	}
	order.UpdatedAt = time.Now()

	if in.Status == nil {
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}

	switch *in.Status {
	case domain.OrderStatusLate:
		if err := order.MarkLate(order.UpdatedAt); err != nil {
			return nil, err
		}
		err = s.orderRepo.Complete(ctx, order)
	case domain.OrderStatusCancelled:
		if err := order.Cancel(); err != nil {
			return nil, err
		}
		err = s.orderRepo.Update(ctx, order)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes an order.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	return s.orderRepo.Delete(ctx, id)
}

// Assign gives a pending order to an existing driver.
func (s *OrderService) Assign(ctx context.Context, id, driverID string) (*domain.Order, error) {
	if id == "" || driverID == "" {
		return nil, ErrInvalidID
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, err
	}

	if err := order.Assign(driverID); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// StartDelivery marks an assigned order as out for delivery.
func (s *OrderService) StartDelivery(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Start(); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// Cancel cancels an order that has not been completed.
func (s *OrderService) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// CompleteDeliveryRequest contains the parameters for completing a delivery.
type CompleteDeliveryRequest struct {
	OrderID       string
	DeliveredAt   *time.Time // Optional: defaults to now
	ActualMinutes int
}

// CompleteDelivery marks an in-progress order as delivered and folds the
// delivery duration into the route's completion statistics.
func (s *OrderService) CompleteDelivery(ctx context.Context, req CompleteDeliveryRequest) (*domain.Order, error) {
	if req.ActualMinutes < 0 {
		return nil, ErrInvalidDeliveryTime
	}

	order, err := s.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	deliveredAt := time.Now()
	if req.DeliveredAt != nil {
		deliveredAt = *req.DeliveredAt
	}

	if err := order.MarkDelivered(deliveredAt, req.ActualMinutes); err != nil {
		return nil, err
	}
	order.UpdatedAt = time.Now()

	if s.db == nil {
		if order.Route, err = completeDelivery(ctx, s.orderRepo, s.routeRepo, order, req.ActualMinutes); err != nil {
			return nil, err
		}
		return order, nil
	}

	// Use transaction so the order and the route statistics stay consistent.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txOrderRepo := postgres.NewOrderRepositoryWithTx(tx)
	txRouteRepo := postgres.NewRouteRepositoryWithTx(tx)

	var route *domain.Route
	if route, err = completeDelivery(ctx, txOrderRepo, txRouteRepo, order, req.ActualMinutes); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	order.Route = route
	return order, nil
}

// completeDelivery writes the delivered order, guarded on its stored status,
// then folds the duration into the route statistics.
func completeDelivery(
	ctx context.Context,
	orders repository.OrderRepository,
	routes repository.RouteRepository,
	order *domain.Order,
	actualMinutes int,
) (*domain.Route, error) {
	if err := orders.Complete(ctx, order); err != nil {
		return nil, err
	}
	return routes.RecordCompletion(ctx, order.RouteID, actualMinutes)
}

func (s *OrderService) save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	order.UpdatedAt = time.Now()
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
