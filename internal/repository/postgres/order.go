package postgres

import (
	"context"
	"database/sql"
	"time"

	"logistics/internal/domain"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

// orderSelect joins the assigned route so that a single query returns
// simulation-ready orders.
const orderSelect = `
	SELECT o.id, o.value_rs, o.route_id, o.assigned_driver_id, o.priority, o.status, o.is_high_value,
		o.scheduled_delivery_time, o.delivery_timestamp, o.actual_delivery_time, o.created_at, o.updated_at,
		r.id, r.distance_km, r.traffic_level, r.base_time_minutes, r.fuel_cost_per_km, r.toll_charges,
		r.total_completions, r.average_completion_time
	FROM orders o
	LEFT JOIN routes r ON r.id = o.route_id
`

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, value_rs, route_id, assigned_driver_id, priority, status, is_high_value,
			scheduled_delivery_time, delivery_timestamp, actual_delivery_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.ValueRs,
		nullString(order.RouteID),
		nullString(order.AssignedDriverID),
		order.Priority,
		order.Status,
		order.IsHighValue,
		order.ScheduledDeliveryTime,
		nullTime(order.DeliveryTimestamp),
		nullInt(order.ActualDeliveryTime),
		order.CreatedAt,
		order.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves an order by ID with its route populated.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(r.q.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// GetAll retrieves all orders, newest first.
func (r *OrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, orderSelect+` ORDER BY o.created_at DESC, o.id`)
}

// ListPendingWithRoutes returns pending orders in creation order.
func (r *OrderRepository) ListPendingWithRoutes(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, orderSelect+` WHERE o.status = $1 ORDER BY o.created_at ASC, o.id`, domain.OrderStatusPending)
}

// Update updates an existing order. The high-value flag is never rewritten.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET value_rs = $1, route_id = $2, assigned_driver_id = $3, priority = $4, status = $5,
			scheduled_delivery_time = $6, delivery_timestamp = $7, actual_delivery_time = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.q.ExecContext(ctx, query,
		order.ValueRs,
		nullString(order.RouteID),
		nullString(order.AssignedDriverID),
		order.Priority,
		order.Status,
		order.ScheduledDeliveryTime,
		nullTime(order.DeliveryTimestamp),
		nullInt(order.ActualDeliveryTime),
		order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

// Delete removes an order.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

// Complete writes a delivered or late order. The status guard makes two
// concurrent completions of the same order resolve to a single winner.
func (r *OrderRepository) Complete(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET value_rs = $1, route_id = $2, assigned_driver_id = $3, priority = $4, status = $5,
			scheduled_delivery_time = $6, delivery_timestamp = $7, actual_delivery_time = $8, updated_at = $9
		WHERE id = $10 AND status = $11
	`
	result, err := r.q.ExecContext(ctx, query,
		order.ValueRs,
		nullString(order.RouteID),
		nullString(order.AssignedDriverID),
		order.Priority,
		order.Status,
		order.ScheduledDeliveryTime,
		nullTime(order.DeliveryTimestamp),
		nullInt(order.ActualDeliveryTime),
		order.UpdatedAt,
		order.ID,
		domain.OrderStatusInProgress,
	)
	if err != nil {
		return mapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrOrderNotInProgress
	}
	return nil
}

// assign marks an order as assigned to a driver when it is still pending.
func (r *OrderRepository) assign(ctx context.Context, orderID, driverID string) error {
	query := `
		UPDATE orders SET assigned_driver_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	result, err := r.q.ExecContext(ctx, query, driverID, domain.OrderStatusAssigned, orderID, domain.OrderStatusPending)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var routeID, assignedDriverID sql.NullString
	var deliveryTimestamp sql.NullTime
	var actualDeliveryTime sql.NullInt64

	var rID, rTraffic sql.NullString
	var rDistance, rFuel, rToll sql.NullFloat64
	var rBaseTime, rCompletions, rAverage sql.NullInt64

	err := row.Scan(
		&order.ID,
		&order.ValueRs,
		&routeID,
		&assignedDriverID,
		&order.Priority,
		&order.Status,
		&order.IsHighValue,
		&order.ScheduledDeliveryTime,
		&deliveryTimestamp,
		&actualDeliveryTime,
		&order.CreatedAt,
		&order.UpdatedAt,
		&rID,
		&rDistance,
		&rTraffic,
		&rBaseTime,
		&rFuel,
		&rToll,
		&rCompletions,
		&rAverage,
	)
	if err != nil {
		return nil, err
	}

	if routeID.Valid {
		order.RouteID = routeID.String
	}
	if assignedDriverID.Valid {
		order.AssignedDriverID = assignedDriverID.String
	}
	if deliveryTimestamp.Valid {
		ts := deliveryTimestamp.Time
		order.DeliveryTimestamp = &ts
	}
	if actualDeliveryTime.Valid {
		minutes := int(actualDeliveryTime.Int64)
		order.ActualDeliveryTime = &minutes
	}
	if rID.Valid {
		order.Route = &domain.Route{
			ID:                    rID.String,
			DistanceKm:            rDistance.Float64,
			TrafficLevel:          domain.TrafficLevel(rTraffic.String),
			BaseTimeMinutes:       int(rBaseTime.Int64),
			FuelCostPerKm:         rFuel.Float64,
			TollCharges:           rToll.Float64,
			TotalCompletions:      int(rCompletions.Int64),
			AverageCompletionTime: int(rAverage.Int64),
		}
	}

	return &order, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
