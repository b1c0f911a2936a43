package postgres

import (
	"context"
	"database/sql"

	"logistics/internal/domain"
)

// RouteRepository is a PostgreSQL implementation of repository.RouteRepository.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

// NewRouteRepositoryWithTx creates a route repository using a transaction.
func NewRouteRepositoryWithTx(tx *sql.Tx) *RouteRepository {
	return &RouteRepository{q: tx}
}

const routeColumns = `id, distance_km, traffic_level, base_time_minutes, fuel_cost_per_km, toll_charges,
	total_completions, average_completion_time, created_at, updated_at`

// Create persists a new route.
func (r *RouteRepository) Create(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO routes (` + routeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.q.ExecContext(ctx, query,
		route.ID,
		route.DistanceKm,
		route.TrafficLevel,
		route.BaseTimeMinutes,
		route.FuelCostPerKm,
		route.TollCharges,
		route.TotalCompletions,
		route.AverageCompletionTime,
		route.CreatedAt,
		route.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a route by ID.
func (r *RouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`

	var route domain.Route
	if err := scanRoute(r.q.QueryRowContext(ctx, query, id), &route); err != nil {
		return nil, mapError(err)
	}
	return &route, nil
}

// GetAll retrieves all routes.
func (r *RouteRepository) GetAll(ctx context.Context) ([]*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes ORDER BY created_at, id`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*domain.Route
	for rows.Next() {
		var route domain.Route
		if err := scanRoute(rows, &route); err != nil {
			return nil, err
		}
		routes = append(routes, &route)
	}
	return routes, rows.Err()
}

// Update updates an existing route, completion statistics included.
func (r *RouteRepository) Update(ctx context.Context, route *domain.Route) error {
	query := `
		UPDATE routes
		SET distance_km = $1, traffic_level = $2, base_time_minutes = $3, fuel_cost_per_km = $4,
			toll_charges = $5, total_completions = $6, average_completion_time = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := r.q.ExecContext(ctx, query,
		route.DistanceKm,
		route.TrafficLevel,
		route.BaseTimeMinutes,
		route.FuelCostPerKm,
		route.TollCharges,
		route.TotalCompletions,
		route.AverageCompletionTime,
		route.UpdatedAt,
		route.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

// RecordCompletion updates the completion statistics in place. Both SET
// expressions read the pre-update row, and the row lock serialises
// concurrent completions on the same route. The rounding matches
// domain.RoundHalfUp.
func (r *RouteRepository) RecordCompletion(ctx context.Context, id string, actualMinutes int) (*domain.Route, error) {
	query := `
		UPDATE routes
		SET average_completion_time = FLOOR(
				(average_completion_time::numeric * total_completions + $1) / (total_completions + 1) + 0.5
			)::integer,
			total_completions = total_completions + 1,
			updated_at = NOW()
		WHERE id = $2
		RETURNING ` + routeColumns

	var route domain.Route
	if err := scanRoute(r.q.QueryRowContext(ctx, query, actualMinutes, id), &route); err != nil {
		return nil, mapError(err)
	}
	return &route, nil
}

// Delete removes a route. Routes still referenced by orders return ErrInUse.
func (r *RouteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

func scanRoute(row rowScanner, route *domain.Route) error {
	return row.Scan(
		&route.ID,
		&route.DistanceKm,
		&route.TrafficLevel,
		&route.BaseTimeMinutes,
		&route.FuelCostPerKm,
		&route.TollCharges,
		&route.TotalCompletions,
		&route.AverageCompletionTime,
		&route.CreatedAt,
		&route.UpdatedAt,
	)
}
