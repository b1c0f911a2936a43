package postgres

import (
	"context"
	"database/sql"

	"logistics/internal/domain"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `id, name, rating, hourly_rate, status, current_shift_hours, created_at, updated_at`

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (` + driverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Rating,
		driver.HourlyRate,
		driver.Status,
		driver.CurrentShiftHours,
		driver.CreatedAt,
		driver.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return driver, nil
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY name, id`
	return r.list(ctx, query)
}

// ListEligible returns up to limit active drivers, least worked first and
// then highest rated first.
func (r *DriverRepository) ListEligible(ctx context.Context, limit int) ([]*domain.Driver, error) {
	query := `
		SELECT ` + driverColumns + `
		FROM drivers
		WHERE status = $1
		ORDER BY current_shift_hours ASC, rating DESC, created_at ASC
		LIMIT $2
	`
	return r.list(ctx, query, domain.DriverStatusActive, limit)
}

// Update replaces the mutable fields of a driver.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	query := `
		UPDATE drivers
		SET name = $1, rating = $2, hourly_rate = $3, status = $4, current_shift_hours = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.q.ExecContext(ctx, query,
		driver.Name,
		driver.Rating,
		driver.HourlyRate,
		driver.Status,
		driver.CurrentShiftHours,
		driver.UpdatedAt,
		driver.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

// UpdateShiftHours sets the hours a driver has worked in the current shift.
func (r *DriverRepository) UpdateShiftHours(ctx context.Context, id string, hours float64) error {
	query := `UPDATE drivers SET current_shift_hours = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, hours, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// Delete removes a driver.
func (r *DriverRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

func (r *DriverRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Driver, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var driver domain.Driver
	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Rating,
		&driver.HourlyRate,
		&driver.Status,
		&driver.CurrentShiftHours,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &driver, nil
}
