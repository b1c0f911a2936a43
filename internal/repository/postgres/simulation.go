package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"logistics/internal/domain"
)

// SimulationRepository is a PostgreSQL implementation of repository.SimulationRepository.
type SimulationRepository struct {
	db *sql.DB
}

// NewSimulationRepository creates a new PostgreSQL simulation repository.
func NewSimulationRepository(db *sql.DB) *SimulationRepository {
	return &SimulationRepository{db: db}
}

// Save persists a completed run with its result as JSONB.
func (r *SimulationRepository) Save(ctx context.Context, run *domain.SimulationRun) error {
	return insertRun(ctx, r.db, run)
}

// GetLatest returns the most recent run.
func (r *SimulationRepository) GetLatest(ctx context.Context) (*domain.SimulationRun, error) {
	query := `SELECT id, result, committed, created_at FROM simulation_runs ORDER BY created_at DESC LIMIT 1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query))
	if err != nil {
		return nil, mapError(err)
	}
	return run, nil
}

// List returns up to limit runs, newest first.
func (r *SimulationRepository) List(ctx context.Context, limit int) ([]*domain.SimulationRun, error) {
	query := `SELECT id, result, committed, created_at FROM simulation_runs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.SimulationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CommitAssignments inserts the run as committed, assigns its orders and
// writes the drivers' new shift hours in one transaction. Orders that are no
// longer pending abort the commit and leave no trace of the run.
func (r *SimulationRepository) CommitAssignments(ctx context.Context, run *domain.SimulationRun, assignments []domain.Assignment, shiftHours map[string]float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Create transaction-scoped repositories.
	txOrderRepo := NewOrderRepositoryWithTx(tx)
	txDriverRepo := NewDriverRepositoryWithTx(tx)

	committed := *run
	committed.Committed = true
	if err = insertRun(ctx, tx, &committed); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}

	for _, a := range assignments {
		if err = txOrderRepo.assign(ctx, a.OrderID, a.DriverID); err != nil {
			return fmt.Errorf("assign order %s: %w", a.OrderID, err)
		}
	}

	for driverID, hours := range shiftHours {
		if err = txDriverRepo.UpdateShiftHours(ctx, driverID, hours); err != nil {
			return fmt.Errorf("update shift hours of driver %s: %w", driverID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	run.Committed = true
	return nil
}

func insertRun(ctx context.Context, q Querier, run *domain.SimulationRun) error {
	data, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("encode simulation result: %w", err)
	}

	query := `INSERT INTO simulation_runs (id, result, committed, created_at) VALUES ($1, $2, $3, $4)`
	_, err = q.ExecContext(ctx, query, run.ID, data, run.Committed, run.CreatedAt)
	return err
}

func scanRun(row rowScanner) (*domain.SimulationRun, error) {
	var run domain.SimulationRun
	var data []byte
	if err := row.Scan(&run.ID, &data, &run.Committed, &run.CreatedAt); err != nil {
		return nil, err
	}

	var result domain.SimulationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode simulation result %s: %w", run.ID, err)
	}
	run.Result = &result
	return &run, nil
}
