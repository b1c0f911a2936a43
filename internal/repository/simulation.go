package repository

import (
	"context"

	"logistics/internal/domain"
)

// SimulationRepository persists simulation runs.
type SimulationRepository interface {
	// Save persists a completed run.
	Save(ctx context.Context, run *domain.SimulationRun) error

	// GetLatest returns the most recent run, or ErrNotFound.
	GetLatest(ctx context.Context) (*domain.SimulationRun, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*domain.SimulationRun, error)

	// CommitAssignments stores the run as committed and applies its
	// assignments to orders and drivers in one transaction. Nothing is
	// stored when any step fails.
	CommitAssignments(ctx context.Context, run *domain.SimulationRun, assignments []domain.Assignment, shiftHours map[string]float64) error
}
