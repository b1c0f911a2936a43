package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"logistics/internal/domain"
	"logistics/internal/repository"
)

// DriverService handles driver operations.
type DriverService struct {
	driverRepo repository.DriverRepository
}

// NewDriverService creates a new DriverService.
func NewDriverService(driverRepo repository.DriverRepository) *DriverService {
	return &DriverService{driverRepo: driverRepo}
}

// DriverInput contains the fields of a driver that can be set by callers.
type DriverInput struct {
	ID                string              `validate:"omitempty,max=64"` // Optional on create: generated when empty
	Name              string              `validate:"required,max=100"`
	Rating            float64             `validate:"gte=1,lte=5"`
	HourlyRate        float64             `validate:"gte=0"`
	Status            domain.DriverStatus `validate:"omitempty,oneof=active inactive on-leave"` // Optional: defaults to active
	CurrentShiftHours float64             `validate:"gte=0,lte=24"`
}

// Create adds a new driver.
func (s *DriverService) Create(ctx context.Context, in DriverInput) (*domain.Driver, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}

	status := in.Status
	if status == "" {
		status = domain.DriverStatusActive
	}

	now := time.Now()
	driver := &domain.Driver{
		ID:                id,
		Name:              in.Name,
		Rating:            in.Rating,
		HourlyRate:        in.HourlyRate,
		Status:            status,
		CurrentShiftHours: in.CurrentShiftHours,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// Get retrieves a driver by ID.
func (s *DriverService) Get(ctx context.Context, id string) (*domain.Driver, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	return s.driverRepo.GetByID(ctx, id)
}

// List returns all drivers.
func (s *DriverService) List(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.GetAll(ctx)
}

// Update replaces the mutable fields of a driver.
func (s *DriverService) Update(ctx context.Context, id string, in DriverInput) (*domain.Driver, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	driver.Name = in.Name
	driver.Rating = in.Rating
	driver.HourlyRate = in.HourlyRate
	if in.Status != "" {
		driver.Status = in.Status
	}
	driver.CurrentShiftHours = in.CurrentShiftHours
	driver.UpdatedAt = time.Now()

	if err := s.driverRepo.Update(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// Delete removes a driver. Drivers with assigned orders cannot be removed.
func (s *DriverService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	return s.driverRepo.Delete(ctx, id)
}
