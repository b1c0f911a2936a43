package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"logistics/internal/domain"
	"logistics/internal/repository"
)

// RouteService handles route operations.
type RouteService struct {
	routeRepo repository.RouteRepository
}

// NewRouteService creates a new RouteService.
func NewRouteService(routeRepo repository.RouteRepository) *RouteService {
	return &RouteService{routeRepo: routeRepo}
}

// RouteInput contains the fields of a route that can be set by callers.
type RouteInput struct {
	ID              string              `validate:"omitempty,max=64"` // Optional on create: generated when empty
	DistanceKm      float64             `validate:"gte=0.1,lte=1000"`
	TrafficLevel    domain.TrafficLevel `validate:"required,oneof=Low Medium High"`
	BaseTimeMinutes int                 `validate:"gte=1,lte=1440"`
	FuelCostPerKm   *float64            `validate:"omitempty,gte=0"` // Optional: defaults to domain.DefaultFuelCostPerKm
	TollCharges     float64             `validate:"gte=0"`
}

// Create adds a new route.
func (s *RouteService) Create(ctx context.Context, in RouteInput) (*domain.Route, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}

	fuelCost := domain.DefaultFuelCostPerKm
	if in.FuelCostPerKm != nil {
		fuelCost = *in.FuelCostPerKm
	}

	now := time.Now()
	route := &domain.Route{
		ID:              id,
		DistanceKm:      in.DistanceKm,
		TrafficLevel:    in.TrafficLevel,
		BaseTimeMinutes: in.BaseTimeMinutes,
		FuelCostPerKm:   fuelCost,
		TollCharges:     in.TollCharges,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

// Get retrieves a route by ID.
func (s *RouteService) Get(ctx context.Context, id string) (*domain.Route, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	return s.routeRepo.GetByID(ctx, id)
}

// List returns all routes.
func (s *RouteService) List(ctx context.Context) ([]*domain.Route, error) {
	return s.routeRepo.GetAll(ctx)
}

// Update replaces the configurable fields of a route. Completion statistics
// are kept.
func (s *RouteService) Update(ctx context.Context, id string, in RouteInput) (*domain.Route, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	route, err := s.routeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	route.DistanceKm = in.DistanceKm
	route.TrafficLevel = in.TrafficLevel
	route.BaseTimeMinutes = in.BaseTimeMinutes
	if in.FuelCostPerKm != nil {
		route.FuelCostPerKm = *in.FuelCostPerKm
	}
	route.TollCharges = in.TollCharges
	route.UpdatedAt = time.Now()

	if err := s.routeRepo.Update(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

// Delete removes a route. Routes referenced by orders cannot be removed.
func (s *RouteService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	return s.routeRepo.Delete(ctx, id)
}
