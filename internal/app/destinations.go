package app

import (
	"context"
	"time"

	"travel_booking/internal/domain"
)

type DestinationService struct {
	repo   domain.DestinationRepository
	lookup *destinationLookup
}

// NewDestinationService wires the store and an optional cache (nil disables caching).
func NewDestinationService(r domain.DestinationRepository, c domain.Cache, ttl time.Duration) *DestinationService {
	return &DestinationService{repo: r, lookup: newDestinationLookup(r, c, ttl)}
}

// List returns all destinations ordered by name.
func (s *DestinationService) List(ctx context.Context) ([]domain.Destination, error) {
	ds, err := s.repo.ListDestinations(ctx)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		ds = []domain.Destination{}
	}
	return ds, nil
}

func (s *DestinationService) Get(ctx context.Context, id string) (domain.Destination, error) {
	return s.lookup.get(ctx, id)
}

func (s *DestinationService) Create(ctx context.Context, in domain.DestinationInput) (domain.Destination, error) {
	if err := validateDestination(&in); err != nil {
		return domain.Destination{}, err
	}
	return s.repo.InsertDestination(ctx, in.NewDestination())
}

// Update validates in like Create and overwrites only the fields it carries.
func (s *DestinationService) Update(ctx context.Context, id string, in domain.DestinationInput) (domain.Destination, error) {
	if err := validateDestination(&in); err != nil {
		return domain.Destination{}, err
	}
	d, err := s.repo.UpdateDestination(ctx, id, in.Patch())
	if err != nil {
		return domain.Destination{}, err
	}
	s.lookup.forget(ctx, id)
	return d, nil
}

// Delete removes the destination. Hotels pointing at it are left as they
// are; see ReconcileService for how dangling references are handled.
func (s *DestinationService) Delete(ctx context.Context, id string) (domain.Destination, error) {
	d, err := s.repo.DeleteDestination(ctx, id)
	if err != nil {
		return domain.Destination{}, err
	}
	s.lookup.forget(ctx, id)
	return d, nil
}
