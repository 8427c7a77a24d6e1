package app

import (
	"context"
	"errors"
	"time"

	"travel_booking/internal/domain"
)

const destinationNotFound = "Destination not found"

type HotelService struct {
	hotels       domain.HotelRepository
	destinations domain.DestinationRepository
	lookup       *destinationLookup
}

func NewHotelService(h domain.HotelRepository, d domain.DestinationRepository, c domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{hotels: h, destinations: d, lookup: newDestinationLookup(d, c, ttl)}
}

// List returns hotels ordered by name, optionally restricted to one
// destination, each with its destination's name and country attached.
func (s *HotelService) List(ctx context.Context, destinationID string) ([]domain.HotelView, error) {
	q := domain.HotelsQuery{Sort: domain.SortByName}
	if destinationID != "" {
		q.DestinationID = &destinationID
	}
	hs, err := s.hotels.ListHotels(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, hs)
}

// ListForDestination returns the hotels of one destination, highest star
// rating first and guest rating breaking ties.
func (s *HotelService) ListForDestination(ctx context.Context, destinationID string) ([]domain.HotelView, error) {
	hs, err := s.hotels.ListHotels(ctx, domain.HotelsQuery{DestinationID: &destinationID, Sort: domain.SortByRating})
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, hs)
}

// Get returns one hotel with name, country, description and coordinates of
// its destination.
func (s *HotelService) Get(ctx context.Context, id string) (domain.HotelView, error) {
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelView{}, err
	}
	v := domain.HotelView{Hotel: h}
	d, err := s.lookup.get(ctx, h.DestinationID)
	switch {
	case err == nil:
		v.Destination = d.DetailedRef()
	case !errors.Is(err, domain.ErrNotFound):
		return domain.HotelView{}, err
	}
	return v, nil
}

// Create validates the fields first, then checks that the destination
// exists. The two failures are reported differently.
func (s *HotelService) Create(ctx context.Context, in domain.HotelInput) (domain.HotelView, error) {
	if err := validateHotel(&in); err != nil {
		return domain.HotelView{}, err
	}
	d, err := s.requireDestination(ctx, in.DestinationID)
	if err != nil {
		return domain.HotelView{}, err
	}
	h, err := s.hotels.InsertHotel(ctx, in.NewHotel())
	if err != nil {
		return domain.HotelView{}, err
	}
	return domain.HotelView{Hotel: h, Destination: d.Ref()}, nil
}

// Update re-checks the destination reference before anything is written, so
// a rejected update leaves the stored hotel untouched.
func (s *HotelService) Update(ctx context.Context, id string, in domain.HotelInput) (domain.HotelView, error) {
	if err := validateHotel(&in); err != nil {
		return domain.HotelView{}, err
	}
	var ref *domain.DestinationRef
	if in.DestinationID != "" {
		d, err := s.requireDestination(ctx, in.DestinationID)
		if err != nil {
			return domain.HotelView{}, err
		}
		ref = d.Ref()
	}
	h, err := s.hotels.UpdateHotel(ctx, id, in.Patch())
	if err != nil {
		return domain.HotelView{}, err
	}
	if ref == nil {
		vs, err := s.populate(ctx, []domain.Hotel{h})
		if err != nil {
			return domain.HotelView{}, err
		}
		return vs[0], nil
	}
	return domain.HotelView{Hotel: h, Destination: ref}, nil
}

func (s *HotelService) Delete(ctx context.Context, id string) (domain.Hotel, error) {
	return s.hotels.DeleteHotel(ctx, id)
}

func (s *HotelService) requireDestination(ctx context.Context, id string) (domain.Destination, error) {
	d, err := s.lookup.get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Destination{}, &domain.ValidationError{Message: destinationNotFound, Reference: id}
	}
	return d, err
}

// populate attaches {id, name, country} of each hotel's destination with a
// single batched lookup. Hotels whose destination is gone get a nil ref.
func (s *HotelService) populate(ctx context.Context, hs []domain.Hotel) ([]domain.HotelView, error) {
	out := make([]domain.HotelView, 0, len(hs))
	if len(hs) == 0 {
		return out, nil
	}
	seen := make(map[string]struct{}, len(hs))
	ids := make([]string, 0, len(hs))
	for _, h := range hs {
		if _, ok := seen[h.DestinationID]; ok {
			continue
		}
		seen[h.DestinationID] = struct{}{}
		ids = append(ids, h.DestinationID)
	}
	ds, err := s.destinations.FindDestinations(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Destination, len(ds))
	for _, d := range ds {
		byID[d.ID] = d
	}
	for _, h := range hs {
		v := domain.HotelView{Hotel: h}
		if d, ok := byID[h.DestinationID]; ok {
			v.Destination = d.Ref()
		}
		out = append(out, v)
	}
	return out, nil
}
