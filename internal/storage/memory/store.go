// Package memory keeps destinations and hotels in process memory. It has the
// same ordering, partial-update and not-found semantics as the MongoDB store
// and backs local runs (STORE_DRIVER=memory) and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel_booking/internal/domain"
)

type Store struct {
	mu           sync.RWMutex
	destinations map[string]domain.Destination
	hotels       map[string]domain.Hotel
	now          func() time.Time
}

func New() *Store {
	return &Store{
		destinations: make(map[string]domain.Destination),
		hotels:       make(map[string]domain.Hotel),
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}

// canonicalID lowercases a hex ObjectID the way the driver does. Other
// strings are returned unchanged and never match a stored record.
func canonicalID(id string) string {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return id
	}
	return oid.Hex()
}

func copyDestination(d domain.Destination) domain.Destination {
	d.PopularAttractions = append([]domain.Attraction{}, d.PopularAttractions...)
	d.Extra = domain.CloneExtra(d.Extra)
	return d
}

func copyHotel(h domain.Hotel) domain.Hotel {
	rcs := make([]domain.RoomCategory, len(h.RoomCategories))
	for i, rc := range h.RoomCategories {
		rc.Amenities = append([]string{}, rc.Amenities...)
		rcs[i] = rc
	}
	h.RoomCategories = rcs
	h.HotelAmenities = append([]string{}, h.HotelAmenities...)
	h.NearbyLandmarks = append([]domain.Landmark{}, h.NearbyLandmarks...)
	h.NearbyAttractions = append([]domain.NearbyAttraction{}, h.NearbyAttractions...)
	h.ImageGallery = append([]string{}, h.ImageGallery...)
	h.Extra = domain.CloneExtra(h.Extra)
	return h
}

// ---- destinations ----

func (s *Store) ListDestinations(_ context.Context) ([]domain.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Destination, 0, len(s.destinations))
	for _, d := range s.destinations {
		out = append(out, copyDestination(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetDestination(_ context.Context, id string) (domain.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id = canonicalID(id)
	d, ok := s.destinations[id]
	if !ok {
		return domain.Destination{}, notFound("destination", id)
	}
	return copyDestination(d), nil
}

func (s *Store) FindDestinations(_ context.Context, ids []string) ([]domain.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Destination, 0, len(ids))
	for _, id := range ids {
		if d, ok := s.destinations[canonicalID(id)]; ok {
			out = append(out, copyDestination(d))
		}
	}
	return out, nil
}

func (s *Store) InsertDestination(_ context.Context, d domain.Destination) (domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d = copyDestination(d)
	d.ID = primitive.NewObjectID().Hex()
	d.CreatedAt = s.now()
	d.UpdatedAt = d.CreatedAt
	s.destinations[d.ID] = d
	return copyDestination(d), nil
}

func (s *Store) UpdateDestination(_ context.Context, id string, p domain.DestinationPatch) (domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id = canonicalID(id)
	d, ok := s.destinations[id]
	if !ok {
		return domain.Destination{}, notFound("destination", id)
	}
	d = copyDestination(d)
	p.Apply(&d)
	d.UpdatedAt = s.now()
	s.destinations[id] = d
	return copyDestination(d), nil
}

func (s *Store) DeleteDestination(_ context.Context, id string) (domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id = canonicalID(id)
	d, ok := s.destinations[id]
	if !ok {
		return domain.Destination{}, notFound("destination", id)
	}
	delete(s.destinations, id)
	return d, nil
}

// ---- hotels ----

func (s *Store) ListHotels(_ context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Hotel, 0, len(s.hotels))
	for _, h := range s.hotels {
		if q.DestinationID != nil && h.DestinationID != canonicalID(*q.DestinationID) {
			continue
		}
		if q.ActiveOnly && !h.IsActive {
			continue
		}
		out = append(out, copyHotel(h))
	}
	sort.Slice(out, func(i, j int) bool { return hotelLess(q.Sort, out[i], out[j]) })
	return out, nil
}

func hotelLess(by domain.HotelSort, a, b domain.Hotel) bool {
	if by == domain.SortByRating {
		if a.StarRating != b.StarRating {
			return a.StarRating > b.StarRating
		}
		if a.GuestRating != b.GuestRating {
			return a.GuestRating > b.GuestRating
		}
		return a.ID < b.ID
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

func (s *Store) GetHotel(_ context.Context, id string) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id = canonicalID(id)
	h, ok := s.hotels[id]
	if !ok {
		return domain.Hotel{}, notFound("hotel", id)
	}
	return copyHotel(h), nil
}

func (s *Store) InsertHotel(_ context.Context, h domain.Hotel) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h = copyHotel(h)
	h.ID = primitive.NewObjectID().Hex()
	h.DestinationID = canonicalID(h.DestinationID)
	h.CreatedAt = s.now()
	h.UpdatedAt = h.CreatedAt
	s.hotels[h.ID] = h
	return copyHotel(h), nil
}

func (s *Store) UpdateHotel(_ context.Context, id string, p domain.HotelPatch) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id = canonicalID(id)
	h, ok := s.hotels[id]
	if !ok {
		return domain.Hotel{}, notFound("hotel", id)
	}
	h = copyHotel(h)
	p.Apply(&h)
	h.DestinationID = canonicalID(h.DestinationID)
	h.UpdatedAt = s.now()
	s.hotels[id] = h
	return copyHotel(h), nil
}

func (s *Store) DeleteHotel(_ context.Context, id string) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id = canonicalID(id)
	h, ok := s.hotels[id]
	if !ok {
		return domain.Hotel{}, notFound("hotel", id)
	}
	delete(s.hotels, id)
	return h, nil
}

func (s *Store) DeactivateHotels(_ context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := s.now()
	for _, id := range ids {
		id = canonicalID(id)
		h, ok := s.hotels[id]
		if !ok || !h.IsActive {
			continue
		}
		h.IsActive = false
		h.UpdatedAt = now
		s.hotels[id] = h
		n++
	}
	return n, nil
}
