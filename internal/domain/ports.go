package domain

import "context"

type DestinationRepository interface {
	// ListDestinations returns every destination ordered by name ascending.
	ListDestinations(ctx context.Context) ([]Destination, error)
	GetDestination(ctx context.Context, id string) (Destination, error)
	// FindDestinations returns the destinations among ids that exist, in no
	// particular order. Unknown or malformed ids are skipped.
	FindDestinations(ctx context.Context, ids []string) ([]Destination, error)
	InsertDestination(ctx context.Context, d Destination) (Destination, error)
	UpdateDestination(ctx context.Context, id string, p DestinationPatch) (Destination, error)
	DeleteDestination(ctx context.Context, id string) (Destination, error)
}

type HotelRepository interface {
	ListHotels(ctx context.Context, q HotelsQuery) ([]Hotel, error)
	GetHotel(ctx context.Context, id string) (Hotel, error)
	InsertHotel(ctx context.Context, h Hotel) (Hotel, error)
	UpdateHotel(ctx context.Context, id string, p HotelPatch) (Hotel, error)
	DeleteHotel(ctx context.Context, id string) (Hotel, error)
	// DeactivateHotels sets isActive=false on the given hotels and reports
	// how many were changed.
	DeactivateHotels(ctx context.Context, ids []string) (int64, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HotelSort int

const (
	// SortByName orders hotels by name ascending.
	SortByName HotelSort = iota
	// SortByRating orders by starRating then guestRating, both descending.
	SortByRating
)

type HotelsQuery struct {
	DestinationID *string
	ActiveOnly    bool
	Sort          HotelSort
}
