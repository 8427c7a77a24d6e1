package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"travel_booking/internal/domain"
	"travel_booking/internal/storage/memory"
)

// ---- fakes ----

type fakeCache struct {
	mu   sync.Mutex
	m    map[string][]byte
	gets int
	hits int
	dels []string
	err  error
}

func newFakeCache() *fakeCache { return &fakeCache{m: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.m[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	b, _ := json.Marshal(v)
	c.m[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels = append(c.dels, key)
	delete(c.m, key)
	return c.err
}

// countingStore counts destination reads on top of the memory store.
type countingStore struct {
	*memory.Store
	mu    sync.Mutex
	reads int
}

func (s *countingStore) GetDestination(ctx context.Context, id string) (domain.Destination, error) {
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	return s.Store.GetDestination(ctx, id)
}

// ---- helpers ----

func ptr[T any](v T) *T { return &v }

func kyoto() domain.DestinationInput {
	return domain.DestinationInput{
		Name:        "  Kyoto ",
		Country:     "Japan",
		Description: "Temples and gardens",
		Coordinates: domain.CoordinatesInput{Latitude: ptr(35.0), Longitude: ptr(135.7)},
	}
}

func sakura(destID string) domain.HotelInput {
	return domain.HotelInput{
		Name:          "Sakura Inn",
		DestinationID: destID,
		Address:       "1 Temple Rd",
		PricePerNight: ptr(120.0),
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
	out := make(map[string]string, len(ve.Fields))
	for _, f := range ve.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// slowStore holds destination reads until release is closed, failing them
// early if their context ends first.
type slowStore struct {
	*memory.Store
	entered chan struct{}
	release chan struct{}
}

func newSlowStore() *slowStore {
	return &slowStore{Store: memory.New(), entered: make(chan struct{}, 8), release: make(chan struct{})}
}

func (s *slowStore) GetDestination(ctx context.Context, id string) (domain.Destination, error) {
	s.entered <- struct{}{}
	select {
	case <-s.release:
		return s.Store.GetDestination(ctx, id)
	case <-ctx.Done():
		return domain.Destination{}, ctx.Err()
	}
}
