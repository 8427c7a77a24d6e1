package memory_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_booking/internal/domain"
	"travel_booking/internal/storage/memory"
)

func ptr[T any](v T) *T { return &v }

func seedDestination(t *testing.T, s *memory.Store, name string) domain.Destination {
	t.Helper()
	d, err := s.InsertDestination(context.Background(), domain.Destination{Name: name, Country: "X", Description: "d"})
	require.NoError(t, err)
	return d
}

func TestDestinations_CRUD(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	b := seedDestination(t, s, "Bali")
	a := seedDestination(t, s, "Amsterdam")
	assert.Len(t, a.ID, 24)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)

	all, err := s.ListDestinations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Amsterdam", all[0].Name)
	assert.Equal(t, "Bali", all[1].Name)

	got, err := s.GetDestination(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	up, err := s.UpdateDestination(ctx, b.ID, domain.DestinationPatch{Currency: ptr("IDR")})
	require.NoError(t, err)
	assert.Equal(t, "IDR", up.Currency)
	assert.Equal(t, "Bali", up.Name)

	found, err := s.FindDestinations(ctx, []string{a.ID, "missing", "zzz"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	del, err := s.DeleteDestination(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amsterdam", del.Name)

	_, err = s.GetDestination(ctx, a.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = s.DeleteDestination(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.UpdateDestination(ctx, a.ID, domain.DestinationPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHotels_FilterAndSort(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	d1 := seedDestination(t, s, "Kyoto")
	d2 := seedDestination(t, s, "Osaka")

	insert := func(name, dest string, stars int, guest float64) domain.Hotel {
		h, err := s.InsertHotel(ctx, domain.Hotel{Name: name, DestinationID: dest, StarRating: stars, GuestRating: guest, IsActive: true})
		require.NoError(t, err)
		return h
	}
	insert("Cedar", d1.ID, 3, 4.9)
	insert("Alder", d1.ID, 5, 3.0)
	insert("Birch", d1.ID, 5, 4.5)
	insert("Dogwood", d2.ID, 4, 4.0)

	byName, err := s.ListHotels(ctx, domain.HotelsQuery{})
	require.NoError(t, err)
	require.Len(t, byName, 4)
	assert.Equal(t, []string{"Alder", "Birch", "Cedar", "Dogwood"}, names(byName))

	byRating, err := s.ListHotels(ctx, domain.HotelsQuery{DestinationID: &d1.ID, Sort: domain.SortByRating})
	require.NoError(t, err)
	assert.Equal(t, []string{"Birch", "Alder", "Cedar"}, names(byRating))

	none, err := s.ListHotels(ctx, domain.HotelsQuery{DestinationID: ptr("not-an-id")})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHotels_UpdateDeleteDeactivate(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	d := seedDestination(t, s, "Kyoto")

	h, err := s.InsertHotel(ctx, domain.Hotel{Name: "Sakura", DestinationID: d.ID, StarRating: 3, IsActive: true,
		HotelAmenities: []string{"wifi"}})
	require.NoError(t, err)

	up, err := s.UpdateHotel(ctx, h.ID, domain.HotelPatch{StarRating: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, up.StarRating)
	assert.Equal(t, []string{"wifi"}, up.HotelAmenities)
	assert.False(t, up.UpdatedAt.Before(up.CreatedAt))

	n, err := s.DeactivateHotels(ctx, []string{h.ID, "missing"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = s.DeactivateHotels(ctx, []string{h.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	active, err := s.ListHotels(ctx, domain.HotelsQuery{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = s.DeleteHotel(ctx, h.ID)
	require.NoError(t, err)
	_, err = s.GetHotel(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	d := seedDestination(t, s, "Kyoto")
	h, err := s.InsertHotel(ctx, domain.Hotel{Name: "Sakura", DestinationID: d.ID,
		HotelAmenities: []string{"wifi"}, Extra: map[string]any{"tags": []any{"a"}}})
	require.NoError(t, err)

	h.HotelAmenities[0] = "pool"
	h.Extra["tags"].([]any)[0] = "b"

	got, err := s.GetHotel(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"wifi"}, got.HotelAmenities)
	assert.Equal(t, []any{"a"}, got.Extra["tags"])
}

func names(hs []domain.Hotel) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Name)
	}
	return out
}

func TestStore_IDsAreCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	d := seedDestination(t, s, "Kyoto")
	upper := strings.ToUpper(d.ID)

	got, err := s.GetDestination(ctx, upper)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	found, err := s.FindDestinations(ctx, []string{upper})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	h, err := s.InsertHotel(ctx, domain.Hotel{Name: "Sakura", DestinationID: upper, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, d.ID, h.DestinationID)

	hs, err := s.ListHotels(ctx, domain.HotelsQuery{DestinationID: &upper})
	require.NoError(t, err)
	assert.Len(t, hs, 1)

	_, err = s.GetHotel(ctx, strings.ToUpper(h.ID))
	require.NoError(t, err)
	n, err := s.DeactivateHotels(ctx, []string{strings.ToUpper(h.ID)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.DeleteDestination(ctx, upper)
	require.NoError(t, err)
	_, err = s.GetDestination(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
