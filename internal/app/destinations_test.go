package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_booking/internal/app"
	"travel_booking/internal/domain"
	"travel_booking/internal/storage/memory"
)

func TestDestinationService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc := app.NewDestinationService(memory.New(), nil, 0)

	in := kyoto()
	in.PopularAttractions = []domain.Attraction{{Name: "Fushimi Inari", Description: "Gates"}}
	in.Extra = map[string]any{"climate": "temperate"}

	d, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "Kyoto", d.Name)
	assert.Equal(t, domain.Coordinates{Latitude: 35.0, Longitude: 135.7}, d.Coordinates)
	assert.Equal(t, "", d.Currency)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, got)
	assert.Equal(t, "temperate", got.Extra["climate"])
}

func TestDestinationService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := app.NewDestinationService(memory.New(), nil, 0)

	_, err := svc.Create(ctx, domain.DestinationInput{Name: "   "})
	fields := fieldsOf(t, err)
	assert.Equal(t, "Destination name is required", fields["name"])
	assert.Equal(t, "Country is required", fields["country"])
	assert.Equal(t, "Description is required", fields["description"])
	assert.Equal(t, "Valid latitude is required", fields["coordinates.latitude"])
	assert.Equal(t, "Valid longitude is required", fields["coordinates.longitude"])

	for _, tc := range []struct {
		lat, lon float64
		field    string
	}{
		{90.5, 0, "coordinates.latitude"},
		{-91, 0, "coordinates.latitude"},
		{0, 180.01, "coordinates.longitude"},
		{0, -181, "coordinates.longitude"},
	} {
		in := kyoto()
		in.Coordinates = domain.CoordinatesInput{Latitude: ptr(tc.lat), Longitude: ptr(tc.lon)}
		_, err := svc.Create(ctx, in)
		assert.Contains(t, fieldsOf(t, err), tc.field)
	}

	in := kyoto()
	in.Coordinates = domain.CoordinatesInput{Latitude: ptr(90.0), Longitude: ptr(-180.0)}
	_, err = svc.Create(ctx, in)
	assert.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDestinationService_ListSortedByName(t *testing.T) {
	ctx := context.Background()
	svc := app.NewDestinationService(memory.New(), nil, 0)

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, n := range []string{"Rome", "Cairo", "Lima"} {
		in := kyoto()
		in.Name = n
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}
	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Cairo", all[0].Name)
	assert.Equal(t, "Lima", all[1].Name)
	assert.Equal(t, "Rome", all[2].Name)
}

func TestDestinationService_UpdateMerges(t *testing.T) {
	ctx := context.Background()
	svc := app.NewDestinationService(memory.New(), nil, 0)

	in := kyoto()
	in.Currency = ptr("JPY")
	in.PopularAttractions = []domain.Attraction{{Name: "Kinkaku-ji"}}
	d, err := svc.Create(ctx, in)
	require.NoError(t, err)

	up := kyoto()
	up.Description = "Updated"
	up.Language = ptr("Japanese")
	got, err := svc.Update(ctx, d.ID, up)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Description)
	assert.Equal(t, "Japanese", got.Language)
	assert.Equal(t, "JPY", got.Currency)
	assert.Len(t, got.PopularAttractions, 1)
	assert.Equal(t, d.CreatedAt, got.CreatedAt)

	_, err = svc.Update(ctx, "65f000000000000000000000", kyoto())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bad := kyoto()
	bad.Country = ""
	_, err = svc.Update(ctx, d.ID, bad)
	assert.Contains(t, fieldsOf(t, err), "country")
	again, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Japan", again.Country)
}

func TestDestinationService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := app.NewDestinationService(memory.New(), nil, 0)
	d, err := svc.Create(ctx, kyoto())
	require.NoError(t, err)

	del, err := svc.Delete(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, del.ID)

	_, err = svc.Get(ctx, d.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.Delete(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDestinationService_CacheReadThroughAndEviction(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memory.New()}
	cache := newFakeCache()
	svc := app.NewDestinationService(store, cache, time.Minute)

	d, err := svc.Create(ctx, kyoto())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := svc.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
	}
	assert.Equal(t, 1, store.reads)
	assert.Equal(t, 2, cache.hits)

	up := kyoto()
	up.Description = "Fresh"
	_, err = svc.Update(ctx, d.ID, up)
	require.NoError(t, err)
	assert.Contains(t, cache.dels, "destination:"+d.ID)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh", got.Description)
	assert.Equal(t, 2, store.reads)

	_, err = svc.Delete(ctx, d.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDestinationService_CacheErrorsFallThrough(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	cache.err = errors.New("redis down")
	svc := app.NewDestinationService(memory.New(), cache, time.Minute)

	d, err := svc.Create(ctx, kyoto())
	require.NoError(t, err)
	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	_, err = svc.Delete(ctx, d.ID)
	assert.NoError(t, err)
}

func TestDestinationService_CancelledCallerDoesNotFailOthers(t *testing.T) {
	store := newSlowStore()
	svc := app.NewDestinationService(store, nil, 0)
	d, err := svc.Create(context.Background(), kyoto())
	require.NoError(t, err)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctxA, d.ID)
		errA <- err
	}()
	<-store.entered

	type result struct {
		d   domain.Destination
		err error
	}
	resB := make(chan result, 1)
	go func() {
		got, err := svc.Get(context.Background(), d.ID)
		resB <- result{got, err}
	}()
	time.Sleep(20 * time.Millisecond) // let B join the in-flight read

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(store.release)
	select {
	case r := <-resB:
		require.NoError(t, r.err)
		assert.Equal(t, d.ID, r.d.ID)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
}
