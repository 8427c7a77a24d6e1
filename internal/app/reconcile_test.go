package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_booking/internal/app"
	"travel_booking/internal/domain"
)

func TestReconcile_DeactivatesDanglingHotels(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	keep := f.destination(t, "Kyoto")
	gone := f.destination(t, "Atlantis")

	var orphans []string
	for _, name := range []string{"A", "B"} {
		in := sakura(gone.ID)
		in.Name = name
		v, err := f.hotels.Create(ctx, in)
		require.NoError(t, err)
		orphans = append(orphans, v.ID)
	}
	kept, err := f.hotels.Create(ctx, sakura(keep.ID))
	require.NoError(t, err)

	_, err = f.destinations.Delete(ctx, gone.ID)
	require.NoError(t, err)

	rec := app.NewReconcileService(f.store, f.store, 2, 0)
	rep, err := rec.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, app.Report{Hotels: 3, Destinations: 2, Dangling: 2, Deactivated: 2}, rep)

	for _, id := range orphans {
		h, err := f.store.GetHotel(ctx, id)
		require.NoError(t, err)
		assert.False(t, h.IsActive)
		assert.Equal(t, gone.ID, h.DestinationID)
	}
	h, err := f.store.GetHotel(ctx, kept.ID)
	require.NoError(t, err)
	assert.True(t, h.IsActive)

	// a second pass only sees active hotels
	rep, err = rec.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, app.Report{Hotels: 1, Destinations: 1}, rep)
}

type failingDestinations struct {
	domain.DestinationRepository
}

func (failingDestinations) GetDestination(context.Context, string) (domain.Destination, error) {
	return domain.Destination{}, &domain.StoreError{Op: "destinations.get", Err: errors.New("connection reset")}
}

func TestReconcile_StoreErrorAbortsWithoutDeactivating(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	d := f.destination(t, "Kyoto")
	v, err := f.hotels.Create(ctx, sakura(d.ID))
	require.NoError(t, err)

	rec := app.NewReconcileService(f.store, failingDestinations{f.store}, 4, 100)
	_, err = rec.Run(ctx)
	var se *domain.StoreError
	require.True(t, errors.As(err, &se))

	h, err := f.store.GetHotel(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, h.IsActive)
}

func TestReconcile_CancelledContext(t *testing.T) {
	f := newFixture()
	d := f.destination(t, "Kyoto")
	_, err := f.hotels.Create(context.Background(), sakura(d.ID))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = app.NewReconcileService(f.store, f.store, 1, 1).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
