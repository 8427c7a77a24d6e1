package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"travel_booking/internal/domain"
)

// Report summarises one reconciliation pass.
type Report struct {
	Hotels       int   `json:"hotels"`
	Destinations int   `json:"destinations"`
	Dangling     int   `json:"dangling"`
	Deactivated  int64 `json:"deactivated"`
}

// ReconcileService finds active hotels whose destination has been deleted
// and marks them inactive. Their destinationId is kept as is.
type ReconcileService struct {
	hotels       domain.HotelRepository
	destinations domain.DestinationRepository
	workers      int
	rl           *rate.Limiter
}

func NewReconcileService(h domain.HotelRepository, d domain.DestinationRepository, workers, rps int) *ReconcileService {
	if workers <= 0 {
		workers = 1
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &ReconcileService{
		hotels:       h,
		destinations: d,
		workers:      workers,
		rl:           rate.NewLimiter(limit, max(rps, 1)),
	}
}

func (s *ReconcileService) Run(ctx context.Context) (Report, error) {
	hs, err := s.hotels.ListHotels(ctx, domain.HotelsQuery{ActiveOnly: true})
	if err != nil {
		return Report{}, err
	}
	rep := Report{Hotels: len(hs)}

	byDest := make(map[string][]string)
	for _, h := range hs {
		byDest[h.DestinationID] = append(byDest[h.DestinationID], h.ID)
	}
	rep.Destinations = len(byDest)

	missing, err := s.missingDestinations(ctx, byDest)
	if err != nil {
		return rep, err
	}

	var dangling []string
	for _, destID := range missing {
		ids := byDest[destID]
		log.Info().Str("destination_id", destID).Int("hotels", len(ids)).Msg("dangling destination reference")
		dangling = append(dangling, ids...)
	}
	rep.Dangling = len(dangling)
	if len(dangling) == 0 {
		return rep, nil
	}

	n, err := s.hotels.DeactivateHotels(ctx, dangling)
	if err != nil {
		return rep, fmt.Errorf("deactivate %d hotels: %w", len(dangling), err)
	}
	rep.Deactivated = n
	return rep, nil
}

// missingDestinations checks each destination id with bounded concurrency
// and a request rate cap, returning the ids that no longer resolve.
func (s *ReconcileService) missingDestinations(ctx context.Context, byDest map[string][]string) ([]string, error) {
	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		missing  []string
		firstErr error
	)

	for destID := range byDest {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.rl.Wait(ctx); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			_, err := s.destinations.GetDestination(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, domain.ErrNotFound):
				missing = append(missing, id)
			case err != nil && firstErr == nil:
				firstErr = err
			}
		}(destID)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return missing, nil
}
