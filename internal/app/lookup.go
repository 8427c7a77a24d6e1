package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"travel_booking/internal/domain"
)

// fetchTimeout bounds a shared store read once it is detached from the
// request that started it.
const fetchTimeout = 10 * time.Second

func destinationKey(id string) string { return "destination:" + id }

// destinationLookup is a read-through cache over DestinationRepository.GetDestination.
// Concurrent misses for the same id share one store round trip.
type destinationLookup struct {
	repo     domain.DestinationRepository
	cache    domain.Cache
	cacheTTL time.Duration
	group    singleflight.Group
}

func newDestinationLookup(r domain.DestinationRepository, c domain.Cache, ttl time.Duration) *destinationLookup {
	return &destinationLookup{repo: r, cache: c, cacheTTL: ttl}
}

func (l *destinationLookup) get(ctx context.Context, id string) (domain.Destination, error) {
	key := destinationKey(id)
	if l.cache != nil {
		var d domain.Destination
		ok, err := l.cache.Get(ctx, key, &d)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		if ok && err == nil {
			return d, nil
		}
	}

	// The shared fetch outlives any single caller: one request going away
	// must not fail the others waiting on the same id.
	ch := l.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		d, err := l.repo.GetDestination(fctx, id)
		if err != nil {
			return domain.Destination{}, err
		}
		if l.cache != nil {
			if err := l.cache.Set(fctx, key, d, int(l.cacheTTL.Seconds())); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("cache set failed")
			}
		}
		return d, nil
	})
	select {
	case <-ctx.Done():
		return domain.Destination{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Destination{}, res.Err
		}
		return res.Val.(domain.Destination), nil
	}
}

func (l *destinationLookup) forget(ctx context.Context, id string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Del(ctx, destinationKey(id)); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("cache delete failed")
	}
}
