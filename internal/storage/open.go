// Package storage selects the Destination/Hotel store implementation.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"travel_booking/internal/domain"
	"travel_booking/internal/shared"
	"travel_booking/internal/storage/memory"
	mongorepo "travel_booking/internal/storage/mongo"
)

type Store interface {
	domain.DestinationRepository
	domain.HotelRepository
	domain.Pinger
}

// Open connects the store named by cfg.StoreDriver. The returned close
// function releases the connection.
func Open(ctx context.Context, cfg shared.Config) (Store, func(context.Context) error, error) {
	if cfg.StoreDriver == "memory" {
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return memory.New(), func(context.Context) error { return nil }, nil
	}

	cctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	client, err := mongorepo.Connect(cctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	st := mongorepo.New(client.Database(cfg.MongoDB))
	if err := st.EnsureIndexes(cctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ensuring indexes: %w", err)
	}
	log.Info().Str("database", cfg.MongoDB).Msg("mongodb connection ok")
	return st, client.Disconnect, nil
}
