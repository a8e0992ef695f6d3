// Package store persists chat history behind a single capability
// interface with two backends: mongo when reachable, a bounded
// in-memory buffer otherwise.
package store

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/relaychat/relay/internal/config"
	"github.com/relaychat/relay/internal/domain"
)

// MessageStore is the persistence capability the session engine needs.
// Append failures are for the caller to absorb and log; LoadRecent
// errors reduce to an empty history upstream.
type MessageStore interface {
	Append(ctx context.Context, msg domain.ChatMessage) error
	LoadRecent(ctx context.Context) ([]domain.ChatMessage, error)
}

// Select picks the backend exactly once at startup. A configured mongo
// URI that cannot be reached falls back to the bounded in-memory store
// for the whole process lifetime; there is no mid-run re-selection.
func Select(ctx context.Context, cfg *config.Config) MessageStore {
	if cfg.MongoURI == "" {
		log.Info().Str("module", "store").Msg("no mongo_uri configured, keeping history in memory")
		return NewMemoryStore()
	}
	ms, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Warn().Err(err).Str("module", "store").Msg("mongo unavailable, falling back to in-memory history")
		return NewMemoryStore()
	}
	log.Info().Str("module", "store").Str("database", cfg.MongoDatabase).Msg("history backed by mongo")
	return ms
}
