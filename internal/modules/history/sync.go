package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// defaultLookback bounds the initial fetch when a symbol has no stored
// history yet.
const defaultLookback = 30 * 365 * 24 * time.Hour

// SyncService pulls daily prices from a provider into the store. Retrieval
// happens here, once, before any backtest evaluation begins; the engines
// never block on external I/O.
type SyncService struct {
	store    *Store
	provider Provider
	log      zerolog.Logger
}

// NewSyncService creates a sync service.
func NewSyncService(store *Store, provider Provider, log zerolog.Logger) *SyncService {
	return &SyncService{
		store:    store,
		provider: provider,
		log:      log.With().Str("component", "history_sync").Logger(),
	}
}

// Sync fetches prices for a symbol from the day after the last stored date
// through today, and persists them. Returns the number of points saved.
func (s *SyncService) Sync(ctx context.Context, symbol string) (int, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)

	from := now.Add(-defaultLookback)
	last, err := s.store.LastDate(ctx, symbol)
	switch {
	case err == nil:
		from = last.AddDate(0, 0, 1)
	case errors.Is(err, ErrNoHistory):
		// First sync for this symbol, use the full lookback.
	default:
		return 0, err
	}

	if from.After(now) {
		s.log.Debug().Str("symbol", symbol).Msg("History already up to date")
		return 0, nil
	}

	points, err := s.provider.FetchDaily(ctx, symbol, from, now)
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %w", symbol, err)
	}
	if err := s.store.SavePoints(ctx, symbol, points); err != nil {
		return 0, err
	}

	s.log.Info().Str("symbol", symbol).Int("points", len(points)).Msg("History synced")
	return len(points), nil
}

// SyncAll syncs every symbol, logging failures and continuing: one broken
// feed must not starve the others.
func (s *SyncService) SyncAll(ctx context.Context, symbols []string) {
	for _, symbol := range symbols {
		if _, err := s.Sync(ctx, symbol); err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("Sync failed")
		}
	}
}
