// Package history stores and serves historical daily close prices. It is the
// opaque data source behind the backtest engine: a strictly time-ordered
// series of positive prices per symbol.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/autocall/internal/database"
	"github.com/aristath/autocall/internal/series"
)

// ErrNoHistory is returned when a symbol has no stored prices. Callers must
// get an explicit failure, never a silently empty series.
var ErrNoHistory = errors.New("no price history for symbol")

const dateLayout = "2006-01-02"

// Store persists daily close prices in SQLite.
type Store struct {
	db  *database.DB
	log zerolog.Logger
}

// NewStore creates a price store and ensures its schema exists.
func NewStore(db *database.DB, log zerolog.Logger) (*Store, error) {
	s := &Store{
		db:  db,
		log: log.With().Str("component", "history_store").Logger(),
	}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS daily_prices (
			symbol      TEXT NOT NULL,
			date        TEXT NOT NULL,
			close_price REAL NOT NULL CHECK (close_price > 0),
			PRIMARY KEY (symbol, date)
		);
		CREATE INDEX IF NOT EXISTS idx_daily_prices_symbol_date
			ON daily_prices (symbol, date);
	`
	if _, err := s.db.Conn().Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// SavePoints upserts daily prices for a symbol.
func (s *Store) SavePoints(ctx context.Context, symbol string, points []series.Point) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_prices (symbol, date, close_price)
		VALUES (?, ?, ?)
		ON CONFLICT (symbol, date) DO UPDATE SET close_price = excluded.close_price
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, symbol, p.Date.Format(dateLayout), p.Close); err != nil {
			return fmt.Errorf("failed to upsert price for %s at %s: %w",
				symbol, p.Date.Format(dateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prices: %w", err)
	}

	s.log.Debug().Str("symbol", symbol).Int("points", len(points)).Msg("Prices saved")
	return nil
}

// GetSeries returns the full ordered price series for a symbol.
// Returns ErrNoHistory when the symbol has no stored prices.
func (s *Store) GetSeries(ctx context.Context, symbol string) (*series.Series, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT date, close_price
		FROM daily_prices
		WHERE symbol = ?
		ORDER BY date ASC
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	var points []series.Point
	for rows.Next() {
		var dateStr string
		var closePrice float64
		if err := rows.Scan(&dateStr, &closePrice); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid stored date %q for %s: %w", dateStr, symbol, err)
		}
		points = append(points, series.Point{Date: date, Close: closePrice})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices for %s: %w", symbol, err)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHistory, symbol)
	}
	return series.New(points)
}

// Meta describes the stored range for a symbol.
type Meta struct {
	Symbol string    `json:"symbol"`
	First  time.Time `json:"first"`
	Last   time.Time `json:"last"`
	Count  int       `json:"count"`
}

// GetMeta returns the stored date range and point count for a symbol.
func (s *Store) GetMeta(ctx context.Context, symbol string) (*Meta, error) {
	var first, last string
	var count int
	err := s.db.Conn().QueryRowContext(ctx, `
		SELECT MIN(date), MAX(date), COUNT(*)
		FROM daily_prices
		WHERE symbol = ?
	`, symbol).Scan(&first, &last, &count)
	if err != nil || count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHistory, symbol)
	}

	firstDate, err := time.Parse(dateLayout, first)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", first, err)
	}
	lastDate, err := time.Parse(dateLayout, last)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", last, err)
	}

	return &Meta{Symbol: symbol, First: firstDate, Last: lastDate, Count: count}, nil
}

// LastDate returns the most recent stored date for a symbol, or ErrNoHistory.
func (s *Store) LastDate(ctx context.Context, symbol string) (time.Time, error) {
	meta, err := s.GetMeta(ctx, symbol)
	if err != nil {
		return time.Time{}, err
	}
	return meta.Last, nil
}
