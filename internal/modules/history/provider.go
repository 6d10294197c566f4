package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aristath/autocall/internal/series"
)

// Provider fetches daily close prices for a named index. Implementations
// must fail explicitly when data is unavailable, never return an empty
// series silently.
type Provider interface {
	FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]series.Point, error)
}

// CSVProvider reads seed data from <dataDir>/<symbol>.csv files with
// "date,close" rows. It stands in for a remote market-data feed in local and
// test environments.
type CSVProvider struct {
	dataDir string
}

// NewCSVProvider creates a provider reading from dataDir.
func NewCSVProvider(dataDir string) *CSVProvider {
	return &CSVProvider{dataDir: dataDir}
}

// FetchDaily reads the symbol's CSV file and returns points within [from, to].
func (p *CSVProvider) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]series.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.dataDir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("no data available for %s: %w", symbol, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var points []series.Point
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		date, err := time.Parse(dateLayout, row[0])
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("invalid date %q in %s: %w", row[0], path, err)
		}
		closePrice, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q in %s: %w", row[1], path, err)
		}
		if date.Before(from) || date.After(to) {
			continue
		}
		points = append(points, series.Point{Date: date, Close: closePrice})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("no data available for %s between %s and %s",
			symbol, from.Format(dateLayout), to.Format(dateLayout))
	}
	return points, nil
}
