// Package series provides the time-indexed price series type shared by the
// backtest engine and the history store.
package series

import (
	"fmt"
	"sort"
	"time"
)

// Point is a single dated close price.
type Point struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Series is a strictly time-ordered sequence of positive prices.
// Read-only once constructed.
type Series struct {
	dates  []time.Time
	closes []float64
}

// New builds a Series from points, verifying strict date ordering and
// positive prices.
func New(points []Point) (*Series, error) {
	dates := make([]time.Time, len(points))
	closes := make([]float64, len(points))
	for i, p := range points {
		if p.Close <= 0 {
			return nil, fmt.Errorf("non-positive price %v at %s", p.Close, p.Date.Format("2006-01-02"))
		}
		if i > 0 && !points[i-1].Date.Before(p.Date) {
			return nil, fmt.Errorf("series dates not strictly increasing at %s", p.Date.Format("2006-01-02"))
		}
		dates[i] = p.Date
		closes[i] = p.Close
	}
	return &Series{dates: dates, closes: closes}, nil
}

// Len returns the number of points.
func (s *Series) Len() int { return len(s.dates) }

// Date returns the date at index i.
func (s *Series) Date(i int) time.Time { return s.dates[i] }

// Close returns the close price at index i.
func (s *Series) Close(i int) float64 { return s.closes[i] }

// First returns the earliest date in the series.
func (s *Series) First() time.Time { return s.dates[0] }

// Last returns the latest date in the series.
func (s *Series) Last() time.Time { return s.dates[len(s.dates)-1] }

// Closes returns the underlying price slice. Callers must not mutate it.
func (s *Series) Closes() []float64 { return s.closes }

// SearchDate returns the index of the first trading date on or after t,
// or Len() when no such date exists.
func (s *Series) SearchDate(t time.Time) int {
	return sort.Search(len(s.dates), func(i int) bool {
		return !s.dates[i].Before(t)
	})
}

// Slice returns the sub-series [from, to]. Bounds are inclusive indices.
func (s *Series) Slice(from, to int) *Series {
	return &Series{dates: s.dates[from : to+1], closes: s.closes[from : to+1]}
}
