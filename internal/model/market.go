package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Observation is a single dated price from an uploaded table.
type Observation struct {
	Date  time.Time
	Price decimal.Decimal
}

// Series holds observations ordered by date ascending.
type Series struct {
	Label        string // originating upload, e.g. the file name
	Observations []Observation
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Observations)
}

// Prices returns the observation prices as float64, in series order.
func (s *Series) Prices() []float64 {
	prices := make([]float64, s.Len())
	for i, o := range s.Observations {
		prices[i] = o.Price.InexactFloat64()
	}
	return prices
}

// Last returns the most recent observation.
func (s *Series) Last() (Observation, bool) {
	if s.Len() == 0 {
		return Observation{}, false
	}
	return s.Observations[len(s.Observations)-1], true
}

// Tail returns the start index and the last n observations.
func (s *Series) Tail(n int) (int, []Observation) {
	total := s.Len()
	start := total - n
	if start < 0 {
		start = 0
	}
	if total == 0 {
		return 0, nil
	}
	return start, s.Observations[start:]
}
