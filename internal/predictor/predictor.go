// Package predictor extrapolates one period past the end of a series.
package predictor

import (
	"math"
	"time"

	"GoldCast/internal/model"
)

// Predict reuses the latest moving-average value as next year's price.
// It reports false when the series is empty, the last entry is undefined or
// the average is too large to represent as a price;
// that is an expected outcome for short uploads, not a failure.
func Predict(s *model.Series, ma model.MovingAverage) (*model.Prediction, bool) {
	last, ok := s.Last()
	if !ok || len(ma.Points) != s.Len() {
		return nil, false
	}
	value, ok := ma.Last()
	if !ok || math.IsInf(value, 0) || math.IsNaN(value) || value >= math.MaxInt64 {
		return nil, false
	}
	return &model.Prediction{
		PredictedDate:  nextYear(last.Date),
		PredictedPrice: int64(math.Trunc(value)),
		Window:         ma.Window,
		SourceLabel:    s.Label,
	}, true
}

// nextYear returns the same month and day one year later, clamped to the end
// of the month: 2024-02-29 becomes 2025-02-28.
func nextYear(t time.Time) time.Time {
	y, m, d := t.Date()
	if last := daysIn(y+1, m); d > last {
		d = last
	}
	return time.Date(y+1, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
