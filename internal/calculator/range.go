package calculator

import (
	"errors"
	"math"

	"GoldCast/internal/model"
)

// PriceRange scans prices, the defined moving-average entries and any extra
// values, and returns the lowest and highest.
func PriceRange(prices []float64, ma model.MovingAverage, extra ...float64) (low, high float64, err error) {
	low = math.Inf(1)
	high = math.Inf(-1)
	scan := func(v float64) {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	for _, p := range prices {
		scan(p)
	}
	for _, p := range ma.Points {
		if p.Defined {
			scan(p.Value)
		}
	}
	for _, v := range extra {
		scan(v)
	}
	if math.IsInf(low, 1) {
		return 0, 0, errors.New("no values provided")
	}
	return low, high, nil
}

// PaddedRange widens [low, high] by frac of its span on each side. A flat
// range is widened by frac of its magnitude, or by 1 at zero.
func PaddedRange(low, high, frac float64) (float64, float64) {
	span := high - low
	if span == 0 {
		span = math.Abs(high)
		if span == 0 {
			span = 1
		}
	}
	pad := span * frac
	return low - pad, high + pad
}
