package calculator

import (
	"errors"

	"GoldCast/internal/model"
)

var ErrInvalidWindow = errors.New("window must be positive")

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidWindow
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// RollingMean computes the trailing simple moving average at every index.
// Entry i is undefined until window prices are available; a window longer
// than the input leaves every entry undefined.
func RollingMean(prices []float64, window int) (model.MovingAverage, error) {
	if window <= 0 {
		return model.MovingAverage{}, ErrInvalidWindow
	}
	points := make([]model.MAPoint, len(prices))
	for i := window - 1; i < len(prices); i++ {
		avg, err := CalculateSMA(prices[:i+1], window)
		if err != nil {
			return model.MovingAverage{}, err
		}
		points[i] = model.MAPoint{Value: avg, Defined: true}
	}
	return model.MovingAverage{Window: window, Points: points}, nil
}

// MovingAverageOf computes the rolling mean over a series' prices.
func MovingAverageOf(s *model.Series, window int) (model.MovingAverage, error) {
	return RollingMean(s.Prices(), window)
}
