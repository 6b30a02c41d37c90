// Package pipeline runs one upload through load, moving average and prediction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"GoldCast/internal/calculator"
	"GoldCast/internal/loader"
	"GoldCast/internal/metrics"
	"GoldCast/internal/model"
	"GoldCast/internal/predictor"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WindowError reports a window outside the range the UI offers.
// Raw holds the submitted text when it was not an integer.
type WindowError struct {
	Window   int
	Raw      string
	Min, Max int
}

func (e *WindowError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("window %q is not an integer in [%d, %d]", e.Raw, e.Min, e.Max)
	}
	return fmt.Sprintf("window %d out of range [%d, %d]", e.Window, e.Min, e.Max)
}

// Result is the outcome of a single run. Prediction is nil when the moving
// average is undefined at the end of the series.
type Result struct {
	RunID      uuid.UUID
	Series     *model.Series
	MA         model.MovingAverage
	Prediction *model.Prediction
	Window     int
}

// Row joins one observation with its moving-average entry for display.
type Row struct {
	Index int
	Obs   model.Observation
	MA    model.MAPoint
}

// Tail returns the last n observations joined with the moving average.
func (r *Result) Tail(n int) []Row {
	start, obs := r.Series.Tail(n)
	rows := make([]Row, len(obs))
	for i, o := range obs {
		rows[i] = Row{Index: start + i, Obs: o, MA: r.MA.Points[start+i]}
	}
	return rows
}

// Runner wires the loader to the calculator and predictor.
type Runner struct {
	Loader    *loader.Loader
	MinWindow int
	MaxWindow int
	Metrics   *metrics.Metrics
	Log       *zap.Logger
}

// NewRunner creates a Runner accepting windows within [minWindow, maxWindow].
func NewRunner(l *loader.Loader, minWindow, maxWindow int, m *metrics.Metrics, log *zap.Logger) *Runner {
	return &Runner{
		Loader:    l,
		MinWindow: minWindow,
		MaxWindow: maxWindow,
		Metrics:   m,
		Log:       log.With(zap.String("component", "pipeline")),
	}
}

// Run parses r and computes its moving average and prediction. Every call
// returns a fresh Result; nothing is retained between runs.
func (p *Runner) Run(ctx context.Context, r io.Reader, label string, window int) (*Result, error) {
	start := time.Now()
	runID := uuid.New()
	log := p.Log.With(zap.String("run_id", runID.String()), zap.String("source", label), zap.Int("window", window))

	res, err := p.run(ctx, r, label, window, runID)
	p.observe(res, err, time.Since(start))
	if err != nil {
		log.Warn("pipeline failed", zap.Error(err))
		return nil, err
	}

	if res.Prediction != nil {
		log.Info("prediction computed",
			zap.Int("rows", res.Series.Len()),
			zap.String("predicted_date", res.Prediction.PredictedDate.Format(model.DateLayout)),
			zap.Int64("predicted_price", res.Prediction.PredictedPrice))
	} else {
		log.Info("insufficient history for prediction", zap.Int("rows", res.Series.Len()))
	}
	return res, nil
}

func (p *Runner) run(ctx context.Context, r io.Reader, label string, window int, runID uuid.UUID) (*Result, error) {
	if window < p.MinWindow || window > p.MaxWindow {
		return nil, &WindowError{Window: window, Min: p.MinWindow, Max: p.MaxWindow}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, err := p.Loader.Load(r, label)
	if err != nil {
		return nil, err
	}

	ma, err := calculator.MovingAverageOf(series, window)
	if err != nil {
		return nil, fmt.Errorf("moving average: %w", err)
	}

	pred, _ := predictor.Predict(series, ma)
	return &Result{
		RunID:      runID,
		Series:     series,
		MA:         ma,
		Prediction: pred,
		Window:     window,
	}, nil
}

func (p *Runner) observe(res *Result, err error, dur time.Duration) {
	if p.Metrics == nil {
		return
	}
	p.Metrics.PipelineDur.Observe(dur.Seconds())

	var pe *loader.ParseError
	var we *WindowError
	switch {
	case err == nil:
		p.Metrics.UploadsTotal.WithLabelValues("ok").Inc()
		p.Metrics.SeriesRows.Observe(float64(res.Series.Len()))
		if res.Prediction != nil {
			p.Metrics.PredictionsTotal.WithLabelValues("predicted").Inc()
		} else {
			p.Metrics.PredictionsTotal.WithLabelValues("insufficient_history").Inc()
		}
	case errors.As(err, &pe):
		p.Metrics.UploadsTotal.WithLabelValues("parse_error").Inc()
	case errors.As(err, &we):
		p.Metrics.UploadsTotal.WithLabelValues("window_error").Inc()
	default:
		p.Metrics.UploadsTotal.WithLabelValues("error").Inc()
	}
}
