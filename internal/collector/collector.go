package collector

import (
	"context"
	"fmt"

	"GoldCast/internal/pipeline"

	"go.uber.org/zap"
)

// Collector runs a fetched table through the pipeline.
type Collector struct {
	Fetcher Fetcher
	Runner  *pipeline.Runner
	Log     *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, runner *pipeline.Runner, log *zap.Logger) *Collector {
	return &Collector{
		Fetcher: fetcher,
		Runner:  runner,
		Log:     log.With(zap.String("component", "collector"), zap.String("source", fetcher.Name())),
	}
}

// Collect fetches the table and computes its moving average and prediction.
func (c *Collector) Collect(ctx context.Context, window int) (*pipeline.Result, error) {
	rc, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c.Fetcher.Label(), err)
	}
	defer rc.Close()

	c.Log.Debug("table fetched", zap.String("label", c.Fetcher.Label()))
	return c.Runner.Run(ctx, rc, c.Fetcher.Label(), window)
}
