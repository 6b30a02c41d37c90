// Package collector opens price tables from local files or HTTP endpoints.
package collector

import (
	"context"
	"io"
	"strings"
)

// Fetcher opens a CSV price table. The caller closes the returned reader.
type Fetcher interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
	Label() string
	Name() string
}

// NewFetcher picks an HTTP fetcher for http(s) locations and a file fetcher otherwise.
func NewFetcher(location, proxyURL string) Fetcher {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPFetcher(location, proxyURL)
	}
	return NewFileFetcher(location)
}
