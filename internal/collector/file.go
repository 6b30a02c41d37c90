package collector

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileFetcher reads a table from the local filesystem.
type FileFetcher struct {
	Path string
}

func NewFileFetcher(path string) *FileFetcher { return &FileFetcher{Path: path} }

func (f *FileFetcher) Name() string  { return "file" }
func (f *FileFetcher) Label() string { return filepath.Base(f.Path) }

func (f *FileFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	return file, nil
}
