package recorder

import (
	"context"
	"fmt"

	"GoldCast/internal/model"
)

// StorageError reports that the prediction store could not be reached or written.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Recorder persists predictions. Rows are append-only; inserting the same
// prediction twice stores two rows.
type Recorder interface {
	Insert(ctx context.Context, rec *model.PredictionRecord) error
	// ListAll returns every record ordered by predicted date, newest first.
	ListAll(ctx context.Context) ([]model.PredictionRecord, error)
	Ping(ctx context.Context) error
	Close() error
}
