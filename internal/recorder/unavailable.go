package recorder

import (
	"context"

	"GoldCast/internal/model"
)

// UnavailableRecorder stands in when the database could not be opened, so
// the rest of the application keeps working and every store call fails visibly.
type UnavailableRecorder struct {
	Cause error
}

func NewUnavailableRecorder(cause error) *UnavailableRecorder {
	return &UnavailableRecorder{Cause: cause}
}

func (u *UnavailableRecorder) Insert(_ context.Context, _ *model.PredictionRecord) error {
	return &StorageError{Op: "insert", Err: u.Cause}
}

func (u *UnavailableRecorder) ListAll(_ context.Context) ([]model.PredictionRecord, error) {
	return nil, &StorageError{Op: "list", Err: u.Cause}
}

func (u *UnavailableRecorder) Ping(_ context.Context) error {
	return &StorageError{Op: "ping", Err: u.Cause}
}

func (u *UnavailableRecorder) Close() error { return nil }
