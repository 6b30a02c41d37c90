package recorder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"GoldCast/internal/metrics"
	"GoldCast/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func openTestRecorder(t *testing.T) (*SQLiteRecorder, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "prediksi.db")
	r, err := NewSQLiteRecorder(path, metrics.New(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r, path
}

func record(date string, price int64, window int, label string) *model.PredictionRecord {
	return &model.PredictionRecord{PredictedDate: date, PredictedPrice: price, Window: window, SourceLabel: label}
}

func TestInsert_RoundTrip(t *testing.T) {
	r, _ := openTestRecorder(t)
	ctx := context.Background()

	in := record("2023-01-01", 1150, 2, "emas.csv")
	if err := r.Insert(ctx, in); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if in.ID == 0 {
		t.Error("expected ID to be set")
	}

	got, err := r.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0] != *in {
		t.Errorf("round trip mismatch: got %+v, want %+v", got[0], *in)
	}
	if got := testutil.ToFloat64(r.metrics.StoreOpsTotal.WithLabelValues("insert", "ok")); got != 1 {
		t.Errorf("insert metric = %v", got)
	}
}

func TestInsert_ScenarioD_DuplicatesKept(t *testing.T) {
	r, _ := openTestRecorder(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := r.Insert(ctx, record("2023-01-01", 1150, 2, "emas.csv")); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}
	got, err := r.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 duplicate rows", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Error("duplicate rows should have distinct ids")
	}
}

func TestListAll_OrderedByDateDesc(t *testing.T) {
	r, _ := openTestRecorder(t)
	ctx := context.Background()

	for _, d := range []string{"2021-01-01", "2024-05-01", "2019-12-31", "2024-05-01", "2022-07-01"} {
		if err := r.Insert(ctx, record(d, 100, 3, "x.csv")); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	got, err := r.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].PredictedDate > got[i-1].PredictedDate {
			t.Errorf("not non-increasing at %d: %s after %s", i, got[i].PredictedDate, got[i-1].PredictedDate)
		}
	}
	if got[0].PredictedDate != "2024-05-01" || got[4].PredictedDate != "2019-12-31" {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestListAll_Empty(t *testing.T) {
	r, _ := openTestRecorder(t)
	got, err := r.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	r, path := openTestRecorder(t)
	if err := r.Insert(context.Background(), record("2023-01-01", 1, 2, "a")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := r.migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	r.Close()

	r2, err := NewSQLiteRecorder(path, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()
	got, err := r2.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("reopened store has %d rows, want 1", len(got))
	}
}

func TestInsert_InvalidRecord(t *testing.T) {
	r, _ := openTestRecorder(t)
	tests := []*model.PredictionRecord{
		record("", 1, 2, "a"),
		record("01/01/2023", 1, 2, "a"),
		record("2023-01-01", -1, 2, "a"),
		record("2023-01-01", 1, 0, "a"),
		record("2023-01-01", 1, 2, ""),
	}
	for _, rec := range tests {
		if err := r.Insert(context.Background(), rec); err == nil {
			t.Errorf("expected validation error for %+v", rec)
		}
	}
}

func TestClosedStore_ReturnsStorageError(t *testing.T) {
	r, _ := openTestRecorder(t)
	r.Close()

	var se *StorageError
	if err := r.Insert(context.Background(), record("2023-01-01", 1, 2, "a")); !errors.As(err, &se) {
		t.Errorf("Insert on closed db: expected *StorageError, got %v", err)
	}
	if _, err := r.ListAll(context.Background()); !errors.As(err, &se) {
		t.Errorf("ListAll on closed db: expected *StorageError, got %v", err)
	}
}

func TestUnavailableRecorder(t *testing.T) {
	cause := errors.New("disk gone")
	u := NewUnavailableRecorder(cause)
	ctx := context.Background()

	var se *StorageError
	if err := u.Insert(ctx, record("2023-01-01", 1, 2, "a")); !errors.As(err, &se) || !errors.Is(err, cause) {
		t.Errorf("Insert: %v", err)
	}
	if _, err := u.ListAll(ctx); !errors.As(err, &se) {
		t.Errorf("ListAll: %v", err)
	}
	if err := u.Ping(ctx); !errors.As(err, &se) {
		t.Errorf("Ping: %v", err)
	}
	if err := u.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
