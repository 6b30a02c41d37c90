package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"GoldCast/internal/metrics"
	"GoldCast/internal/model"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists predictions to a SQLite database.
type SQLiteRecorder struct {
	db       *sql.DB
	mu       sync.Mutex
	validate *validator.Validate
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
// m may be nil.
func NewSQLiteRecorder(dbPath string, m *metrics.Metrics, log *zap.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StorageError{Op: "open", Err: err}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("set WAL mode: %w", err)}
	}

	r := &SQLiteRecorder{
		db:       db,
		validate: validator.New(),
		metrics:  m,
		log:      log.With(zap.String("component", "recorder")),
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "migrate", Err: err}
	}

	r.log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			predicted_date  TEXT    NOT NULL,
			predicted_price INTEGER NOT NULL,
			"window"        INTEGER NOT NULL,
			source_label    TEXT    NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_date ON predictions(predicted_date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Insert appends one row and sets rec.ID to the new row id.
func (r *SQLiteRecorder) Insert(ctx context.Context, rec *model.PredictionRecord) (err error) {
	defer func() { r.observe("insert", err) }()

	if err := r.validate.Struct(rec); err != nil {
		return fmt.Errorf("invalid prediction record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `INSERT INTO predictions
		(predicted_date, predicted_price, "window", source_label)
		VALUES (?,?,?,?)`,
		rec.PredictedDate, rec.PredictedPrice, rec.Window, rec.SourceLabel,
	)
	if err != nil {
		return &StorageError{Op: "insert", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return &StorageError{Op: "insert", Err: err}
	}
	rec.ID = id

	r.log.Info("prediction saved",
		zap.Int64("id", id),
		zap.String("predicted_date", rec.PredictedDate),
		zap.Int64("predicted_price", rec.PredictedPrice),
		zap.Int("window", rec.Window),
		zap.String("source", rec.SourceLabel))
	return nil
}

func (r *SQLiteRecorder) ListAll(ctx context.Context) (records []model.PredictionRecord, err error) {
	defer func() { r.observe("list", err) }()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, predicted_date, predicted_price, "window", source_label
		FROM predictions
		ORDER BY predicted_date DESC, id ASC
	`)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	records = []model.PredictionRecord{}
	for rows.Next() {
		var rec model.PredictionRecord
		if err := rows.Scan(&rec.ID, &rec.PredictedDate, &rec.PredictedPrice, &rec.Window, &rec.SourceLabel); err != nil {
			return nil, &StorageError{Op: "list", Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return records, nil
}

func (r *SQLiteRecorder) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}

func (r *SQLiteRecorder) observe(op string, err error) {
	if r.metrics != nil {
		r.metrics.StoreOp(op, err)
	}
}
