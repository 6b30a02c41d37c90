package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"GoldCast/internal/model"
	"GoldCast/internal/recorder"

	"go.uber.org/zap"
)

type memRecorder struct {
	records []model.PredictionRecord
}

func (m *memRecorder) Insert(_ context.Context, rec *model.PredictionRecord) error {
	m.records = append(m.records, *rec)
	return nil
}
func (m *memRecorder) ListAll(_ context.Context) ([]model.PredictionRecord, error) {
	return m.records, nil
}
func (m *memRecorder) Ping(_ context.Context) error { return nil }
func (m *memRecorder) Close() error                 { return nil }

type captureSender struct {
	sent []string
}

func (c *captureSender) SendWithRetry(_ context.Context, text string, _ int) error {
	c.sent = append(c.sent, text)
	return nil
}

func TestHandleCommand(t *testing.T) {
	rec := &memRecorder{records: []model.PredictionRecord{
		{ID: 2, PredictedDate: "2024-01-01", PredictedPrice: 1250, Window: 3, SourceLabel: "b.csv"},
		{ID: 1, PredictedDate: "2023-01-01", PredictedPrice: 1150, Window: 2, SourceLabel: "a.csv"},
	}}
	s := NewScheduler(context.Background(), rec, nil, zap.NewNop())

	if got := s.HandleCommand(context.Background(), "/history"); !strings.Contains(got, "Rp 1,250") || !strings.Contains(got, "Rp 1,150") {
		t.Errorf("/history = %q", got)
	}
	if got := s.HandleCommand(context.Background(), "/latest"); !strings.Contains(got, "2024-01-01") {
		t.Errorf("/latest = %q", got)
	}
	if got := s.HandleCommand(context.Background(), "hello"); !strings.Contains(got, "/history") {
		t.Errorf("help = %q", got)
	}
}

func TestHandleCommand_StorageError(t *testing.T) {
	s := NewScheduler(context.Background(), recorder.NewUnavailableRecorder(errors.New("down")), nil, zap.NewNop())
	if got := s.HandleCommand(context.Background(), "/latest"); !strings.Contains(got, "storage list") {
		t.Errorf("reply = %q", got)
	}
}

func TestDigestTask_SendsHistory(t *testing.T) {
	rec := &memRecorder{records: []model.PredictionRecord{
		{ID: 1, PredictedDate: "2023-01-01", PredictedPrice: 1150, Window: 2, SourceLabel: "a.csv"},
	}}
	sender := &captureSender{}
	s := NewScheduler(context.Background(), rec, sender, zap.NewNop())
	s.digestTask()

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "2023-01-01") {
		t.Errorf("sent = %v", sender.sent)
	}
}

func TestDigestTask_ReportsStorageError(t *testing.T) {
	sender := &captureSender{}
	s := NewScheduler(context.Background(), recorder.NewUnavailableRecorder(errors.New("down")), sender, zap.NewNop())
	s.digestTask()
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "Gagal") {
		t.Errorf("sent = %v", sender.sent)
	}
}

func TestRegisterDigest(t *testing.T) {
	s := NewScheduler(context.Background(), &memRecorder{}, nil, zap.NewNop())
	if err := s.RegisterDigest("0 0 8 * * 1"); err != nil {
		t.Fatalf("RegisterDigest: %v", err)
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("entries = %d", len(s.Cron.Entries()))
	}
	if err := s.RegisterDigest("not a cron"); err == nil {
		t.Error("expected error for invalid spec")
	}
	s.Start()
	s.Stop()
}

func TestHandleCommand_EscapesErrorText(t *testing.T) {
	s := NewScheduler(context.Background(), recorder.NewUnavailableRecorder(errors.New("open <db> & retry")), nil, zap.NewNop())
	for _, cmd := range []string{"/history", "/latest"} {
		got := s.HandleCommand(context.Background(), cmd)
		if strings.Contains(got, "<db>") || !strings.Contains(got, "&lt;db&gt; &amp; retry") {
			t.Errorf("%s reply = %q", cmd, got)
		}
	}

	sender := &captureSender{}
	s = NewScheduler(context.Background(), recorder.NewUnavailableRecorder(errors.New("<b>")), sender, zap.NewNop())
	s.digestTask()
	if len(sender.sent) != 1 || strings.Contains(sender.sent[0], "<b>") {
		t.Errorf("sent = %v", sender.sent)
	}
}
