package scheduler

import (
	"context"
	"fmt"
	"html"

	"GoldCast/internal/notifier"
	"GoldCast/internal/recorder"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const historyLimit = 10

// Sender delivers a chat message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the periodic history digest and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Recorder recorder.Recorder
	Notifier Sender
	Log      *zap.Logger
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, rec recorder.Recorder, sender Sender, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Recorder: rec,
		Notifier: sender,
		Log:      log.With(zap.String("component", "scheduler")),
		Ctx:      ctx,
	}
}

// RegisterDigest schedules the history digest on a six-field cron spec.
func (s *Scheduler) RegisterDigest(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

func (s *Scheduler) digestTask() {
	s.Log.Info("running history digest")
	records, err := s.Recorder.ListAll(s.Ctx)
	if err != nil {
		s.Log.Error("digest list", zap.Error(err))
		s.trySend("❌ Gagal membaca histori prediksi: " + html.EscapeString(err.Error()))
		return
	}
	s.trySend(notifier.FormatHistory(records, historyLimit))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/history", "histori":
		records, err := s.Recorder.ListAll(ctx)
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		return notifier.FormatHistory(records, historyLimit)
	case "/latest", "terbaru":
		records, err := s.Recorder.ListAll(ctx)
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		return notifier.FormatLatest(records)
	default:
		return "Perintah tersedia:\n• /history\n• /latest"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error("send notification", zap.Error(err))
	}
}
