package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GoldCast/internal/collector"
	"GoldCast/internal/config"
	"GoldCast/internal/loader"
	"GoldCast/internal/logger"
	"GoldCast/internal/metrics"
	"GoldCast/internal/notifier"
	"GoldCast/internal/pipeline"
	"GoldCast/internal/recorder"
	"GoldCast/internal/scheduler"
	"GoldCast/internal/web"

	"go.uber.org/zap"
)

func main() {
	csvPath := flag.String("csv", "", "predict once from a CSV file or http(s) URL and exit")
	window := flag.Int("window", 0, "moving average window for -csv (default from config)")
	saveResult := flag.Bool("save", false, "store the -csv prediction in the database")
	flag.Parse()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("[FATAL] init logger: %v", err)
	}
	defer lg.Sync()
	lg.Info("GoldCast starting", zap.String("config", cfgPath))

	m := metrics.New()

	// Init recorder
	var rec recorder.Recorder
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, m, lg)
	if err != nil {
		lg.Warn("init sqlite recorder failed, history disabled", zap.Error(err))
		rec = recorder.NewUnavailableRecorder(err)
	} else {
		rec = sr
	}
	defer rec.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := pipeline.NewRunner(
		loader.New(cfg.Loader.DateColumns, cfg.Loader.PriceColumns),
		cfg.Window.Min, cfg.Window.Max, m, lg)

	if *csvPath != "" {
		w := *window
		if w == 0 {
			w = cfg.Window.Default
		}
		col := collector.NewCollector(collector.NewFetcher(*csvPath, cfg.Proxy), runner, lg)
		if err := runOnce(ctx, col, rec, w, *saveResult); err != nil {
			lg.Error("predict failed", zap.Error(err))
			rec.Close()
			lg.Sync()
			os.Exit(1)
		}
		return
	}

	var (
		webSender   web.Sender
		schedSender scheduler.Sender
		tn          *notifier.TelegramNotifier
	)
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, lg)
		webSender, schedSender = tn, tn
	}

	sched := scheduler.NewScheduler(ctx, rec, schedSender, lg)
	if cfg.Schedule.DigestCron != "" {
		if err := sched.RegisterDigest(cfg.Schedule.DigestCron); err != nil {
			lg.Fatal("register digest", zap.Error(err))
		}
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		lg.Info("telegram polling started")
	}

	h := web.NewHandler(runner, rec, webSender, m, web.WindowRange{
		Min:     cfg.Window.Min,
		Max:     cfg.Window.Max,
		Default: cfg.Window.Default,
	}, lg)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.Routes(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("http server", zap.Error(err))
			cancel()
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		lg.Info("shutdown signal received, stopping")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Warn("http shutdown", zap.Error(err))
	}
	lg.Info("GoldCast stopped")
}

// runOnce predicts from a single table and prints the outcome.
func runOnce(ctx context.Context, col *collector.Collector, rec recorder.Recorder, window int, save bool) error {
	res, err := col.Collect(ctx, window)
	if err != nil {
		return err
	}
	if res.Prediction == nil {
		fmt.Printf("Data belum cukup untuk prediksi dengan window %d (%d baris)\n", window, res.Series.Len())
		return nil
	}
	fmt.Println(notifier.FormatPredictionSuccess(res.Prediction))
	if !save {
		return nil
	}
	r := res.Prediction.Record()
	if err := rec.Insert(ctx, r); err != nil {
		return err
	}
	fmt.Println(notifier.FormatSaved(r))
	return nil
}
