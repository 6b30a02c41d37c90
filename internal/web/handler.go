package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"GoldCast/internal/chart"
	"GoldCast/internal/loader"
	"GoldCast/internal/metrics"
	"GoldCast/internal/model"
	"GoldCast/internal/notifier"
	"GoldCast/internal/pipeline"
	"GoldCast/internal/recorder"

	"go.uber.org/zap"
)

const (
	pageTitle     = "Prediksi Harga Emas Tahunan (Moving Average + Database)"
	previewRows   = 5
	maxUploadSize = 10 << 20
)

// Sender delivers a chat message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// WindowRange is the set of windows offered by the selector.
type WindowRange struct {
	Min, Max, Default int
}

// Handler serves the upload, chart and history pages.
type Handler struct {
	Runner   *pipeline.Runner
	Recorder recorder.Recorder
	Notifier Sender
	Metrics  *metrics.Metrics
	Windows  WindowRange
	Chart    chart.Options
	Log      *zap.Logger
}

// NewHandler creates a Handler. notify may be nil.
func NewHandler(runner *pipeline.Runner, rec recorder.Recorder, notify Sender, m *metrics.Metrics, windows WindowRange, log *zap.Logger) *Handler {
	return &Handler{
		Runner:   runner,
		Recorder: rec,
		Notifier: notify,
		Metrics:  m,
		Windows:  windows,
		Chart:    chart.DefaultOptions(),
		Log:      log.With(zap.String("component", "web")),
	}
}

type resultVM struct {
	Rows       []pipeline.Row
	Chart      template.URL
	Success    string
	Prediction *model.PredictionRecord
}

type pageVM struct {
	Title        string
	Windows      []int
	Window       int
	Info         string
	Error        string
	Notice       string
	Result       *resultVM
	History      []model.PredictionRecord
	HistoryError string
	OpenHistory  bool
}

func (h *Handler) newPage(window int) *pageVM {
	vm := &pageVM{Title: pageTitle, Window: window}
	for w := h.Windows.Min; w <= h.Windows.Max; w++ {
		vm.Windows = append(vm.Windows, w)
	}
	return vm
}

// ServeIndex handles GET / - the upload form.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	vm := h.newPage(h.Windows.Default)
	vm.Info = "Silakan upload file CSV terlebih dahulu."
	h.render(w, r, http.StatusOK, vm)
}

// HandlePredict handles POST /predict - runs the pipeline on an uploaded table.
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	window := h.Windows.Default
	vm := h.newPage(window)
	if raw := r.FormValue("window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			vm.Error = (&pipeline.WindowError{Raw: raw, Min: h.Windows.Min, Max: h.Windows.Max}).Error()
			h.render(w, r, http.StatusBadRequest, vm)
			return
		}
		window = n
		vm.Window = n
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		vm.Error = "file CSV wajib diunggah"
		h.render(w, r, http.StatusBadRequest, vm)
		return
	}
	defer file.Close()

	res, err := h.Runner.Run(r.Context(), file, filepath.Base(hdr.Filename), window)
	if err != nil {
		vm.Error = err.Error()
		h.render(w, r, statusFor(err), vm)
		return
	}

	start := time.Now()
	png, err := chart.Render(res.Series, res.MA, res.Prediction, h.Chart)
	if h.Metrics != nil {
		h.Metrics.ChartRenderDur.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		h.Log.Error("render chart", zap.String("run_id", res.RunID.String()), zap.Error(err))
		vm.Error = "gagal membuat grafik"
		h.render(w, r, http.StatusInternalServerError, vm)
		return
	}

	result := &resultVM{
		Rows:  res.Tail(previewRows),
		Chart: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	}
	if res.Prediction != nil {
		result.Success = notifier.FormatPredictionSuccess(res.Prediction)
		result.Prediction = res.Prediction.Record()
	}
	vm.Result = result
	h.render(w, r, http.StatusOK, vm)
}

// HandleSave handles POST /predictions - stores the submitted prediction.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	vm := h.newPage(h.Windows.Default)
	rec, err := recordFromForm(r)
	if err != nil {
		vm.Error = err.Error()
		h.render(w, r, http.StatusBadRequest, vm)
		return
	}

	if err := h.Recorder.Insert(r.Context(), rec); err != nil {
		h.Log.Error("save prediction", zap.Error(err))
		vm.Error = err.Error()
		h.render(w, r, statusFor(err), vm)
		return
	}

	vm.Notice = notifier.FormatSaved(rec)
	vm.OpenHistory = true
	h.notify(r.Context(), "💾 "+vm.Notice+"\nSumber: "+rec.SourceLabel)
	h.render(w, r, http.StatusOK, vm)
}

// ServeHistory handles GET /predictions - the history view expanded.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	vm := h.newPage(h.Windows.Default)
	vm.OpenHistory = true
	h.render(w, r, http.StatusOK, vm)
}

// ServeHistoryJSON handles GET /api/predictions.
func (h *Handler) ServeHistoryJSON(w http.ResponseWriter, r *http.Request) {
	records, err := h.Recorder.ListAll(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		h.Log.Error("list predictions", zap.Error(err))
		w.WriteHeader(statusFor(err))
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(records)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := h.Recorder.Ping(ctx); err != nil {
		h.Log.Warn("health check: store ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded","store":"unavailable"}`))
		return
	}
	w.Write([]byte(`{"status":"ok","store":"ok"}`))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, vm *pageVM) {
	records, err := h.Recorder.ListAll(r.Context())
	if err != nil {
		vm.HistoryError = err.Error()
	} else {
		vm.History = records
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, vm); err != nil {
		h.Log.Error("execute template", zap.Error(err))
	}
}

func (h *Handler) notify(ctx context.Context, text string) {
	if h.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.Notifier.Send(ctx, text); err != nil {
		h.Log.Warn("telegram notify failed", zap.Error(err))
	}
}

func recordFromForm(r *http.Request) (*model.PredictionRecord, error) {
	price, err := strconv.ParseInt(r.FormValue("predicted_price"), 10, 64)
	if err != nil {
		return nil, errors.New("predicted_price harus bilangan bulat")
	}
	window, err := strconv.Atoi(r.FormValue("window"))
	if err != nil {
		return nil, errors.New("window harus bilangan bulat")
	}
	return &model.PredictionRecord{
		PredictedDate:  r.FormValue("predicted_date"),
		PredictedPrice: price,
		Window:         window,
		SourceLabel:    r.FormValue("source_label"),
	}, nil
}

func statusFor(err error) int {
	var pe *loader.ParseError
	var we *pipeline.WindowError
	var se *recorder.StorageError
	switch {
	case errors.As(err, &pe), errors.As(err, &we):
		return http.StatusBadRequest
	case errors.As(err, &se):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func formatPrice(v float64) string { return notifier.FormatPrice(v) }

func formatDate(t time.Time) string { return t.Format(model.DateLayout) }
