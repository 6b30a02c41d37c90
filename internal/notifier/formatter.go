package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"GoldCast/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatPredictionSuccess is the message shown when a prediction exists.
func FormatPredictionSuccess(p *model.Prediction) string {
	return fmt.Sprintf("Prediksi harga %d: Rp %s", p.PredictedDate.Year(), humanize.Comma(p.PredictedPrice))
}

// FormatSaved confirms a stored prediction.
func FormatSaved(rec *model.PredictionRecord) string {
	return fmt.Sprintf("Data prediksi berhasil disimpan ke database (%s, Rp %s)",
		rec.PredictedDate, humanize.Comma(rec.PredictedPrice))
}

// FormatPrice renders a price with thousands separators.
func FormatPrice(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

// FormatHistory renders stored predictions as a Telegram HTML message.
func FormatHistory(records []model.PredictionRecord, limit int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📚 <b>Histori prediksi</b> | %s\n\n", time.Now().Format("2006-01-02")))
	if len(records) == 0 {
		b.WriteString("Belum ada prediksi tersimpan.")
		return b.String()
	}

	shown := records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, r := range shown {
		b.WriteString(fmt.Sprintf("%s  Rp %s  (MA %d, %s)\n",
			r.PredictedDate, humanize.Comma(r.PredictedPrice), r.Window, html.EscapeString(r.SourceLabel)))
	}
	if len(shown) < len(records) {
		b.WriteString(fmt.Sprintf("… %d lainnya\n", len(records)-len(shown)))
	}
	return b.String()
}

// FormatLatest renders the prediction with the latest predicted date.
func FormatLatest(records []model.PredictionRecord) string {
	if len(records) == 0 {
		return "Belum ada prediksi tersimpan."
	}
	r := records[0]
	return fmt.Sprintf("🎯 <b>Prediksi terbaru</b>\n\nTanggal: %s\nHarga: Rp %s\nWindow MA: %d\nSumber: %s",
		r.PredictedDate, humanize.Comma(r.PredictedPrice), r.Window, html.EscapeString(r.SourceLabel))
}
