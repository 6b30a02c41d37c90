// Package chart draws the price, moving-average and prediction chart as PNG.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"GoldCast/internal/calculator"
	"GoldCast/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	colorActual     = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
	colorMA         = color.NRGBA{R: 255, G: 165, B: 0, A: 255}
	colorPrediction = color.NRGBA{R: 214, G: 39, B: 40, A: 255}
	colorGrid       = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
	colorAxis       = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
)

// Options controls the canvas.
type Options struct {
	Width    int
	Height   int
	FontSize float64
}

// DefaultOptions matches the size of the upload page's chart slot.
func DefaultOptions() Options {
	return Options{Width: 900, Height: 520, FontSize: 12}
}

type fontCache struct {
	once sync.Once
	font *truetype.Font
	err  error
}

var regular fontCache

func face(size float64) (font.Face, error) {
	regular.once.Do(func() {
		regular.font, regular.err = truetype.Parse(goregular.TTF)
	})
	if regular.err != nil {
		return nil, fmt.Errorf("parse font: %w", regular.err)
	}
	return truetype.NewFace(regular.font, &truetype.Options{Size: size}), nil
}

// plot maps data coordinates onto the drawing area.
type plot struct {
	left, top, right, bottom float64
	tMin, tMax               float64
	vMin, vMax               float64
}

func (p plot) x(t time.Time) float64 {
	return p.left + (float64(t.Unix())-p.tMin)/(p.tMax-p.tMin)*(p.right-p.left)
}

func (p plot) y(v float64) float64 {
	return p.bottom - (v-p.vMin)/(p.vMax-p.vMin)*(p.bottom-p.top)
}

// Render draws actual prices with markers, the moving average as a dashed
// overlay and, when pred is non-nil, the predicted point with a vertical marker.
func Render(s *model.Series, ma model.MovingAverage, pred *model.Prediction, opts Options) ([]byte, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	ff, err := face(opts.FontSize)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(ff)

	p, ok := layout(s, ma, pred, opts)
	drawFrame(dc, p)
	if ok {
		drawGrid(dc, p)
		drawSeries(dc, p, s)
		drawMovingAverage(dc, p, s, ma)
		if pred != nil {
			drawPrediction(dc, p, pred)
		}
		drawLegend(dc, p, ma, pred)
	} else {
		dc.SetColor(colorAxis)
		dc.DrawStringAnchored("Tidak ada data", float64(opts.Width)/2, float64(opts.Height)/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func layout(s *model.Series, ma model.MovingAverage, pred *model.Prediction, opts Options) (plot, bool) {
	p := plot{left: 90, top: 30, right: float64(opts.Width) - 30, bottom: float64(opts.Height) - 60}
	last, ok := s.Last()
	if !ok {
		return p, false
	}
	first := s.Observations[0]

	var extra []float64
	end := last.Date
	if pred != nil {
		extra = append(extra, float64(pred.PredictedPrice))
		end = pred.PredictedDate
	}
	low, high, err := calculator.PriceRange(s.Prices(), ma, extra...)
	if err != nil {
		return p, false
	}
	p.vMin, p.vMax = calculator.PaddedRange(low, high, 0.08)

	tMin, tMax := float64(first.Date.Unix()), float64(end.Unix())
	pad := (tMax - tMin) * 0.05
	if pad == 0 {
		pad = float64(180 * 24 * 3600)
	}
	p.tMin, p.tMax = tMin-pad, tMax+pad
	return p, true
}

func drawFrame(dc *gg.Context, p plot) {
	dc.SetColor(colorAxis)
	dc.SetLineWidth(1)
	dc.DrawRectangle(p.left, p.top, p.right-p.left, p.bottom-p.top)
	dc.Stroke()

	h := float64(dc.Height())
	dc.DrawStringAnchored("Tahun", (p.left+p.right)/2, h-15, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), 18, (p.top+p.bottom)/2)
	dc.DrawStringAnchored("Harga (Rp)", 18, (p.top+p.bottom)/2, 0.5, 0.5)
	dc.Pop()
}

func drawGrid(dc *gg.Context, p plot) {
	dc.SetLineWidth(1)
	const yTicks = 5
	for i := 0; i <= yTicks; i++ {
		v := p.vMin + (p.vMax-p.vMin)*float64(i)/yTicks
		y := p.y(v)
		dc.SetColor(colorGrid)
		dc.DrawLine(p.left, y, p.right, y)
		dc.Stroke()
		dc.SetColor(colorAxis)
		dc.DrawStringAnchored(humanize.Comma(int64(v)), p.left-8, y, 1, 0.5)
	}

	startYear := time.Unix(int64(p.tMin), 0).UTC().Year()
	endYear := time.Unix(int64(p.tMax), 0).UTC().Year()
	step := 1
	if span := endYear - startYear; span > 12 {
		step = (span + 11) / 12
	}
	for year := startYear; year <= endYear; year += step {
		t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		x := p.x(t)
		if x < p.left || x > p.right {
			continue
		}
		dc.SetColor(colorGrid)
		dc.DrawLine(x, p.top, x, p.bottom)
		dc.Stroke()
		dc.SetColor(colorAxis)
		dc.DrawStringAnchored(fmt.Sprintf("%d", year), x, p.bottom+16, 0.5, 0.5)
	}
}

func drawSeries(dc *gg.Context, p plot, s *model.Series) {
	prices := s.Prices()
	dc.SetColor(colorActual)
	dc.SetLineWidth(2)
	for i, o := range s.Observations {
		x, y := p.x(o.Date), p.y(prices[i])
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()
	for i, o := range s.Observations {
		dc.DrawCircle(p.x(o.Date), p.y(prices[i]), 4)
		dc.Fill()
	}
}

func drawMovingAverage(dc *gg.Context, p plot, s *model.Series, ma model.MovingAverage) {
	dc.SetColor(colorMA)
	dc.SetLineWidth(2)
	dc.SetDash(8, 5)
	started := false
	for i, pt := range ma.Points {
		if !pt.Defined || i >= s.Len() {
			started = false
			continue
		}
		x, y := p.x(s.Observations[i].Date), p.y(pt.Value)
		if !started {
			dc.MoveTo(x, y)
			started = true
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()
	dc.SetDash()
}

func drawPrediction(dc *gg.Context, p plot, pred *model.Prediction) {
	x := p.x(pred.PredictedDate)
	dc.SetColor(colorPrediction)
	dc.SetLineWidth(1.5)
	dc.SetDash(6, 4)
	dc.DrawLine(x, p.top, x, p.bottom)
	dc.Stroke()
	dc.SetDash()

	dc.DrawCircle(x, p.y(float64(pred.PredictedPrice)), 6)
	dc.Fill()
}

type lineStyle int

const (
	noLine lineStyle = iota
	solidLine
	dashedLine
)

type legendEntry struct {
	label  string
	color  color.Color
	line   lineStyle
	marker bool
}

func legendEntries(ma model.MovingAverage, pred *model.Prediction) []legendEntry {
	entries := []legendEntry{
		{"Harga Aktual", colorActual, solidLine, true},
		{fmt.Sprintf("MA (%d)", ma.Window), colorMA, dashedLine, false},
	}
	if pred != nil {
		entries = append(entries,
			legendEntry{"Tanggal Prediksi", colorPrediction, dashedLine, false},
			legendEntry{fmt.Sprintf("Prediksi %d", pred.PredictedDate.Year()), colorPrediction, noLine, true},
		)
	}
	return entries
}

func drawLegend(dc *gg.Context, p plot, ma model.MovingAverage, pred *model.Prediction) {
	entries := legendEntries(ma, pred)

	lineH := dc.FontHeight() + 8
	width := 0.0
	for _, e := range entries {
		if w, _ := dc.MeasureString(e.label); w > width {
			width = w
		}
	}
	x0, y0 := p.left+10, p.top+10
	boxW, boxH := width+50, lineH*float64(len(entries))+8

	dc.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 230})
	dc.DrawRectangle(x0, y0, boxW, boxH)
	dc.FillPreserve()
	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)
	dc.Stroke()

	for i, e := range entries {
		cy := y0 + 4 + lineH*(float64(i)+0.5)
		dc.SetColor(e.color)
		if e.line != noLine {
			dc.SetLineWidth(2)
			if e.line == dashedLine {
				dc.SetDash(6, 4)
			}
			dc.DrawLine(x0+8, cy, x0+32, cy)
			dc.Stroke()
			dc.SetDash()
		}
		if e.marker {
			dc.DrawCircle(x0+20, cy, 4)
			dc.Fill()
		}
		dc.SetColor(colorAxis)
		dc.DrawStringAnchored(e.label, x0+40, cy, 0, 0.5)
	}
}
