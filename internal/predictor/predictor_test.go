package predictor

import (
	"math"
	"testing"
	"time"

	"GoldCast/internal/calculator"
	"GoldCast/internal/model"

	"github.com/shopspring/decimal"
)

type row struct {
	date  time.Time
	price int64
}

func series(label string, rows ...row) *model.Series {
	s := &model.Series{Label: label}
	for _, r := range rows {
		s.Observations = append(s.Observations, model.Observation{Date: r.date, Price: decimal.NewFromInt(r.price)})
	}
	return s
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestPredict_ScenarioA(t *testing.T) {
	s := series("emas.csv",
		row{day(2020, 1, 1), 1000},
		row{day(2021, 1, 1), 1100},
		row{day(2022, 1, 1), 1200},
	)
	ma, err := calculator.MovingAverageOf(s, 2)
	if err != nil {
		t.Fatalf("MovingAverageOf: %v", err)
	}
	p, ok := Predict(s, ma)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if !p.PredictedDate.Equal(day(2023, 1, 1)) {
		t.Errorf("date = %v, want 2023-01-01", p.PredictedDate)
	}
	if p.PredictedPrice != 1150 {
		t.Errorf("price = %d, want 1150", p.PredictedPrice)
	}
	if p.Window != 2 || p.SourceLabel != "emas.csv" {
		t.Errorf("window/label = %d/%q", p.Window, p.SourceLabel)
	}
}

func TestPredict_ScenarioB_InsufficientHistory(t *testing.T) {
	s := series("short", row{day(2020, 1, 1), 1000}, row{day(2021, 1, 1), 1100})
	ma, err := calculator.MovingAverageOf(s, 3)
	if err != nil {
		t.Fatalf("MovingAverageOf: %v", err)
	}
	if p, ok := Predict(s, ma); ok || p != nil {
		t.Errorf("expected no prediction, got %+v", p)
	}
}

func TestPredict_EmptySeries(t *testing.T) {
	if _, ok := Predict(&model.Series{}, model.MovingAverage{Window: 2}); ok {
		t.Error("expected no prediction for empty series")
	}
}

func TestPredict_TruncatesTowardZero(t *testing.T) {
	s := series("t", row{day(2020, 6, 15), 1000}, row{day(2021, 6, 15), 1001})
	ma, _ := calculator.MovingAverageOf(s, 2)
	p, ok := Predict(s, ma)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if p.PredictedPrice != 1000 {
		t.Errorf("price = %d, want 1000 (1000.5 truncated)", p.PredictedPrice)
	}
	if !p.PredictedDate.Equal(day(2022, 6, 15)) {
		t.Errorf("date = %v, want same month/day next year", p.PredictedDate)
	}
}

func TestPredict_LeapDayClampsToMonthEnd(t *testing.T) {
	s := series("leap", row{day(2023, 2, 28), 10}, row{day(2024, 2, 29), 20})
	ma, _ := calculator.MovingAverageOf(s, 1)
	p, ok := Predict(s, ma)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if !p.PredictedDate.Equal(day(2025, 2, 28)) {
		t.Errorf("date = %v, want 2025-02-28", p.PredictedDate)
	}
}

func TestNextYear(t *testing.T) {
	tests := []struct {
		in, want time.Time
	}{
		{day(2022, 1, 1), day(2023, 1, 1)},
		{day(2024, 2, 29), day(2025, 2, 28)},
		{day(2023, 2, 28), day(2024, 2, 28)},
		{day(2020, 12, 31), day(2021, 12, 31)},
	}
	for _, tt := range tests {
		if got := nextYear(tt.in); !got.Equal(tt.want) {
			t.Errorf("nextYear(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPredict_NonFiniteAverage(t *testing.T) {
	s := series("huge", row{day(2020, 1, 1), 1})
	for _, v := range []float64{math.Inf(1), math.NaN(), 1e300} {
		ma := model.MovingAverage{Window: 1, Points: []model.MAPoint{{Value: v, Defined: true}}}
		if p, ok := Predict(s, ma); ok {
			t.Errorf("Predict with average %v = %+v, want no prediction", v, p)
		}
	}
}

func TestPredict_MisalignedAverage(t *testing.T) {
	s := series("m", row{day(2020, 1, 1), 1}, row{day(2021, 1, 1), 2})
	ma := model.MovingAverage{Window: 1, Points: []model.MAPoint{{Value: 1, Defined: true}}}
	if _, ok := Predict(s, ma); ok {
		t.Error("expected no prediction when average is not aligned with series")
	}
}

func TestPrediction_Record(t *testing.T) {
	p := &model.Prediction{PredictedDate: day(2023, 1, 1), PredictedPrice: 1150, Window: 2, SourceLabel: "emas.csv"}
	r := p.Record()
	if r.PredictedDate != "2023-01-01" || r.PredictedPrice != 1150 || r.Window != 2 || r.SourceLabel != "emas.csv" {
		t.Errorf("record = %+v", r)
	}
}
