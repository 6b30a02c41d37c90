package model

import "time"

// DateLayout is the ISO 8601 form used for persisted prediction dates.
const DateLayout = "2006-01-02"

// Prediction is the one-step forecast made from the latest moving average.
type Prediction struct {
	PredictedDate  time.Time
	PredictedPrice int64
	Window         int
	SourceLabel    string
}

// Record converts the prediction to its persisted form.
func (p *Prediction) Record() *PredictionRecord {
	return &PredictionRecord{
		PredictedDate:  p.PredictedDate.Format(DateLayout),
		PredictedPrice: p.PredictedPrice,
		Window:         p.Window,
		SourceLabel:    p.SourceLabel,
	}
}

// PredictionRecord is a stored prediction row. ID follows insertion order.
type PredictionRecord struct {
	ID             int64  `json:"id"`
	PredictedDate  string `json:"predicted_date" validate:"required,datetime=2006-01-02"`
	PredictedPrice int64  `json:"predicted_price" validate:"gte=0"`
	Window         int    `json:"window" validate:"min=1"`
	SourceLabel    string `json:"source_label" validate:"required"`
}
