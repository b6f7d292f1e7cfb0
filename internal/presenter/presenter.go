// Package presenter prepares a prediction result for display.
package presenter

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"ForexDash/internal/domain/models"
	"ForexDash/internal/indicators"
	"ForexDash/pkg/util"
)

// SignalColor returns the accent color of a signal.
func SignalColor(s models.Signal) indicators.Color {
	switch s {
	case models.SignalBuy:
		return indicators.Green
	case models.SignalSell:
		return indicators.Red
	case models.SignalHold:
		return indicators.Amber
	default:
		return indicators.Gray
	}
}

// SignalIcon returns the icon token of a signal.
func SignalIcon(s models.Signal) string {
	switch s {
	case models.SignalBuy:
		return "📈"
	case models.SignalSell:
		return "📉"
	case models.SignalHold:
		return "⏸️"
	default:
		return "❓"
	}
}

// ConfidenceLevel buckets a 0-100 confidence.
func ConfidenceLevel(c float64) string {
	switch {
	case c >= 80:
		return "Very High"
	case c >= 60:
		return "High"
	case c >= 40:
		return "Medium"
	case c >= 20:
		return "Low"
	default:
		return "Very Low"
	}
}

// DisplaySymbol strips the "=X" suffix used for currency pairs.
func DisplaySymbol(sym string) string {
	return strings.Replace(sym, "=X", "", 1)
}

// HumanizeTag turns a confirmation tag like "rsi_oversold" into "rsi oversold".
func HumanizeTag(tag string) string {
	return strings.ReplaceAll(tag, "_", " ")
}

// Summary describes the expected move.
type Summary struct {
	Direction     string           `json:"direction"`
	Magnitude     string           `json:"magnitude"`
	Color         indicators.Color `json:"color"`
	Icon          string           `json:"icon"`
	Change        string           `json:"change"`
	ChangePercent string           `json:"change_percent"`
}

// Summarize builds the move summary of r.
func Summarize(r *models.PredictionResult) Summary {
	s := Summary{
		Direction:     "downward",
		Magnitude:     "moderate",
		Color:         indicators.Red,
		Icon:          "📉",
		Change:        signed(r.Change, 5),
		ChangePercent: signed(r.ChangePercent, 2) + "%",
	}
	if r.Change > 0 {
		s.Direction = "upward"
		s.Color = indicators.Green
		s.Icon = "📈"
	}
	if math.Abs(r.ChangePercent) > 1 {
		s.Magnitude = "significant"
	}
	return s
}

func signed(v float64, decimals int) string {
	out := strconv.FormatFloat(v, 'f', decimals, 64)
	if v > 0 {
		return "+" + out
	}
	return out
}

// ModelStats are the training figures reported with a result.
type ModelStats struct {
	DataPoints      int    `json:"data_points"`
	TrainingSamples int    `json:"training_samples"`
	FeaturesUsed    int    `json:"features_used"`
	FeatureSet      string `json:"feature_set"`
	Timeframe       string `json:"timeframe"`
}

// View is everything a renderer needs to show one result.
type View struct {
	Symbol          string             `json:"symbol"`
	DisplaySymbol   string             `json:"display_symbol"`
	Signal          models.Signal      `json:"signal"`
	SignalColor     indicators.Color   `json:"signal_color"`
	SignalIcon      string             `json:"signal_icon"`
	Confidence      float64            `json:"confidence"`
	ConfidenceLevel string             `json:"confidence_level"`
	CurrentPrice    float64            `json:"current_price"`
	PredictedPrice  float64            `json:"predicted_price"`
	Summary         Summary            `json:"summary"`
	Confirmations   []string           `json:"confirmations"`
	Indicators      []indicators.Group `json:"indicators"`
	Ungrouped       []string           `json:"ungrouped,omitempty"`
	Chart           Chart              `json:"chart"`
	Stats           ModelStats         `json:"stats"`
	GeneratedAt     *time.Time         `json:"generated_at,omitempty"`
}

// Option configures Presenter.
type Option func(*Presenter)

// WithRand sets the source of uniform values in [0,1) used by the chart.
func WithRand(rnd func() float64) Option {
	return func(p *Presenter) {
		if rnd != nil {
			p.rnd = rnd
		}
	}
}

// Presenter builds views. The zero value is not usable; call New.
type Presenter struct {
	rnd func() float64
}

func New(opts ...Option) *Presenter {
	p := &Presenter{rnd: rand.Float64}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build assembles the view of r.
func (p *Presenter) Build(r *models.PredictionResult) View {
	tags := make([]string, 0, len(r.Confirmations))
	for _, c := range r.Confirmations {
		tags = append(tags, HumanizeTag(c))
	}

	v := View{
		Symbol:          r.Symbol,
		DisplaySymbol:   DisplaySymbol(r.Symbol),
		Signal:          r.Signal,
		SignalColor:     SignalColor(r.Signal),
		SignalIcon:      SignalIcon(r.Signal),
		Confidence:      r.Confidence,
		ConfidenceLevel: ConfidenceLevel(r.Confidence),
		CurrentPrice:    r.CurrentPrice,
		PredictedPrice:  r.PredictedPrice,
		Summary:         Summarize(r),
		Confirmations:   tags,
		Indicators:      indicators.Categorize(r.TechnicalIndicators),
		Ungrouped:       indicators.Ungrouped(r.TechnicalIndicators),
		Chart:           BuildChart(r, p.rnd),
		Stats: ModelStats{
			DataPoints:      r.DataPoints,
			TrainingSamples: r.TrainingSamples,
			FeaturesUsed:    r.FeaturesUsed,
			FeatureSet:      r.FeatureSet,
			Timeframe:       r.Timeframe,
		},
	}
	if ts, ok := util.ParseTime(r.Timestamp); ok {
		v.GeneratedAt = &ts
	}
	return v
}
