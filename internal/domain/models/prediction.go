package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// PredictionResult is one successful answer from the prediction service.
// It is replaced wholesale on every request, never merged.
type PredictionResult struct {
	Symbol              string                    `json:"symbol"`
	Signal              Signal                    `json:"signal"`
	Confidence          float64                   `json:"confidence"`
	CurrentPrice        float64                   `json:"current_price"`
	PredictedPrice      float64                   `json:"predicted_price"`
	Change              float64                   `json:"change"`
	ChangePercent       float64                   `json:"change_percent"`
	TechnicalIndicators map[string]IndicatorValue `json:"technical_indicators"`
	Confirmations       []string                  `json:"confirmations"`
	DataPoints          int                       `json:"data_points"`
	TrainingSamples     int                       `json:"training_samples"`
	FeaturesUsed        int                       `json:"features_used"`
	FeatureSet          string                    `json:"feature_set"`
	Timeframe           string                    `json:"timeframe"`
	Timestamp           string                    `json:"timestamp"`
}

// PredictionResponse is the envelope of /api/predict and /api/predict/{symbol}.
type PredictionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	PredictionResult
}

// Normalize fixes up fields the wire format leaves loose.
func (r *PredictionResult) Normalize() {
	r.Signal = ParseSignal(string(r.Signal))
	if r.TechnicalIndicators == nil {
		r.TechnicalIndicators = map[string]IndicatorValue{}
	}
	if r.Confirmations == nil {
		r.Confirmations = []string{}
	}
}

// IndicatorValue is a raw indicator reading. The service may send null or a
// string for indicators it could not compute; those decode as not numeric.
type IndicatorValue struct {
	Value   float64
	Numeric bool
}

// Num builds a numeric indicator value.
func Num(v float64) IndicatorValue {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return IndicatorValue{}
	}
	return IndicatorValue{Value: v, Numeric: true}
}

// NotNumeric is the value used for unparseable readings.
var NotNumeric = IndicatorValue{}

func (v *IndicatorValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' || b[0] == '"' || b[0] == '{' || b[0] == '[' || b[0] == 't' || b[0] == 'f' {
		*v = NotNumeric
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*v = NotNumeric
		return nil
	}
	*v = Num(f)
	return nil
}

func (v IndicatorValue) MarshalJSON() ([]byte, error) {
	if !v.Numeric {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

// Pair is one selectable instrument from GET /api/pairs.
type Pair struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// IndicatorSets maps a feature set name to the indicator keys it computes,
// as served by GET /api/indicators.
type IndicatorSets map[string][]string
