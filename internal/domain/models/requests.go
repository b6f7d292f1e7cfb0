package models

// ParamsRequest is the body of PUT /api/session/params. Missing fields take
// the form defaults; out-of-range integers, zero included, are clamped, not
// rejected.
type ParamsRequest struct {
	Symbol     string `json:"symbol" default:"EURUSD=X" validate:"required,symbol"`
	Timeframe  string `json:"timeframe" default:"1d" validate:"oneof=1h 4h 1d 1wk"`
	Period     string `json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y"`
	LookBack   *int   `json:"look_back" default:"60"`
	Epochs     *int   `json:"epochs" default:"10"`
	FeatureSet string `json:"feature_set" default:"standard" validate:"oneof=basic standard advanced comprehensive"`
}

// Parameters converts the request into form parameters.
func (r *ParamsRequest) Parameters() PredictionParameters {
	return PredictionParameters{
		Symbol:     r.Symbol,
		Timeframe:  Timeframe(r.Timeframe),
		Period:     Period(r.Period),
		LookBack:   intOr(r.LookBack, DefaultLookBack),
		Epochs:     intOr(r.Epochs, DefaultEpochs),
		FeatureSet: FeatureSet(r.FeatureSet),
	}
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

// SymbolRequest optionally names the instrument of a quick trigger.
type SymbolRequest struct {
	Symbol string `json:"symbol" validate:"omitempty,symbol"`
}

// Options lists the choices of the parameter form.
type Options struct {
	Timeframes   []Timeframe `json:"timeframes"`
	Periods      []Period    `json:"periods"`
	FeatureSets  []Option    `json:"feature_sets"`
	QuickSymbols []string    `json:"quick_symbols"`
	LookBack     Range       `json:"look_back"`
	Epochs       Range       `json:"epochs"`
}

// Option is a value with its label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FormOptions describes the parameter form for the full profile.
func FormOptions() Options {
	sets := make([]Option, 0, len(FeatureSets))
	for _, fs := range FeatureSets {
		sets = append(sets, Option{Value: string(fs), Label: fs.Label()})
	}
	return Options{
		Timeframes:   Timeframes,
		Periods:      Periods,
		FeatureSets:  sets,
		QuickSymbols: QuickSymbols,
		LookBack:     Range{Min: FullBounds.LookBackMin, Max: FullBounds.LookBackMax},
		Epochs:       Range{Min: FullBounds.EpochsMin, Max: FullBounds.EpochsMax},
	}
}
