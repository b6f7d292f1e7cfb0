package models

// Timeframe is the candle resolution the model trains on.
type Timeframe string

const (
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
	TF1wk Timeframe = "1wk"
)

// Period is how much history the service downloads.
type Period string

const (
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
)

// FeatureSet selects which technical indicators feed the model.
type FeatureSet string

const (
	FeatureBasic         FeatureSet = "basic"
	FeatureStandard      FeatureSet = "standard"
	FeatureAdvanced      FeatureSet = "advanced"
	FeatureComprehensive FeatureSet = "comprehensive"
)

// Timeframes lists the supported timeframes in display order.
var Timeframes = []Timeframe{TF1h, TF4h, TF1d, TF1wk}

// Periods lists the supported periods in display order.
var Periods = []Period{Period1mo, Period3mo, Period6mo, Period1y, Period2y}

// FeatureSets lists the supported feature sets from cheapest to richest.
var FeatureSets = []FeatureSet{FeatureBasic, FeatureStandard, FeatureAdvanced, FeatureComprehensive}

// IsValid returns true if tf is a supported timeframe.
func (tf Timeframe) IsValid() bool {
	switch tf {
	case TF1h, TF4h, TF1d, TF1wk:
		return true
	default:
		return false
	}
}

// NormalizeTimeframe converts a raw string to a valid timeframe (or the default).
func NormalizeTimeframe(s string) Timeframe {
	tf := Timeframe(s)
	if tf.IsValid() {
		return tf
	}
	return DefaultTimeframe
}

func (p Period) IsValid() bool {
	switch p {
	case Period1mo, Period3mo, Period6mo, Period1y, Period2y:
		return true
	default:
		return false
	}
}

// NormalizePeriod converts a raw string to a valid period (or the default).
func NormalizePeriod(s string) Period {
	p := Period(s)
	if p.IsValid() {
		return p
	}
	return DefaultPeriod
}

func (fs FeatureSet) IsValid() bool {
	switch fs {
	case FeatureBasic, FeatureStandard, FeatureAdvanced, FeatureComprehensive:
		return true
	default:
		return false
	}
}

// NormalizeFeatureSet converts a raw string to a valid feature set (or the default).
func NormalizeFeatureSet(s string) FeatureSet {
	fs := FeatureSet(s)
	if fs.IsValid() {
		return fs
	}
	return DefaultFeatureSet
}

// Label is the human description used by the parameter form.
func (fs FeatureSet) Label() string {
	switch fs {
	case FeatureBasic:
		return "Basic (4 indicators)"
	case FeatureStandard:
		return "Standard (7 indicators)"
	case FeatureAdvanced:
		return "Advanced (9 indicators)"
	case FeatureComprehensive:
		return "Comprehensive (17+ indicators)"
	default:
		return string(fs)
	}
}

// Signal is the trading recommendation returned by the service.
type Signal string

const (
	SignalBuy     Signal = "BUY"
	SignalSell    Signal = "SELL"
	SignalHold    Signal = "HOLD"
	SignalUnknown Signal = "unknown"
)

// ParseSignal maps anything that is not BUY, SELL or HOLD to SignalUnknown.
func ParseSignal(s string) Signal {
	switch Signal(s) {
	case SignalBuy, SignalSell, SignalHold:
		return Signal(s)
	default:
		return SignalUnknown
	}
}

// UnmarshalText keeps unknown signals representable instead of failing the decode.
func (s *Signal) UnmarshalText(b []byte) error {
	*s = ParseSignal(string(b))
	return nil
}
