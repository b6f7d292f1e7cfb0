package models

import (
	"strings"
	"time"
)

const (
	DefaultSymbol     = "EURUSD=X"
	DefaultTimeframe  = TF1d
	DefaultPeriod     = Period1y
	DefaultFeatureSet = FeatureStandard
	DefaultLookBack   = 60
	DefaultEpochs     = 10
)

// PredictionParameters is the request body of POST /api/predict.
type PredictionParameters struct {
	Symbol     string     `json:"symbol"`
	Timeframe  Timeframe  `json:"timeframe"`
	Period     Period     `json:"period"`
	LookBack   int        `json:"look_back"`
	Epochs     int        `json:"epochs"`
	FeatureSet FeatureSet `json:"feature_set"`
}

// DefaultParameters returns the initial form values.
func DefaultParameters() PredictionParameters {
	return PredictionParameters{
		Symbol:     DefaultSymbol,
		Timeframe:  DefaultTimeframe,
		Period:     DefaultPeriod,
		LookBack:   DefaultLookBack,
		Epochs:     DefaultEpochs,
		FeatureSet: DefaultFeatureSet,
	}
}

// Bounds are the inclusive integer ranges a profile accepts.
type Bounds struct {
	LookBackMin int
	LookBackMax int
	EpochsMin   int
	EpochsMax   int
}

var (
	// EnvelopeBounds is the widest range the service supports.
	EnvelopeBounds = Bounds{LookBackMin: 10, LookBackMax: 200, EpochsMin: 3, EpochsMax: 50}
	// FullBounds applies to user-configured requests.
	FullBounds = Bounds{LookBackMin: 10, LookBackMax: 200, EpochsMin: 5, EpochsMax: 50}
	// UltraQuickBounds keeps the cheap profile cheap.
	UltraQuickBounds = Bounds{LookBackMin: 10, LookBackMax: 30, EpochsMin: 3, EpochsMax: 5}
)

// Clamp returns a copy of p that is safe to send: integers are forced into b
// and unknown enum values fall back to their defaults.
func (p PredictionParameters) Clamp(b Bounds) PredictionParameters {
	out := p
	out.Symbol = strings.TrimSpace(out.Symbol)
	if out.Symbol == "" {
		out.Symbol = DefaultSymbol
	}
	out.Timeframe = NormalizeTimeframe(string(out.Timeframe))
	out.Period = NormalizePeriod(string(out.Period))
	out.FeatureSet = NormalizeFeatureSet(string(out.FeatureSet))
	out.LookBack = clampInt(out.LookBack, b.LookBackMin, b.LookBackMax)
	out.Epochs = clampInt(out.Epochs, b.EpochsMin, b.EpochsMax)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ProfileName identifies one of the request profiles.
type ProfileName string

const (
	ProfileFull       ProfileName = "full"
	ProfileQuick      ProfileName = "quick"
	ProfileUltraQuick ProfileName = "ultra_quick"
)

// RequestProfile is a fully resolved outbound call: what to send and how long
// to wait for it.
type RequestProfile struct {
	Name    ProfileName
	Symbol  string
	Timeout time.Duration
	// Params is the POST body; nil for the GET-style quick lookup.
	Params *PredictionParameters
}

// FullProfile sends the clamped form parameters verbatim.
func FullProfile(p PredictionParameters, timeout time.Duration) RequestProfile {
	clamped := p.Clamp(FullBounds)
	return RequestProfile{Name: ProfileFull, Symbol: clamped.Symbol, Timeout: timeout, Params: &clamped}
}

// UltraQuickProfile replaces everything but the symbol with fixed low-cost values.
func UltraQuickProfile(symbol string, timeout time.Duration) RequestProfile {
	p := PredictionParameters{
		Symbol:     symbol,
		Timeframe:  TF1d,
		Period:     Period1mo,
		LookBack:   15,
		Epochs:     3,
		FeatureSet: FeatureBasic,
	}.Clamp(UltraQuickBounds)
	return RequestProfile{Name: ProfileUltraQuick, Symbol: p.Symbol, Timeout: timeout, Params: &p}
}

// QuickProfile asks the service to pick every parameter except the symbol.
func QuickProfile(symbol string, timeout time.Duration) RequestProfile {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return RequestProfile{Name: ProfileQuick, Symbol: symbol, Timeout: timeout}
}

// QuickSymbols are the one-click quick-prediction shortcuts.
var QuickSymbols = []string{"EURUSD", "GBPUSD", "USDJPY", "BTCUSD"}
