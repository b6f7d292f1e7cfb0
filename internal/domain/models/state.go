package models

import "time"

// ErrorKind classifies why the last request failed.
type ErrorKind string

const (
	ErrorNone       ErrorKind = ""
	ErrorValidation ErrorKind = "validation"
	ErrorTimeout    ErrorKind = "timeout"
	ErrorServer     ErrorKind = "server"
	ErrorBusiness   ErrorKind = "business"
	ErrorTransport  ErrorKind = "transport"
	// ErrorCatalog marks a failed initial load of pairs or indicator sets.
	ErrorCatalog ErrorKind = "catalog"
)

// OffersFallback reports whether the user should be offered an ultra-quick retry.
func (k ErrorKind) OffersFallback() bool {
	return k == ErrorTimeout || k == ErrorTransport
}

// RequestState is an immutable snapshot of the session.
type RequestState struct {
	Loading       bool                 `json:"loading"`
	Error         string               `json:"error,omitempty"`
	ErrorKind     ErrorKind            `json:"error_kind,omitempty"`
	CanFallback   bool                 `json:"can_fallback"`
	Progress      float64              `json:"progress"`
	ProgressStage string               `json:"progress_stage,omitempty"`
	Profile       ProfileName          `json:"profile,omitempty"`
	LastSymbol    string               `json:"last_symbol,omitempty"`
	LastResult    *PredictionResult    `json:"last_result"`
	Params        PredictionParameters `json:"params"`
	APIConnected  bool                 `json:"api_connected"`
	Generation    uint64               `json:"generation"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
