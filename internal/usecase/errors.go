package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"ForexDash/internal/domain/models"
	xhttp "ForexDash/pkg/http"
)

var (
	// ErrInFlight is returned when a trigger arrives while a request is loading.
	ErrInFlight = errors.New("prediction request already in flight")
	// ErrNoFallback is returned by RetryWithFallback when no fallback is offered.
	ErrNoFallback = errors.New("fallback not offered")
)

const (
	msgServerError        = "Server error"
	msgPredictionFailed   = "Prediction failed"
	msgTransportPrefix    = "Failed to connect to API: "
	msgRateLimited        = "Failed to connect to API: too many requests, try again in a moment"
	msgCatalogUnreachable = "Failed to connect to API. Make sure the prediction service is reachable."
)

// RequestError is a classified request failure. Message is what the user sees.
type RequestError struct {
	Kind    models.ErrorKind
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func timeoutError(budget time.Duration, err error) *RequestError {
	return &RequestError{
		Kind: models.ErrorTimeout,
		Message: fmt.Sprintf("Request timed out after %s. Model training takes time: reduce epochs or use the basic feature set.",
			formatBudget(budget)),
		Err: err,
	}
}

func businessError(msg string) *RequestError {
	if strings.TrimSpace(msg) == "" {
		msg = msgPredictionFailed
	}
	return &RequestError{Kind: models.ErrorBusiness, Message: msg}
}

// classify maps a failed call onto the error taxonomy. ctx is the per-call
// context derived from parent with the profile budget. Only that deadline is
// reported as the budget; a caller deadline reports the time actually spent.
func classify(ctx, parent context.Context, err error, budget, elapsed time.Duration) *RequestError {
	if parent.Err() == nil && (errors.Is(ctx.Err(), context.DeadlineExceeded) || elapsed >= budget) {
		return timeoutError(budget, err)
	}
	if errors.Is(parent.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return timeoutError(elapsed.Round(time.Millisecond), err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return timeoutError(elapsed.Round(time.Millisecond), err)
	}

	if errors.Is(err, xhttp.ErrRateLimited) {
		return &RequestError{Kind: models.ErrorTransport, Message: msgRateLimited, Err: err}
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return &RequestError{Kind: models.ErrorServer, Message: serverMessage(se.Body), Err: err}
	}

	if errors.Is(err, xhttp.ErrDecode) {
		return &RequestError{Kind: models.ErrorBusiness, Message: msgPredictionFailed, Err: err}
	}

	return &RequestError{Kind: models.ErrorTransport, Message: msgTransportPrefix + transportReason(err), Err: err}
}

// serverMessage pulls the message out of an error payload, falling back to
// a generic one when the payload has none.
func serverMessage(body []byte) string {
	var payload struct {
		Error   interface{} `json:"error"`
		Message interface{} `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return msgServerError
	}
	for _, v := range []interface{}{payload.Error, payload.Message} {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return msgServerError
}

func transportReason(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}

func formatBudget(d time.Duration) string {
	if d >= time.Second && d%time.Second == 0 {
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
	return d.String()
}
