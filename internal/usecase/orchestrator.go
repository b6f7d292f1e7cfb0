package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ForexDash/internal/domain/models"
	drepo "ForexDash/internal/domain/repository"
	domsvc "ForexDash/internal/domain/service"
	"ForexDash/internal/session"
	"ForexDash/pkg/logger"
)

// Timeouts are the per-profile budgets.
type Timeouts struct {
	Full  time.Duration
	Quick time.Duration
	Ultra time.Duration
}

// ProgressStarter runs a progress simulation for one request generation.
type ProgressStarter interface {
	Start(gen uint64) (stop func())
}

// Orchestrator issues prediction requests one at a time and records their
// outcome in the session.
type Orchestrator struct {
	state     *session.State
	predictor domsvc.Predictor
	progress  ProgressStarter
	metrics   drepo.Metrics
	log       *logger.Logger
	timeouts  Timeouts
	now       func() time.Time

	// background runs started by the Start* methods
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator wires an orchestrator. metrics and log may be nil.
func NewOrchestrator(state *session.State, predictor domsvc.Predictor, progress ProgressStarter, metrics drepo.Metrics, log *logger.Logger, timeouts Timeouts) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		state:     state,
		predictor: predictor,
		progress:  progress,
		metrics:   metrics,
		log:       log.With("orchestrator"),
		timeouts:  timeouts,
		now:       time.Now,
		baseCtx:   ctx,
		cancel:    cancel,
	}
}

// RunFull sends the clamped form parameters and blocks until settlement.
func (o *Orchestrator) RunFull(ctx context.Context, params models.PredictionParameters) error {
	return o.run(ctx, models.FullProfile(params, o.timeouts.Full))
}

// RunUltraQuick sends the fixed low-cost parameters for symbol.
func (o *Orchestrator) RunUltraQuick(ctx context.Context, symbol string) error {
	return o.run(ctx, models.UltraQuickProfile(symbol, o.timeouts.Ultra))
}

// RunQuickForSymbol lets the service choose all parameters but the symbol.
func (o *Orchestrator) RunQuickForSymbol(ctx context.Context, symbol string) error {
	return o.run(ctx, models.QuickProfile(symbol, o.timeouts.Quick))
}

// StartFull is RunFull on a background goroutine. The single flight is
// acquired before it returns, so ErrInFlight is reported synchronously.
func (o *Orchestrator) StartFull(params models.PredictionParameters) error {
	return o.start(models.FullProfile(params, o.timeouts.Full))
}

func (o *Orchestrator) StartUltraQuick(symbol string) error {
	return o.start(models.UltraQuickProfile(symbol, o.timeouts.Ultra))
}

func (o *Orchestrator) StartQuickForSymbol(symbol string) error {
	return o.start(models.QuickProfile(symbol, o.timeouts.Quick))
}

// RetryWithFallback re-runs the last symbol with the ultra-quick profile. It
// is only allowed while the session offers the fallback.
func (o *Orchestrator) RetryWithFallback(ctx context.Context) error {
	p, err := o.fallbackProfile()
	if err != nil {
		return err
	}
	return o.run(ctx, p)
}

// StartFallback is RetryWithFallback on a background goroutine.
func (o *Orchestrator) StartFallback() error {
	p, err := o.fallbackProfile()
	if err != nil {
		return err
	}
	return o.start(p)
}

// Close cancels background requests and waits for them to settle.
func (o *Orchestrator) Close() {
	o.cancel()
	o.wg.Wait()
}

func (o *Orchestrator) fallbackProfile() (models.RequestProfile, error) {
	snap := o.state.Snapshot()
	if snap.Loading {
		return models.RequestProfile{}, ErrInFlight
	}
	if !snap.CanFallback {
		return models.RequestProfile{}, ErrNoFallback
	}
	symbol := snap.LastSymbol
	if symbol == "" {
		symbol = snap.Params.Symbol
	}
	return models.UltraQuickProfile(symbol, o.timeouts.Ultra), nil
}

func (o *Orchestrator) run(ctx context.Context, p models.RequestProfile) error {
	gen, ok := o.begin(p)
	if !ok {
		return ErrInFlight
	}
	o.execute(ctx, gen, p)
	return nil
}

func (o *Orchestrator) start(p models.RequestProfile) error {
	gen, ok := o.begin(p)
	if !ok {
		return ErrInFlight
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.execute(o.baseCtx, gen, p)
	}()
	return nil
}

func (o *Orchestrator) begin(p models.RequestProfile) (uint64, bool) {
	gen, ok := o.state.Begin(p.Name, p.Symbol)
	if !ok {
		o.metrics.RecordRejected(string(p.Name))
		o.log.Debug("prediction ignored, request in flight", logger.String("profile", string(p.Name)))
		return 0, false
	}
	o.log.Info("prediction started",
		logger.String("profile", string(p.Name)),
		logger.String("symbol", p.Symbol),
		logger.Uint64("generation", gen),
		logger.Duration("timeout_ms", p.Timeout),
	)
	return gen, true
}

// execute performs the one outbound call of generation gen and settles it.
// Settlement happens on every path, panics included.
func (o *Orchestrator) execute(ctx context.Context, gen uint64, p models.RequestProfile) {
	stop := o.progress.Start(gen)
	defer stop()

	o.metrics.SetInFlight(true)
	defer o.metrics.SetInFlight(false)

	started := o.now()
	var out session.Outcome
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("prediction panicked", logger.Any("panic", r), logger.Uint64("generation", gen))
			out = session.Outcome{Kind: models.ErrorTransport, Error: msgTransportPrefix + fmt.Sprint(r)}
		}
		o.settle(gen, p, out, o.now().Sub(started))
	}()

	result, reqErr := o.call(ctx, p)
	if reqErr != nil {
		out = session.Outcome{Kind: reqErr.Kind, Error: reqErr.Message}
		return
	}
	out = session.Outcome{Result: result}
}

func (o *Orchestrator) call(parent context.Context, p models.RequestProfile) (*models.PredictionResult, *RequestError) {
	ctx, cancel := context.WithTimeout(parent, p.Timeout)
	defer cancel()
	started := o.now()

	var (
		resp *models.PredictionResponse
		err  error
	)
	if p.Params != nil {
		resp, err = o.predictor.Predict(ctx, *p.Params)
	} else {
		resp, err = o.predictor.PredictSymbol(ctx, p.Symbol)
	}
	if err != nil {
		return nil, classify(ctx, parent, err, p.Timeout, o.now().Sub(started))
	}
	if resp == nil {
		return nil, businessError("")
	}
	if !resp.Success {
		return nil, businessError(resp.Error)
	}

	result := resp.PredictionResult
	result.Normalize()
	return &result, nil
}

func (o *Orchestrator) settle(gen uint64, p models.RequestProfile, out session.Outcome, elapsed time.Duration) {
	outcome := "success"
	if out.Error != "" {
		outcome = string(out.Kind)
	}
	o.metrics.RecordPrediction(string(p.Name), outcome, elapsed)

	applied := o.state.Settle(gen, out)
	fields := []logger.Field{
		logger.String("profile", string(p.Name)),
		logger.String("symbol", p.Symbol),
		logger.Uint64("generation", gen),
		logger.String("outcome", outcome),
		logger.Duration("duration_ms", elapsed),
	}
	switch {
	case !applied:
		o.log.Warn("stale prediction discarded", fields...)
	case out.Error != "":
		o.log.Warn("prediction failed", append(fields, logger.String("error", out.Error))...)
	default:
		o.log.Info("prediction settled", fields...)
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordPrediction(string, string, time.Duration) {}
func (nopMetrics) RecordRejected(string)                          {}
func (nopMetrics) RecordCatalogFetch(string, string)              {}
func (nopMetrics) SetInFlight(bool)                               {}
