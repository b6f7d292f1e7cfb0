package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ForexDash/internal/domain/models"
	"ForexDash/internal/services/predictor"
	"ForexDash/internal/session"
	xhttp "ForexDash/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTimeouts = Timeouts{Full: time.Second, Quick: time.Second, Ultra: time.Second}

func newTestOrchestrator(p *fakePredictor, timeouts Timeouts) (*Orchestrator, *session.State, *fakeProgress) {
	state := session.New(models.DefaultParameters())
	prog := &fakeProgress{}
	return NewOrchestrator(state, p, prog, nil, nil, timeouts), state, prog
}

func TestRunFull_SendsClampedParams(t *testing.T) {
	fp := &fakePredictor{}
	o, state, prog := newTestOrchestrator(fp, testTimeouts)

	params := models.PredictionParameters{
		Symbol:     "GBPUSD=X",
		Timeframe:  models.TF4h,
		Period:     models.Period2y,
		LookBack:   999,
		Epochs:     1,
		FeatureSet: models.FeatureComprehensive,
	}
	require.NoError(t, o.RunFull(context.Background(), params))

	sent, symbols := fp.calls()
	require.Len(t, sent, 1)
	assert.Empty(t, symbols)
	assert.Equal(t, models.PredictionParameters{
		Symbol:     "GBPUSD=X",
		Timeframe:  models.TF4h,
		Period:     models.Period2y,
		LookBack:   200,
		Epochs:     5,
		FeatureSet: models.FeatureComprehensive,
	}, sent[0])

	snap := state.Snapshot()
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.LastResult)
	assert.Equal(t, "GBPUSD=X", snap.LastResult.Symbol)
	assert.Empty(t, snap.Error)

	started, stopped := prog.counts()
	assert.Equal(t, 1, started)
	assert.Equal(t, 1, stopped)
}

func TestRunUltraQuick_FixedOverride(t *testing.T) {
	fp := &fakePredictor{}
	o, _, _ := newTestOrchestrator(fp, testTimeouts)

	require.NoError(t, o.RunUltraQuick(context.Background(), "USDJPY=X"))

	sent, _ := fp.calls()
	require.Len(t, sent, 1)
	assert.Equal(t, models.PredictionParameters{
		Symbol:     "USDJPY=X",
		Timeframe:  models.TF1d,
		Period:     models.Period1mo,
		LookBack:   15,
		Epochs:     3,
		FeatureSet: models.FeatureBasic,
	}, sent[0])
}

func TestRunQuickForSymbol_UsesSymbolLookup(t *testing.T) {
	fp := &fakePredictor{}
	o, state, _ := newTestOrchestrator(fp, testTimeouts)

	require.NoError(t, o.RunQuickForSymbol(context.Background(), "BTCUSD"))

	sent, symbols := fp.calls()
	assert.Empty(t, sent)
	assert.Equal(t, []string{"BTCUSD"}, symbols)
	assert.Equal(t, "BTCUSD", state.Snapshot().LastResult.Symbol)
}

func TestRun_NoOpWhileLoading(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	fp := &fakePredictor{
		predict: func(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error) {
			close(entered)
			<-release
			return okResponse(p.Symbol), nil
		},
	}
	o, state, _ := newTestOrchestrator(fp, testTimeouts)

	require.NoError(t, o.StartFull(models.DefaultParameters()))
	<-entered
	before := state.Snapshot()
	assert.True(t, before.Loading)

	assert.ErrorIs(t, o.RunFull(context.Background(), models.DefaultParameters()), ErrInFlight)
	assert.ErrorIs(t, o.StartUltraQuick("EURUSD=X"), ErrInFlight)
	assert.ErrorIs(t, o.RunQuickForSymbol(context.Background(), "EURUSD"), ErrInFlight)

	after := state.Snapshot()
	assert.Equal(t, before, after)
	sent, symbols := fp.calls()
	assert.Len(t, sent, 1)
	assert.Empty(t, symbols)

	close(release)
	o.Close()
	assert.False(t, state.Snapshot().Loading)
}

func TestRunFull_Timeout(t *testing.T) {
	fp := &fakePredictor{
		predict: func(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error) {
			<-ctx.Done()
			return nil, fmt.Errorf("post /api/predict: %w", ctx.Err())
		},
	}
	o, state, _ := newTestOrchestrator(fp, Timeouts{Full: 30 * time.Millisecond, Quick: time.Second, Ultra: time.Second})

	require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))

	snap := state.Snapshot()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.LastResult)
	assert.Equal(t, models.ErrorTimeout, snap.ErrorKind)
	assert.Equal(t, "Request timed out after 30ms. Model training takes time: reduce epochs or use the basic feature set.", snap.Error)
	assert.True(t, snap.CanFallback)
}

func TestRunFull_CallerDeadlineReportsTimeSpent(t *testing.T) {
	fp := &fakePredictor{
		predict: func(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error) {
			<-ctx.Done()
			return nil, fmt.Errorf("post /api/predict: %w", ctx.Err())
		},
	}
	o, state, _ := newTestOrchestrator(fp, Timeouts{Full: 600 * time.Second, Quick: time.Second, Ultra: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, o.RunFull(ctx, models.DefaultParameters()))

	snap := state.Snapshot()
	assert.Equal(t, models.ErrorTimeout, snap.ErrorKind)
	assert.NotContains(t, snap.Error, "600s")

	spent, _, ok := strings.Cut(strings.TrimPrefix(snap.Error, "Request timed out after "), ". ")
	require.True(t, ok, snap.Error)
	d, err := time.ParseDuration(spent)
	require.NoError(t, err, snap.Error)
	assert.GreaterOrEqual(t, d, 40*time.Millisecond)
	assert.Less(t, d, 600*time.Second)
}

func TestClassify_Deadlines(t *testing.T) {
	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()
	perCallFromExpired, cancel1 := context.WithTimeout(expired, 600*time.Second)
	defer cancel1()

	perCallExpired, cancel2 := context.WithTimeout(context.Background(), -time.Second)
	defer cancel2()

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	perCallFromCanceled, cancel3 := context.WithTimeout(canceled, 600*time.Second)
	defer cancel3()

	wrapped := func(err error) error { return fmt.Errorf("post /api/predict: %w", err) }

	tests := []struct {
		name     string
		ctx      context.Context
		parent   context.Context
		err      error
		wantKind models.ErrorKind
		wantMsg  string
	}{
		{
			name: "per-call budget", ctx: perCallExpired, parent: context.Background(),
			err: wrapped(context.DeadlineExceeded), wantKind: models.ErrorTimeout,
			wantMsg: "Request timed out after 600s. Model training takes time: reduce epochs or use the basic feature set.",
		},
		{
			name: "caller deadline", ctx: perCallFromExpired, parent: expired,
			err: wrapped(context.DeadlineExceeded), wantKind: models.ErrorTimeout,
			wantMsg: "Request timed out after 54ms. Model training takes time: reduce epochs or use the basic feature set.",
		},
		{
			name: "caller cancel", ctx: perCallFromCanceled, parent: canceled,
			err: wrapped(context.Canceled), wantKind: models.ErrorTransport,
			wantMsg: "Failed to connect to API: post /api/predict: context canceled",
		},
		{
			name: "limiter refusal", ctx: context.Background(), parent: context.Background(),
			err: wrapped(fmt.Errorf("%w: rate: Wait(n=1) would exceed context deadline", xhttp.ErrRateLimited)), wantKind: models.ErrorTransport,
			wantMsg: msgRateLimited,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.ctx, tt.parent, tt.err, 600*time.Second, 54*time.Millisecond+300*time.Microsecond)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}
}

func TestRunFull_ClientRateLimitIsReportedCleanly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "symbol": "EURUSD=X", "signal": "BUY", "confidence": 70}`))
	}))
	defer srv.Close()

	state := session.New(models.DefaultParameters())
	client := predictor.NewClient(srv.URL, xhttp.WithRateLimit(0.001, 1))
	o := NewOrchestrator(state, client, &fakeProgress{}, nil, nil, testTimeouts)

	require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))
	require.NotNil(t, state.Snapshot().LastResult)

	// the next token is ~1000s away, far past the 1s budget
	require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))

	snap := state.Snapshot()
	assert.Equal(t, models.ErrorTransport, snap.ErrorKind)
	assert.Equal(t, "Failed to connect to API: too many requests, try again in a moment", snap.Error)
	assert.NotContains(t, snap.Error, "rate:")
}

func TestRunFull_BusinessFailure(t *testing.T) {
	fp := &fakePredictor{
		predict: func(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error) {
			return &models.PredictionResponse{Success: false, Error: "insufficient data"}, nil
		},
	}
	o, state, _ := newTestOrchestrator(fp, testTimeouts)

	require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))

	snap := state.Snapshot()
	assert.Equal(t, "insufficient data", snap.Error)
	assert.Equal(t, models.ErrorBusiness, snap.ErrorKind)
	assert.Nil(t, snap.LastResult)
	assert.False(t, snap.Loading)
	assert.False(t, snap.CanFallback)
}

func TestRunFull_BusinessFailureWithoutMessage(t *testing.T) {
	fp := &fakePredictor{
		predict: func(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error) {
			return &models.PredictionResponse{Success: false}, nil
		},
	}
	o, state, _ := newTestOrchestrator(fp, testTimeouts)
	require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))
	assert.Equal(t, "Prediction failed", state.Snapshot().Error)
}

func TestRunFull_ServerError(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"success": false, "error": "model crashed"}`, "model crashed"},
		{`{"message": "bad symbol"}`, "bad symbol"},
		{`{"detail": "nope"}`, "Server error"},
		{`<html>502</html>`, "Server error"},
		{``, "Server error"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			fp := &fakePredictor{
				predict: func(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error) {
					return nil, fmt.Errorf("post /api/predict: %w", &xhttp.StatusError{StatusCode: 500, Body: []byte(c.body)})
				},
			}
			o, state, _ := newTestOrchestrator(fp, testTimeouts)
			require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))

			snap := state.Snapshot()
			assert.Equal(t, c.want, snap.Error)
			assert.Equal(t, models.ErrorServer, snap.ErrorKind)
			assert.False(t, snap.CanFallback)
		})
	}
}

func TestRunFull_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	state := session.New(models.DefaultParameters())
	o := NewOrchestrator(state, predictor.NewClient(addr), &fakeProgress{}, nil, nil, testTimeouts)

	require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))

	snap := state.Snapshot()
	assert.Equal(t, models.ErrorTransport, snap.ErrorKind)
	assert.True(t, strings.HasPrefix(snap.Error, "Failed to connect to API: "), snap.Error)
	assert.NotContains(t, snap.Error, "post /api/predict")
	assert.True(t, snap.CanFallback)
	assert.False(t, snap.Loading)
}

func TestRunFull_DecodeFailureIsBusiness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	state := session.New(models.DefaultParameters())
	o := NewOrchestrator(state, predictor.NewClient(srv.URL), &fakeProgress{}, nil, nil, testTimeouts)
	require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))

	snap := state.Snapshot()
	assert.Equal(t, models.ErrorBusiness, snap.ErrorKind)
	assert.Equal(t, "Prediction failed", snap.Error)
}

func TestRun_PanicStillSettles(t *testing.T) {
	fp := &fakePredictor{
		predict: func(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error) {
			panic("boom")
		},
	}
	o, state, prog := newTestOrchestrator(fp, testTimeouts)

	require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))

	snap := state.Snapshot()
	assert.False(t, snap.Loading)
	assert.NotEmpty(t, snap.Error)
	_, stopped := prog.counts()
	assert.Equal(t, 1, stopped)

	// the session is re-triggerable
	fp.mu.Lock()
	fp.predict = nil
	fp.mu.Unlock()
	require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))
	assert.NotNil(t, state.Snapshot().LastResult)
}

func TestRetryWithFallback(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	fp := &fakePredictor{
		predictSym: func(ctx context.Context, symbol string) (*models.PredictionResponse, error) {
			return nil, errors.New("connection reset")
		},
		predict: func(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error) {
			if failing.Load() {
				return &models.PredictionResponse{Success: false, Error: "insufficient data"}, nil
			}
			return okResponse(p.Symbol), nil
		},
	}
	o, state, _ := newTestOrchestrator(fp, testTimeouts)

	// nothing failed yet
	assert.ErrorIs(t, o.RetryWithFallback(context.Background()), ErrNoFallback)

	// business failures do not offer the fallback
	require.NoError(t, o.RunFull(context.Background(), models.DefaultParameters()))
	assert.ErrorIs(t, o.RetryWithFallback(context.Background()), ErrNoFallback)

	// a transport failure does
	require.NoError(t, o.RunQuickForSymbol(context.Background(), "GBPUSD"))
	snap := state.Snapshot()
	require.True(t, snap.CanFallback)
	assert.Equal(t, "Failed to connect to API: connection reset", snap.Error)

	failing.Store(false)
	require.NoError(t, o.RetryWithFallback(context.Background()))

	sent, _ := fp.calls()
	last := sent[len(sent)-1]
	assert.Equal(t, "GBPUSD", last.Symbol)
	assert.Equal(t, models.Period1mo, last.Period)
	assert.Equal(t, 3, last.Epochs)

	snap = state.Snapshot()
	assert.Equal(t, models.ProfileUltraQuick, snap.Profile)
	assert.NotNil(t, snap.LastResult)
	assert.False(t, snap.CanFallback)
}

func TestStart_LoadingThroughoutAndReleasedAfter(t *testing.T) {
	release := make(chan struct{})
	fp := &fakePredictor{
		predictSym: func(ctx context.Context, symbol string) (*models.PredictionResponse, error) {
			<-release
			return okResponse(symbol), nil
		},
	}
	o, state, _ := newTestOrchestrator(fp, testTimeouts)
	updates, cancel := state.Subscribe()
	defer cancel()
	<-updates

	require.NoError(t, o.StartQuickForSymbol("EURUSD"))
	assert.True(t, state.Snapshot().Loading)
	assert.True(t, (<-updates).Loading)

	close(release)
	settled := <-updates
	assert.False(t, settled.Loading)
	require.NotNil(t, settled.LastResult)
	o.Close()
}

func TestClose_CancelsBackgroundRequest(t *testing.T) {
	fp := &fakePredictor{
		predict: func(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	o, state, _ := newTestOrchestrator(fp, Timeouts{Full: time.Hour, Quick: time.Hour, Ultra: time.Hour})

	require.NoError(t, o.StartFull(models.DefaultParameters()))
	o.Close()

	snap := state.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, models.ErrorTransport, snap.ErrorKind)
}

func TestFormatBudget(t *testing.T) {
	assert.Equal(t, "600s", formatBudget(10*time.Minute))
	assert.Equal(t, "60s", formatBudget(time.Minute))
	assert.Equal(t, "1.5s", formatBudget(1500*time.Millisecond))
	assert.Equal(t, "30ms", formatBudget(30*time.Millisecond))
}
