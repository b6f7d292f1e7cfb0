package usecase

import (
	"context"
	"sync"

	"ForexDash/internal/domain/models"
)

type fakePredictor struct {
	mu         sync.Mutex
	predicted  []models.PredictionParameters
	symbols    []string
	pairsCalls int
	indCalls   int
	predict    func(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error)
	predictSym func(ctx context.Context, symbol string) (*models.PredictionResponse, error)
	pairs      func(ctx context.Context) ([]models.Pair, error)
	indicators func(ctx context.Context) (models.IndicatorSets, error)
}

func (f *fakePredictor) Predict(ctx context.Context, p models.PredictionParameters) (*models.PredictionResponse, error) {
	f.mu.Lock()
	f.predicted = append(f.predicted, p)
	fn := f.predict
	f.mu.Unlock()
	if fn == nil {
		return okResponse(p.Symbol), nil
	}
	return fn(ctx, p)
}

func (f *fakePredictor) PredictSymbol(ctx context.Context, symbol string) (*models.PredictionResponse, error) {
	f.mu.Lock()
	f.symbols = append(f.symbols, symbol)
	fn := f.predictSym
	f.mu.Unlock()
	if fn == nil {
		return okResponse(symbol), nil
	}
	return fn(ctx, symbol)
}

func (f *fakePredictor) Pairs(ctx context.Context) ([]models.Pair, error) {
	f.mu.Lock()
	f.pairsCalls++
	fn := f.pairs
	f.mu.Unlock()
	if fn == nil {
		return []models.Pair{{Symbol: "EURUSD=X", Name: "EUR/USD", Category: "major"}}, nil
	}
	return fn(ctx)
}

func (f *fakePredictor) Indicators(ctx context.Context) (models.IndicatorSets, error) {
	f.mu.Lock()
	f.indCalls++
	fn := f.indicators
	f.mu.Unlock()
	if fn == nil {
		return models.IndicatorSets{"basic": {"rsi", "macd"}}, nil
	}
	return fn(ctx)
}

func (f *fakePredictor) calls() (params []models.PredictionParameters, symbols []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PredictionParameters(nil), f.predicted...), append([]string(nil), f.symbols...)
}

func okResponse(symbol string) *models.PredictionResponse {
	return &models.PredictionResponse{
		Success: true,
		PredictionResult: models.PredictionResult{
			Symbol:     symbol,
			Signal:     models.SignalBuy,
			Confidence: 70,
		},
	}
}

type fakeProgress struct {
	mu      sync.Mutex
	started []uint64
	stopped int
}

func (f *fakeProgress) Start(gen uint64) func() {
	f.mu.Lock()
	f.started = append(f.started, gen)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.stopped++
		f.mu.Unlock()
	}
}

func (f *fakeProgress) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.started), f.stopped
}
