package service

import (
	"context"

	"ForexDash/internal/domain/models"
)

// Predictor is the remote prediction service.
type Predictor interface {
	// Predict posts params to /api/predict.
	Predict(ctx context.Context, params models.PredictionParameters) (*models.PredictionResponse, error)
	// PredictSymbol asks the service to choose every parameter except the symbol.
	PredictSymbol(ctx context.Context, symbol string) (*models.PredictionResponse, error)
	Pairs(ctx context.Context) ([]models.Pair, error)
	Indicators(ctx context.Context) (models.IndicatorSets, error)
}
