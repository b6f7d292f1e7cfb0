package presenter

import (
	"fmt"

	"ForexDash/internal/domain/models"
	"ForexDash/internal/indicators"
)

const (
	historyPoints   = 30
	chartVolatility = 0.005
	predictedLabel  = "Predicted"
)

// Chart is an illustrative price path ending at the current price, followed
// by the predicted price. The history is synthetic.
type Chart struct {
	Labels         []string         `json:"labels"`
	History        []float64        `json:"history"`
	CurrentIndex   int              `json:"current_index"`
	CurrentPrice   float64          `json:"current_price"`
	PredictedIndex int              `json:"predicted_index"`
	PredictedPrice float64          `json:"predicted_price"`
	PredictedColor indicators.Color `json:"predicted_color"`
}

// BuildChart generates the chart of r. rnd returns uniform values in [0,1);
// the noise shrinks linearly so the last historical point is exactly the
// current price.
func BuildChart(r *models.PredictionResult, rnd func() float64) Chart {
	labels := make([]string, 0, historyPoints+2)
	history := make([]float64, 0, historyPoints+1)
	amp := r.CurrentPrice * chartVolatility

	for i := historyPoints; i >= 0; i-- {
		labels = append(labels, fmt.Sprintf("T-%d", i))
		noise := (rnd() - 0.5) * amp
		history = append(history, r.CurrentPrice+noise*float64(i)/historyPoints)
	}
	labels = append(labels, predictedLabel)

	color := indicators.Red
	if r.Change > 0 {
		color = indicators.Green
	}

	return Chart{
		Labels:         labels,
		History:        history,
		CurrentIndex:   historyPoints,
		CurrentPrice:   r.CurrentPrice,
		PredictedIndex: historyPoints + 1,
		PredictedPrice: r.PredictedPrice,
		PredictedColor: color,
	}
}
