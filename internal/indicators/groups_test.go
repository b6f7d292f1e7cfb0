package indicators

import (
	"testing"

	"ForexDash/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize_OrderAndOmission(t *testing.T) {
	values := map[string]models.IndicatorValue{
		"volume_ratio": models.Num(1.5),
		"rsi":          models.Num(55),
		"macd":         models.Num(-0.001),
		"sma_20":       models.Num(1.08),
		"custom":       models.Num(3),
	}

	groups := Categorize(values)
	require.Len(t, groups, 3)

	assert.Equal(t, CategoryOscillators, groups[0].Category)
	assert.Equal(t, "Oscillators", groups[0].Title)
	assert.Equal(t, CategoryTrend, groups[1].Category)
	assert.Equal(t, CategoryVolume, groups[2].Category)

	trend := groups[1].Items
	require.Len(t, trend, 2)
	assert.Equal(t, "macd", trend[0].Key)
	assert.Equal(t, "Bearish", trend[0].Status)
	assert.Equal(t, "Moving Average Convergence Divergence - trend indicator", trend[0].Description)
	assert.Equal(t, "sma_20", trend[1].Key)
	assert.Empty(t, trend[1].Description)

	assert.Equal(t, []string{"custom"}, Ungrouped(values))
}

func TestCategorize_NotNumericStillListed(t *testing.T) {
	groups := Categorize(map[string]models.IndicatorValue{"atr": models.NotNumeric})
	require.Len(t, groups, 1)
	assert.Equal(t, CategoryVolatility, groups[0].Category)
	assert.Equal(t, NotAvailable, groups[0].Items[0].Formatted)
}

func TestCategorize_Empty(t *testing.T) {
	assert.Empty(t, Categorize(nil))
}
