package indicators

import (
	"math"
	"testing"

	"ForexDash/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		key  string
		v    float64
		want Classification
	}{
		{"rsi boundary is normal", "rsi", 70, Classification{"Normal", Blue, "70.0"}},
		{"rsi overbought", "rsi", 70.0001, Classification{"Overbought", Red, "70.0"}},
		{"rsi oversold", "rsi", 29.99, Classification{"Oversold", Green, "30.0"}},
		{"rsi low boundary", "rsi", 30, Classification{"Normal", Blue, "30.0"}},
		{"stochastic k overbought", "stochastic_k", 80.5, Classification{"Overbought", Red, "80.5"}},
		{"stochastic d oversold", "stochastic_d", 12.34, Classification{"Oversold", Green, "12.3"}},
		{"stochastic d boundary", "stochastic_d", 80, Classification{"Normal", Blue, "80.0"}},
		{"bollinger upper", "bollinger_position", 0.85, Classification{"Near Upper Band", Red, "85.0%"}},
		{"bollinger lower", "bollinger_position", 0.1, Classification{"Near Lower Band", Green, "10.0%"}},
		{"bollinger middle", "bollinger_position", 0.5, Classification{"Middle Range", Blue, "50.0%"}},
		{"macd bullish", "macd", 0.000123, Classification{"Bullish", Green, "0.000123"}},
		{"macd zero is bearish", "macd", 0, Classification{"Bearish", Red, "0.000000"}},
		{"momentum upward", "momentum_5", 1.02, Classification{"Upward", Green, "2.00%"}},
		{"momentum downward", "momentum_5", 0.99, Classification{"Downward", Red, "-1.00%"}},
		{"momentum flat", "momentum_5", 1, Classification{"Downward", Red, "0.00%"}},
		{"roc positive", "roc", 1.234, Classification{"Positive", Green, "1.23%"}},
		{"roc negative", "roc", -0.5, Classification{"Negative", Red, "-0.50%"}},
		{"volume ratio", "volume_ratio", 1.5, Classification{"", Gray, "1.50x"}},
		{"price position", "price_position", 0.123, Classification{"", Gray, "12.3%"}},
		{"unknown key", "sma_20", 1.0845671234, Classification{"", Gray, "1.084567"}},
		{"never seen key", "obv", 12, Classification{"", Gray, "12.000000"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ClassifyFloat(c.key, c.v))
		})
	}
}

func TestClassify_NotNumeric(t *testing.T) {
	for _, key := range []string{"rsi", "momentum_5", "volume_ratio", "whatever"} {
		got := Classify(key, models.NotNumeric)
		assert.Equal(t, Classification{Color: Gray, Formatted: NotAvailable}, got, key)
	}
	assert.Equal(t, NotAvailable, ClassifyFloat("rsi", math.NaN()).Formatted)
	assert.Equal(t, NotAvailable, ClassifyFloat("macd", math.Inf(1)).Formatted)
}

func TestClassify_Idempotent(t *testing.T) {
	for key := range rules {
		v := models.Num(0.42)
		assert.Equal(t, Classify(key, v), Classify(key, v), key)
	}
}

func TestDisplayNameAndDescribe(t *testing.T) {
	assert.Equal(t, "RSI (14)", DisplayName("rsi"))
	assert.Equal(t, "Stochastic %D", DisplayName("stochastic_d"))
	assert.Equal(t, "ON BALANCE VOLUME", DisplayName("on_balance_volume"))

	assert.Equal(t, "Average True Range - volatility measure", Describe("atr"))
	assert.Equal(t, "SMA 20", DisplayName("sma_20"))
	assert.Equal(t, "SMA 20", Describe("sma_20"))
	assert.False(t, HasDescription("sma_20"))
	assert.True(t, HasDescription("roc"))
}
