package indicators

import "strings"

var names = map[string]string{
	"rsi":                "RSI (14)",
	"macd":               "MACD",
	"macd_signal":        "MACD Signal",
	"sma_10":             "SMA 10",
	"sma_20":             "SMA 20",
	"sma_50":             "SMA 50",
	"ema_12":             "EMA 12",
	"ema_26":             "EMA 26",
	"bollinger_position": "Bollinger Position",
	"bollinger_width":    "Bollinger Width",
	"stochastic_k":       "Stochastic %K",
	"stochastic_d":       "Stochastic %D",
	"atr":                "ATR",
	"momentum_5":         "Momentum (5)",
	"roc":                "ROC (12)",
	"price_position":     "Price Position",
	"volume_ratio":       "Volume Ratio",
}

var descriptions = map[string]string{
	"rsi":                "Relative Strength Index - momentum oscillator (0-100)",
	"macd":               "Moving Average Convergence Divergence - trend indicator",
	"bollinger_position": "Position within Bollinger Bands (0-1)",
	"stochastic_k":       "Stochastic %K - momentum indicator (0-100)",
	"atr":                "Average True Range - volatility measure",
	"momentum_5":         "5-period momentum - price velocity",
	"roc":                "Rate of Change - price momentum over 12 periods",
}

// DisplayName returns the label for key, e.g. "rsi" -> "RSI (14)".
func DisplayName(key string) string {
	if n, ok := names[key]; ok {
		return n
	}
	return humanize(key)
}

// Describe returns a one-line explanation of key.
func Describe(key string) string {
	if d, ok := descriptions[key]; ok {
		return d
	}
	return humanize(key)
}

// HasDescription reports whether key has a curated description.
func HasDescription(key string) bool {
	_, ok := descriptions[key]
	return ok
}

func humanize(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "_", " "))
}
