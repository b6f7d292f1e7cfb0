// Package indicators turns raw technical indicator readings into display
// classifications and groups.
package indicators

import (
	"strconv"

	"ForexDash/internal/domain/models"
)

// Color is a hex color from the dashboard palette.
type Color string

const (
	Red   Color = "#ef4444"
	Green Color = "#22c55e"
	Blue  Color = "#3b82f6"
	Gray  Color = "#6b7280"
	Amber Color = "#f59e0b"
)

// NotAvailable is the formatted value of a non-numeric reading.
const NotAvailable = "N/A"

// Classification is derived on demand and never stored.
type Classification struct {
	Status    string `json:"status,omitempty"`
	Color     Color  `json:"color"`
	Formatted string `json:"formatted"`
}

type rule struct {
	status func(v float64) string
	color  func(v float64) Color
	format func(v float64) string
}

func band(hi, lo float64, above, below, mid string) func(float64) string {
	return func(v float64) string {
		switch {
		case v > hi:
			return above
		case v < lo:
			return below
		default:
			return mid
		}
	}
}

func bandColor(hi, lo float64) func(float64) Color {
	return func(v float64) Color {
		switch {
		case v > hi:
			return Red
		case v < lo:
			return Green
		default:
			return Blue
		}
	}
}

func sign(threshold float64, up, down string) func(float64) string {
	return func(v float64) string {
		if v > threshold {
			return up
		}
		return down
	}
}

func signColor(threshold float64) func(float64) Color {
	return func(v float64) Color {
		if v > threshold {
			return Green
		}
		return Red
	}
}

func fixed(decimals int, suffix string) func(float64) string {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', decimals, 64) + suffix
	}
}

func scaled(scale, offset float64, decimals int, suffix string) func(float64) string {
	f := fixed(decimals, suffix)
	return func(v float64) string {
		return f((v - offset) * scale)
	}
}

var (
	oscillator = rule{
		status: band(80, 20, "Overbought", "Oversold", "Normal"),
		color:  bandColor(80, 20),
		format: fixed(1, ""),
	}

	rules = map[string]rule{
		"rsi": {
			status: band(70, 30, "Overbought", "Oversold", "Normal"),
			color:  bandColor(70, 30),
			format: fixed(1, ""),
		},
		"stochastic_k": oscillator,
		"stochastic_d": oscillator,
		"bollinger_position": {
			status: band(0.8, 0.2, "Near Upper Band", "Near Lower Band", "Middle Range"),
			color:  bandColor(0.8, 0.2),
			format: scaled(100, 0, 1, "%"),
		},
		"macd": {
			status: sign(0, "Bullish", "Bearish"),
			color:  signColor(0),
		},
		"momentum_5": {
			status: sign(1, "Upward", "Downward"),
			color:  signColor(1),
			format: scaled(100, 1, 2, "%"),
		},
		"roc": {
			status: sign(0, "Positive", "Negative"),
			color:  signColor(0),
			format: fixed(2, "%"),
		},
		"volume_ratio":   {format: fixed(2, "x")},
		"price_position": {format: scaled(100, 0, 1, "%")},
	}

	defaultFormat = fixed(6, "")
)

// Classify derives status, color and formatted value for one reading.
// Unknown keys get no status, gray, and six decimals.
func Classify(key string, v models.IndicatorValue) Classification {
	if !v.Numeric {
		return Classification{Color: Gray, Formatted: NotAvailable}
	}

	r := rules[key]
	c := Classification{Color: Gray}
	if r.status != nil {
		c.Status = r.status(v.Value)
	}
	if r.color != nil {
		c.Color = r.color(v.Value)
	}
	if r.format != nil {
		c.Formatted = r.format(v.Value)
	} else {
		c.Formatted = defaultFormat(v.Value)
	}
	return c
}

// ClassifyFloat is Classify for a plain number.
func ClassifyFloat(key string, v float64) Classification {
	return Classify(key, models.Num(v))
}
