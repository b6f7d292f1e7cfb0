package indicators

import (
	"sort"

	"ForexDash/internal/domain/models"
)

// Category identifies one indicator group.
type Category string

const (
	CategoryOscillators Category = "oscillators"
	CategoryTrend       Category = "trend"
	CategoryMomentum    Category = "momentum"
	CategoryVolatility  Category = "volatility"
	CategoryVolume      Category = "volume"
	CategoryOther       Category = "other"
)

type category struct {
	id    Category
	title string
	icon  string
	keys  []string
}

var categories = []category{
	{CategoryOscillators, "Oscillators", "🌊", []string{"rsi", "stochastic_k", "stochastic_d", "bollinger_position"}},
	{CategoryTrend, "Trend Indicators", "📈", []string{"macd", "macd_signal", "sma_10", "sma_20", "sma_50", "ema_12", "ema_26"}},
	{CategoryMomentum, "Momentum", "⚡", []string{"momentum_5", "roc"}},
	{CategoryVolatility, "Volatility", "📊", []string{"atr", "bollinger_width"}},
	{CategoryVolume, "Volume", "📦", []string{"volume_ratio"}},
	{CategoryOther, "Price Position", "🎯", []string{"price_position"}},
}

// Item is one classified indicator ready for display.
type Item struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Classification
}

// Group is a titled list of indicators present in a result.
type Group struct {
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Icon     string   `json:"icon"`
	Items    []Item   `json:"items"`
}

// NewItem classifies one key.
func NewItem(key string, v models.IndicatorValue) Item {
	it := Item{
		Key:            key,
		Name:           DisplayName(key),
		Classification: Classify(key, v),
	}
	if HasDescription(key) {
		it.Description = Describe(key)
	}
	return it
}

// Categorize buckets values into the fixed categories in their fixed order.
// Categories with none of their keys present are omitted; keys outside every
// category are not shown.
func Categorize(values map[string]models.IndicatorValue) []Group {
	out := make([]Group, 0, len(categories))
	for _, c := range categories {
		var items []Item
		for _, k := range c.keys {
			v, ok := values[k]
			if !ok {
				continue
			}
			items = append(items, NewItem(k, v))
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, Group{Category: c.id, Title: c.title, Icon: c.icon, Items: items})
	}
	return out
}

// Ungrouped returns the keys present in values that belong to no category, sorted.
func Ungrouped(values map[string]models.IndicatorValue) []string {
	known := make(map[string]struct{})
	for _, c := range categories {
		for _, k := range c.keys {
			known[k] = struct{}{}
		}
	}
	var out []string
	for k := range values {
		if _, ok := known[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
