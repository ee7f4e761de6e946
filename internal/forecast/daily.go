// Package forecast reduces the provider's 3-hour forecast series to a daily summary.
package forecast

import "github.com/Vitalik1800/WeatherAppAPI/internal/model"

const (
	// EntriesPerDay is the number of 3-hour steps treated as one day.
	EntriesPerDay = 8
	// MaxDays caps the summary length.
	MaxDays = 5
)

// ReduceToDaily splits the series into consecutive groups of EntriesPerDay, keeps at most
// MaxDays groups and returns the first entry of each. Grouping is positional: day one starts
// at the first entry, not at local midnight.
func ReduceToDaily(series *model.Forecast) []model.ForecastItem {
	if series == nil || len(series.List) == 0 {
		return []model.ForecastItem{}
	}

	days := make([]model.ForecastItem, 0, MaxDays)
	for i := 0; i < len(series.List) && len(days) < MaxDays; i += EntriesPerDay {
		days = append(days, series.List[i])
	}
	return days
}
