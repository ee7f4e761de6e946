package service

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Vitalik1800/WeatherAppAPI/internal/model"
	"github.com/Vitalik1800/WeatherAppAPI/internal/repository"
)

// BuildView renders the state for clients. Temperatures are truncated to whole degrees
// and times are reported in UTC.
func BuildView(s ScreenState) model.ScreenView {
	view := model.ScreenView{
		Location:      s.Location,
		Loading:       s.Loading,
		CycleID:       s.CycleID,
		Error:         s.ErrorMessage(),
		CurrentError:  s.CurrentError,
		ForecastError: s.ForecastError,
	}

	if w := s.Current; w != nil {
		cond := w.PrimaryCondition()
		view.Current = &model.CurrentView{
			Place:       w.Name,
			Country:     w.Sys.Country,
			Temperature: int(w.Main.Temp),
			FeelsLike:   int(w.Main.FeelsLike),
			Description: capitalize(cond.Description),
			IconURL:     repository.IconURL(cond.Icon),
			Humidity:    w.Main.Humidity,
			Pressure:    w.Main.Pressure,
			WindSpeed:   w.Wind.Speed,
			WindDeg:     w.Wind.Deg,
			Lat:         w.Coord.Lat,
			Lon:         w.Coord.Lon,
			Sunrise:     unixUTC(w.Sys.Sunrise),
			Sunset:      unixUTC(w.Sys.Sunset),
		}
	}

	if s.Forecast != nil {
		days := s.Daily()
		view.Forecast = make([]model.DayView, 0, len(days))
		for _, item := range days {
			cond := item.PrimaryCondition()
			at := time.Unix(item.Dt, 0).UTC()
			view.Forecast = append(view.Forecast, model.DayView{
				Date:        at.Format("2006-01-02"),
				Label:       at.Format("Mon, 2 Jan"),
				Temperature: int(item.Main.Temp),
				Description: cond.Description,
				IconURL:     repository.IconURL(cond.Icon),
			})
		}
	}
	return view
}

func unixUTC(sec int64) string {
	if sec == 0 {
		return ""
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
