package model

// CurrentWeather is the OpenWeatherMap /weather payload.
type CurrentWeather struct {
	Name    string      `json:"name"`
	Main    Main        `json:"main"`
	Weather []Condition `json:"weather" validate:"required,min=1,dive"`
	Wind    Wind        `json:"wind"`
	Sys     Sys         `json:"sys"`
	Coord   Coord       `json:"coord"`
}

// Main is the temperature block shared by current weather and forecast entries.
type Main struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
	Pressure  int     `json:"pressure"`
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

// Sys holds the country code and sunrise/sunset in epoch seconds.
type Sys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

type Coord struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// PrimaryCondition returns the first condition entry, the only one rendered.
func (w *CurrentWeather) PrimaryCondition() Condition {
	if w == nil || len(w.Weather) == 0 {
		return Condition{}
	}
	return w.Weather[0]
}
