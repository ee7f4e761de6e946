package model

// ScreenView is the read-only rendering of the screen state handed to clients.
type ScreenView struct {
	Location      string       `json:"location"`
	Loading       bool         `json:"loading"`
	CycleID       string       `json:"cycle_id,omitempty"`
	Current       *CurrentView `json:"current,omitempty"`
	Forecast      []DayView    `json:"forecast,omitempty"`
	Error         string       `json:"error,omitempty"`
	CurrentError  string       `json:"current_error,omitempty"`
	ForecastError string       `json:"forecast_error,omitempty"`
}

type CurrentView struct {
	Place       string  `json:"place"`
	Country     string  `json:"country"`
	Temperature int     `json:"temperature"`
	FeelsLike   int     `json:"feels_like"`
	Description string  `json:"description"`
	IconURL     string  `json:"icon_url"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	WindDeg     int     `json:"wind_deg"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Sunrise     string  `json:"sunrise"`
	Sunset      string  `json:"sunset"`
}

// DayView is one daily representative of the 5-day summary.
type DayView struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	Temperature int    `json:"temperature"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
}
