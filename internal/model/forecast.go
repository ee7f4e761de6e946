package model

// Forecast is the OpenWeatherMap /forecast payload: 3-hour entries in ascending time order.
type Forecast struct {
	List []ForecastItem `json:"list" validate:"dive"`
	City CityInfo       `json:"city"`
}

type ForecastItem struct {
	Dt      int64       `json:"dt" validate:"required"`
	Main    Main        `json:"main"`
	Weather []Condition `json:"weather" validate:"required,min=1,dive"`
	Wind    Wind        `json:"wind"`
	DtTxt   string      `json:"dt_txt"`
}

type CityInfo struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// PrimaryCondition returns the first condition entry of the forecast step.
func (i ForecastItem) PrimaryCondition() Condition {
	if len(i.Weather) == 0 {
		return Condition{}
	}
	return i.Weather[0]
}
