package repository

import (
	"io"
	"net/http"
	"strings"
)

// roundTripperFunc allows us to easily mock http.Client responses in tests.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newMockHTTPClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

const currentKyivJSON = `{
  "coord": {"lon": 30.5167, "lat": 50.4333},
  "weather": [{"id": 803, "main": "Clouds", "description": "хмарно", "icon": "04d"}],
  "main": {"temp": 12.6, "feels_like": 11.4, "humidity": 71, "pressure": 1016},
  "wind": {"speed": 3.4, "deg": 250},
  "sys": {"country": "UA", "sunrise": 1760761234, "sunset": 1760799876},
  "name": "Kyiv"
}`

const forecastKyivJSON = `{
  "list": [
    {"dt": 1760788800, "main": {"temp": 11.2, "feels_like": 10.1, "humidity": 80, "pressure": 1017},
     "weather": [{"id": 500, "main": "Rain", "description": "легкий дощ", "icon": "10d"}],
     "wind": {"speed": 2.1, "deg": 200}, "dt_txt": "2025-10-18 12:00:00"},
    {"dt": 1760799600, "main": {"temp": 9.8, "feels_like": 8.0, "humidity": 85, "pressure": 1018},
     "weather": [{"id": 804, "main": "Clouds", "description": "похмуро", "icon": "04n"}],
     "wind": {"speed": 1.9, "deg": 210}, "dt_txt": "2025-10-18 15:00:00"}
  ],
  "city": {"name": "Kyiv", "country": "UA"}
}`
