package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Vitalik1800/WeatherAppAPI/internal/config"
	"github.com/Vitalik1800/WeatherAppAPI/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
)

const (
	weatherEndpoint  = "/weather"
	forecastEndpoint = "/forecast"
)

// Custom error types
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrAPIKeyMissing    = errors.New("API key missing")
)

var validate = validator.New()

// HTTPError is returned when the provider answers with a non-2xx status.
type HTTPError struct {
	Code    int
	Reason  string
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d %s: %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("HTTP %d %s", e.Code, e.Reason)
}

func (e *HTTPError) StatusCode() int { return e.Code }

func (e *HTTPError) StatusReason() string { return e.Reason }

// Is makes a 404 match ErrLocationNotFound.
func (e *HTTPError) Is(target error) bool {
	return target == ErrLocationNotFound && e.Code == http.StatusNotFound
}

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	FetchCurrent(ctx context.Context, location string) (*model.CurrentWeather, error)
	FetchCurrentByCoords(ctx context.Context, lat, lon float64) (*model.CurrentWeather, error)
	FetchForecast(ctx context.Context, location string) (*model.Forecast, error)
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	client *resty.Client
	apiKey string
}

// NewWeatherRepository creates a new weather repository instance. Every request it sends
// carries the credential, unit system and language from cfg.
func NewWeatherRepository(cfg config.OpenWeatherMapConfig, httpClient ...*http.Client) WeatherRepository {
	client := &http.Client{}
	if len(httpClient) > 0 && httpClient[0] != nil {
		// resty sets the timeout on the client it wraps; keep the caller's untouched.
		injected := *httpClient[0]
		client = &injected
	}

	rc := resty.NewWithClient(client).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetLogger(config.GetLogger()).
		SetQueryParams(map[string]string{
			"appid": cfg.APIKey,
			"units": cfg.Units,
			"lang":  cfg.Lang,
		})
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	traceRequests(rc)

	return &weatherRepository{
		client: rc,
		apiKey: cfg.APIKey,
	}
}

// traceRequests logs every exchange with the provider. The credential is redacted.
func traceRequests(rc *resty.Client) {
	log := config.GetLogger()
	rc.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		log.Debugw("Weather API request", "method", req.Method, "path", req.URL, "query", req.QueryParam.Encode())
		return nil
	})
	rc.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		target := ""
		if resp.Request != nil && resp.Request.RawRequest != nil {
			target = redact(resp.Request.RawRequest.URL)
		}
		log.Infow("Weather API response",
			"url", target,
			"status", resp.StatusCode(),
			"duration", resp.Time().String(),
			"bytes", len(resp.Body()),
		)
		return nil
	})
	rc.OnError(func(req *resty.Request, err error) {
		log.Warnw("Weather API request failed", "path", req.URL, "error", err)
	})
}

func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	cp := *u
	q := cp.Query()
	if q.Has("appid") {
		q.Set("appid", "***")
	}
	cp.RawQuery = q.Encode()
	return cp.String()
}

// FetchCurrent retrieves current conditions for a free-text location.
func (r *weatherRepository) FetchCurrent(ctx context.Context, location string) (*model.CurrentWeather, error) {
	body, err := r.get(ctx, weatherEndpoint, map[string]string{"q": location})
	if err != nil {
		return nil, err
	}
	return decode[model.CurrentWeather](weatherEndpoint, body)
}

// FetchCurrentByCoords retrieves current conditions for a coordinate pair.
func (r *weatherRepository) FetchCurrentByCoords(ctx context.Context, lat, lon float64) (*model.CurrentWeather, error) {
	body, err := r.get(ctx, weatherEndpoint, map[string]string{
		"lat": strconv.FormatFloat(lat, 'f', -1, 64),
		"lon": strconv.FormatFloat(lon, 'f', -1, 64),
	})
	if err != nil {
		return nil, err
	}
	return decode[model.CurrentWeather](weatherEndpoint, body)
}

// FetchForecast retrieves the 5-day forecast in 3-hour steps.
func (r *weatherRepository) FetchForecast(ctx context.Context, location string) (*model.Forecast, error) {
	body, err := r.get(ctx, forecastEndpoint, map[string]string{"q": location})
	if err != nil {
		return nil, err
	}
	return decode[model.Forecast](forecastEndpoint, body)
}

// get performs a single round trip. Transport errors are returned unchanged.
func (r *weatherRepository) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if r.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(endpoint)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, newHTTPError(resp)
	}
	return resp.Body(), nil
}

func newHTTPError(resp *resty.Response) *HTTPError {
	code := resp.StatusCode()
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status(), strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}

	// OpenWeatherMap reports {"cod": "404", "message": "city not found"}
	var apiErr struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(resp.Body(), &apiErr)

	return &HTTPError{Code: code, Reason: reason, Message: apiErr.Message}
}

func decode[T any](endpoint string, body []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if err := validate.Struct(&out); err != nil {
		return nil, fmt.Errorf("invalid %s response: %w", endpoint, err)
	}
	return &out, nil
}

// IconURL returns the 4x icon image address for an OpenWeatherMap icon code.
func IconURL(code string) string {
	return "https://openweathermap.org/img/wn/" + code + "@4x.png"
}
