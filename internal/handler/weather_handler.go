package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Vitalik1800/WeatherAppAPI/internal/config"
	"github.com/Vitalik1800/WeatherAppAPI/internal/model"
	"github.com/Vitalik1800/WeatherAppAPI/internal/service"
)

type WeatherHandler struct {
	ScreenService service.ScreenServiceInterface
}

func NewWeatherHandler(svc service.ScreenServiceInterface) *WeatherHandler {
	return &WeatherHandler{
		ScreenService: svc,
	}
}

// Routes registers every endpoint. limit wraps the endpoints that reach the provider.
func (h *WeatherHandler) Routes(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("/weather", limit(http.HandlerFunc(h.HandleWeather)))
	mux.Handle("/weather/coords", limit(http.HandlerFunc(h.HandleWeatherByCoords)))
	mux.HandleFunc("/screen", h.HandleScreen)
	mux.HandleFunc("/history", h.HandleHistory)
	mux.HandleFunc("/health", h.HandleHealth)
}

func (h *WeatherHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

func (h *WeatherHandler) writeError(w http.ResponseWriter, statusCode int, errMsg string) {
	h.writeJSONResponse(w, statusCode, model.ErrorResponse(nil, errMsg))
}

func (h *WeatherHandler) allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// HandleWeather runs one fetch cycle for the given location and returns the screen.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r) {
		return
	}

	location := r.URL.Query().Get("location")
	if strings.TrimSpace(location) == "" {
		h.writeError(w, http.StatusBadRequest, "Missing 'location' query parameter")
		return
	}

	state, err := h.ScreenService.Search(r.Context(), location)
	if errors.Is(err, service.ErrSuperseded) {
		h.writeError(w, http.StatusConflict, "Superseded by a newer search")
		return
	}
	view := service.BuildView(state)

	if state.CurrentError != "" && state.ForecastError != "" {
		h.writeJSONResponse(w, http.StatusBadGateway, model.ErrorResponse(view, state.ErrorMessage()))
		return
	}

	resp := model.SuccessResponse(view)
	if msg := state.ErrorMessage(); msg != "" {
		resp.Error = &msg
		resp.Message = model.MessagePartial
	}
	h.writeJSONResponse(w, http.StatusOK, resp)
}

// HandleWeatherByCoords returns current conditions for lat/lon without touching the screen.
func (h *WeatherHandler) HandleWeatherByCoords(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r) {
		return
	}

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		h.writeError(w, http.StatusBadRequest, "Invalid 'lat'/'lon' query parameters")
		return
	}

	out := h.ScreenService.CurrentByCoords(r.Context(), lat, lon)
	if !out.OK() {
		h.writeError(w, http.StatusBadGateway, out.Message)
		return
	}

	view := service.BuildView(service.ScreenState{Current: out.Value})
	h.writeJSONResponse(w, http.StatusOK, model.SuccessResponse(view.Current))
}

// HandleScreen returns the current screen state without fetching.
func (h *WeatherHandler) HandleScreen(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r) {
		return
	}
	h.writeJSONResponse(w, http.StatusOK, model.SuccessResponse(service.BuildView(h.ScreenService.State())))
}

func (h *WeatherHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r) {
		return
	}
	recent, err := h.ScreenService.RecentLocations(r.Context())
	if err != nil {
		if !errors.Is(err, service.ErrHistoryUnavailable) {
			config.GetLogger().Errorw("Failed to read search history", "error", err)
		}
		h.writeError(w, http.StatusServiceUnavailable, "Search history unavailable")
		return
	}
	if recent == nil {
		recent = []string{}
	}
	h.writeJSONResponse(w, http.StatusOK, model.SuccessResponse(recent))
}

func (h *WeatherHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, model.Response{Message: "OK"})
}
