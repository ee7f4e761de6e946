package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Vitalik1800/WeatherAppAPI/internal/config"
	"github.com/Vitalik1800/WeatherAppAPI/internal/forecast"
	"github.com/Vitalik1800/WeatherAppAPI/internal/model"
	"github.com/Vitalik1800/WeatherAppAPI/internal/repository"
	"github.com/Vitalik1800/WeatherAppAPI/internal/safecall"
	"github.com/google/uuid"
)

const (
	currentErrorPrefix  = "Error: "
	forecastErrorPrefix = "Forecast error: "
)

// ScreenState is the presentation state of the weather screen.
type ScreenState struct {
	Location      string
	Current       *model.CurrentWeather
	Forecast      *model.Forecast
	Loading       bool
	CurrentError  string
	ForecastError string
	CycleID       string
}

// ErrorMessage is the single error shown to the user. The forecast resolves after the
// current weather, so its failure takes precedence.
func (s ScreenState) ErrorMessage() string {
	if s.ForecastError != "" {
		return s.ForecastError
	}
	return s.CurrentError
}

// Daily returns the 5-day summary of the last successful forecast.
func (s ScreenState) Daily() []model.ForecastItem {
	return forecast.ReduceToDaily(s.Forecast)
}

// ScreenServiceInterface is what the HTTP layer needs from the screen.
type ScreenServiceInterface interface {
	SetLocation(location string)
	Submit(ctx context.Context) (ScreenState, error)
	Search(ctx context.Context, location string) (ScreenState, error)
	State() ScreenState
	CurrentByCoords(ctx context.Context, lat, lon float64) safecall.Outcome[*model.CurrentWeather]
	RecentLocations(ctx context.Context) ([]string, error)
}

// ScreenService runs fetch cycles and owns the screen state. A new cycle cancels the one
// in flight; results of a superseded cycle are dropped.
type ScreenService struct {
	WeatherRepo repository.WeatherRepository
	History     repository.HistoryRepository

	mu         sync.Mutex
	state      ScreenState
	generation uint64
	cancel     context.CancelFunc
}

// NewScreenService creates the screen with the location field prefilled. history may be nil.
func NewScreenService(repo repository.WeatherRepository, history repository.HistoryRepository, location string) *ScreenService {
	return &ScreenService{
		WeatherRepo: repo,
		History:     history,
		state:       ScreenState{Location: location},
	}
}

// InitialLocation picks the most recent search, or fallback when there is none.
func InitialLocation(ctx context.Context, history repository.HistoryRepository, fallback string) string {
	if history == nil {
		return fallback
	}
	recent, err := history.Recent(ctx)
	if err != nil {
		config.GetLogger().Warnw("Could not read search history", "error", err)
		return fallback
	}
	if len(recent) == 0 {
		return fallback
	}
	return recent[0]
}

// SetLocation updates the location text without fetching.
func (s *ScreenService) SetLocation(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Location = location
}

func (s *ScreenService) State() ScreenState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Search sets the location and submits it. A blank location leaves the state untouched.
func (s *ScreenService) Search(ctx context.Context, location string) (ScreenState, error) {
	if strings.TrimSpace(location) == "" {
		return s.State(), nil
	}
	s.SetLocation(location)
	return s.Submit(ctx)
}

// Submit runs one fetch cycle for the current location text and blocks until both calls
// resolve. A blank location is a no-op. The cycle outlives ctx and is cancelled only by a
// newer cycle, in which case ErrSuperseded is returned with the newer cycle's state.
func (s *ScreenService) Submit(ctx context.Context) (ScreenState, error) {
	log := config.GetLogger()

	s.mu.Lock()
	location := s.state.Location
	if strings.TrimSpace(location) == "" {
		defer s.mu.Unlock()
		return s.state, nil
	}
	if s.cancel != nil {
		s.cancel()
	}
	cycleCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	s.generation++
	gen := s.generation
	s.cancel = cancel
	cycleID := uuid.NewString()
	s.state.Loading = true
	s.state.CurrentError = ""
	s.state.ForecastError = ""
	s.state.CycleID = cycleID
	s.mu.Unlock()

	log.Infow("Fetch cycle started", "cycle", cycleID, "location", location)

	var (
		wg  sync.WaitGroup
		cur safecall.Outcome[*model.CurrentWeather]
		fc  safecall.Outcome[*model.Forecast]
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cur = safecall.Run(cycleCtx, func(ctx context.Context) (*model.CurrentWeather, error) {
			return s.WeatherRepo.FetchCurrent(ctx, location)
		})
	}()
	go func() {
		defer wg.Done()
		fc = safecall.Run(cycleCtx, func(ctx context.Context) (*model.Forecast, error) {
			return s.WeatherRepo.FetchForecast(ctx, location)
		})
	}()
	wg.Wait()

	s.mu.Lock()
	if gen != s.generation {
		state := s.state
		s.mu.Unlock()
		log.Infow("Fetch cycle superseded, results dropped", "cycle", cycleID, "location", location)
		return state, ErrSuperseded
	}
	if cur.OK() {
		s.state.Current = cur.Value
	} else if aborted(cur.Err) {
		log.Infow("Current weather aborted", "cycle", cycleID)
	} else {
		s.state.CurrentError = currentErrorPrefix + cur.Message
		log.Warnw("Current weather failed", "cycle", cycleID, "cause", cur.Cause.String(), "error", cur.Err)
	}
	if fc.OK() {
		s.state.Forecast = fc.Value
	} else if aborted(fc.Err) {
		log.Infow("Forecast aborted", "cycle", cycleID)
	} else {
		s.state.ForecastError = forecastErrorPrefix + fc.Message
		log.Warnw("Forecast failed", "cycle", cycleID, "cause", fc.Cause.String(), "error", fc.Err)
	}
	s.state.Loading = false
	s.cancel = nil
	state := s.state
	s.mu.Unlock()

	log.Infow("Fetch cycle finished", "cycle", cycleID, "current_ok", cur.OK(), "forecast_ok", fc.OK())

	if s.History != nil && (cur.OK() || fc.OK()) {
		if err := s.History.Add(cycleCtx, location); err != nil {
			log.Warnw("Could not record search history", "location", location, "error", err)
		}
	}
	return state, nil
}

// aborted reports a call that was cancelled rather than failed. It leaves no error behind.
func aborted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// CurrentByCoords fetches current conditions for coordinates. It does not touch the screen state.
func (s *ScreenService) CurrentByCoords(ctx context.Context, lat, lon float64) safecall.Outcome[*model.CurrentWeather] {
	return safecall.Run(ctx, func(ctx context.Context) (*model.CurrentWeather, error) {
		return s.WeatherRepo.FetchCurrentByCoords(ctx, lat, lon)
	})
}

// RecentLocations lists the search history, newest first.
func (s *ScreenService) RecentLocations(ctx context.Context) ([]string, error) {
	if s.History == nil {
		return nil, ErrHistoryUnavailable
	}
	return s.History.Recent(ctx)
}
