package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vitalik1800/WeatherAppAPI/internal/config"
	"github.com/Vitalik1800/WeatherAppAPI/internal/handler"
	"github.com/Vitalik1800/WeatherAppAPI/internal/middleware"
	"github.com/Vitalik1800/WeatherAppAPI/internal/redis"
	"github.com/Vitalik1800/WeatherAppAPI/internal/repository"
	"github.com/Vitalik1800/WeatherAppAPI/internal/service"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()
	log := config.GetLogger()
	defer func() { _ = log.Sync() }()

	cfg := config.Load()
	if cfg.OpenWeatherMap.APIKey == "" {
		log.Warn("OPENWEATHERMAP_API_KEY is not set, every provider call will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Warnw("Redis unavailable, search history disabled", "addr", cfg.Redis.Addr, "error", err)
	}

	rl := middleware.NewRateLimiter(cfg.RateLimiter)
	rl.StartCleanup(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(ctx, cfg, redisClient, rl),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		log.Infow("Weather API server running", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("ListenAndServe failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warnw("Error closing redis client", "error", err)
		}
	}
	log.Info("Shutdown complete")
}

// newRouter wires the screen and its endpoints. A nil redis client disables the history.
func newRouter(ctx context.Context, cfg *config.Config, redisClient *redisv9.Client, rl *middleware.RateLimiter) http.Handler {
	weatherRepo := repository.NewWeatherRepository(cfg.OpenWeatherMap)

	var history repository.HistoryRepository
	if redisClient != nil {
		history = repository.NewHistoryRepository(redisClient, cfg.History)
	}

	location := service.InitialLocation(ctx, history, cfg.Screen.DefaultLocation)
	screen := service.NewScreenService(weatherRepo, history, location)

	mux := http.NewServeMux()
	handler.NewWeatherHandler(screen).Routes(mux, rl.Middleware)
	return mux
}
