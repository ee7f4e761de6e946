package config

import (
	"flag"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// Config is the explicit configuration handed to the components at startup.
type Config struct {
	OpenWeatherMap OpenWeatherMapConfig
	Server         ServerConfig
	Redis          RedisConfig
	History        HistoryConfig
	RateLimiter    RateLimiterConfig
	Screen         ScreenConfig
}

// OpenWeatherMapConfig carries the credential and the parameters attached to every outbound request.
type OpenWeatherMapConfig struct {
	APIKey  string
	BaseURL string
	Units   string
	Lang    string
	Timeout time.Duration
}

type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

type RedisConfig struct {
	Addr string
}

type HistoryConfig struct {
	Key  string
	Size int64
}

// RateLimiterConfig holds per-minute rates and bursts for the /weather endpoint.
type RateLimiterConfig struct {
	GlobalRate     float64
	GlobalBurst    int
	ParamRate      float64
	ParamBurst     int
	CleanupTimeout time.Duration
}

type ScreenConfig struct {
	DefaultLocation string
}

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error reading test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// Load reads every section into a Config. Defaults apply to keys that are missing or invalid.
func Load() *Config {
	initConfig()
	globalRate, globalBurst := GetGlobalRateLimiterConfig()
	paramRate, paramBurst := GetParamRateLimiterConfig()
	return &Config{
		OpenWeatherMap: OpenWeatherMapConfig{
			APIKey:  GetOpenWeatherMapAPIKey(),
			BaseURL: GetOpenWeatherApiUrl(),
			Units:   stringOr("openweathermap.units", "metric"),
			Lang:    stringOr("openweathermap.lang", "ua"),
			Timeout: durationOr("openweathermap.timeout", 10*time.Second),
		},
		Server: ServerConfig{
			Port:              GetServerPort(),
			ReadHeaderTimeout: durationOr("server.read_header_timeout", 15*time.Second),
			ReadTimeout:       durationOr("server.read_timeout", 15*time.Second),
			WriteTimeout:      durationOr("server.write_timeout", 30*time.Second),
			IdleTimeout:       durationOr("server.idle_timeout", 30*time.Second),
			ShutdownTimeout:   durationOr("server.shutdown_timeout", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr: GetRedisAddr(),
		},
		History: HistoryConfig{
			Key:  stringOr("history.key", "weather:history"),
			Size: GetHistorySize(),
		},
		RateLimiter: RateLimiterConfig{
			GlobalRate:     globalRate,
			GlobalBurst:    globalBurst,
			ParamRate:      paramRate,
			ParamBurst:     paramBurst,
			CleanupTimeout: GetRateLimiterCleanupTimeout(),
		},
		Screen: ScreenConfig{
			DefaultLocation: stringOr("screen.default_location", "Kyiv"),
		},
	}
}

func stringOr(key, def string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	s := viper.GetString(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		GetLogger().Warnw("Invalid duration in config, using default", "key", key, "value", s, "default", def)
		return def
	}
	return d
}

func GetOpenWeatherApiUrl() string {
	initConfig()
	return stringOr("openweathermap.api_url", "https://api.openweathermap.org/data/2.5")
}

// GetOpenWeatherMapAPIKey prefers the environment (optionally loaded from .env) over the config file.
func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	if key := os.Getenv("OPENWEATHERMAP_API_KEY"); key != "" {
		return key
	}
	initConfig()
	return viper.GetString("openweathermap.api_key")
}

func GetRedisAddr() string {
	initConfig()
	return stringOr("redis.addr", "localhost:6379")
}

func GetServerPort() string {
	initConfig()
	return stringOr("server.port", "8080")
}

func GetHistorySize() int64 {
	initConfig()
	size := viper.GetInt64("history.size")
	if size <= 0 {
		return 10
	}
	return size
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	initConfig()
	return durationOr("rate_limiter.cleanup_timeout", 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns the rate and burst for the global rate limiter from config.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the rate and burst for the param rate limiter from config.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}
