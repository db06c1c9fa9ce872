package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the dashboard service.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Geocoding GeocodingConfig
	Routing   RoutingConfig
	Session   SessionConfig
}

type AppConfig struct {
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"HTTP_HOST"`
	Port            int           `mapstructure:"HTTP_PORT"`
	ReadTimeout     time.Duration `mapstructure:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"HTTP_SHUTDOWN_TIMEOUT"`
	MaxUploadMB     int64         `mapstructure:"MAX_UPLOAD_MB"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS    float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `mapstructure:"RATE_LIMIT_BURST"`
}

// CacheConfig selects the shared cache backend for geocodes and routes.
type CacheConfig struct {
	Backend          string `mapstructure:"CACHE_BACKEND"`
	WorkbookMemoSize int    `mapstructure:"WORKBOOK_MEMO_SIZE"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	PoolSize int    `mapstructure:"REDIS_POOL_SIZE"`
}

type GeocodingConfig struct {
	BaseURL   string        `mapstructure:"NOMINATIM_BASE_URL"`
	UserAgent string        `mapstructure:"NOMINATIM_USER_AGENT"`
	Timeout   time.Duration `mapstructure:"GEOCODE_TIMEOUT"`
	Backoff   time.Duration `mapstructure:"GEOCODE_BACKOFF"`
	// RatePerSecond paces outbound geocoding calls.
	RatePerSecond float64 `mapstructure:"GEOCODE_RATE"`
	// WarmupWorkers geocode uploaded workbooks in the background. Zero disables warm-up.
	WarmupWorkers int `mapstructure:"GEOCODE_WARMUP_WORKERS"`
}

type RoutingConfig struct {
	BaseURL string        `mapstructure:"ORS_BASE_URL"`
	Timeout time.Duration `mapstructure:"ROUTE_TIMEOUT"`
}

type SessionConfig struct {
	TTL          time.Duration `mapstructure:"SESSION_TTL"`
	CookieSecure bool          `mapstructure:"SESSION_COOKIE_SECURE"`
}

// Addr returns the Redis address in host:port format.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MaxUploadBytes converts the upload limit to bytes.
func (s *ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "")

	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("HTTP_READ_TIMEOUT", "30s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "5m")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("MAX_UPLOAD_MB", 32)
	v.SetDefault("CORS_ORIGINS", "https://*,http://localhost:8081")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("WORKBOOK_MEMO_SIZE", 16)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("NOMINATIM_USER_AGENT", "dashboard_frota")
	v.SetDefault("GEOCODE_TIMEOUT", "10s")
	v.SetDefault("GEOCODE_BACKOFF", "1s")
	v.SetDefault("GEOCODE_RATE", 1)
	v.SetDefault("GEOCODE_WARMUP_WORKERS", 1)

	v.SetDefault("ORS_BASE_URL", "https://api.openrouteservice.org")
	v.SetDefault("ROUTE_TIMEOUT", "20s")

	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	// A missing .env is fine; env vars still apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.App = AppConfig{
		Env:      v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	cfg.Server = ServerConfig{
		Host:            v.GetString("HTTP_HOST"),
		Port:            v.GetInt("HTTP_PORT"),
		ReadTimeout:     v.GetDuration("HTTP_READ_TIMEOUT"),
		WriteTimeout:    v.GetDuration("HTTP_WRITE_TIMEOUT"),
		ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
		MaxUploadMB:     v.GetInt64("MAX_UPLOAD_MB"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
	}

	cfg.Cache = CacheConfig{
		Backend:          strings.ToLower(v.GetString("CACHE_BACKEND")),
		WorkbookMemoSize: v.GetInt("WORKBOOK_MEMO_SIZE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		PoolSize: v.GetInt("REDIS_POOL_SIZE"),
	}

	cfg.Geocoding = GeocodingConfig{
		BaseURL:       strings.TrimRight(v.GetString("NOMINATIM_BASE_URL"), "/"),
		UserAgent:     v.GetString("NOMINATIM_USER_AGENT"),
		Timeout:       v.GetDuration("GEOCODE_TIMEOUT"),
		Backoff:       v.GetDuration("GEOCODE_BACKOFF"),
		RatePerSecond: v.GetFloat64("GEOCODE_RATE"),
		WarmupWorkers: v.GetInt("GEOCODE_WARMUP_WORKERS"),
	}

	cfg.Routing = RoutingConfig{
		BaseURL: strings.TrimRight(v.GetString("ORS_BASE_URL"), "/"),
		Timeout: v.GetDuration("ROUTE_TIMEOUT"),
	}

	cfg.Session = SessionConfig{
		TTL:          v.GetDuration("SESSION_TTL"),
		CookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q (want memory or redis)", c.Cache.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.Cache.WorkbookMemoSize <= 0 {
		return fmt.Errorf("WORKBOOK_MEMO_SIZE must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
