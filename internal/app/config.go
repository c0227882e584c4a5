package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Page store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s" validate:"gt=0"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s" validate:"gt=0"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty" validate:"oneof=pretty json"`

	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8000/api" validate:"required,url"`
	FetchTimeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s" validate:"gt=0"`
	RenderWait     time.Duration `envconfig:"RENDER_WAIT" default:"2s" validate:"gte=0"`
	LoadingRefresh time.Duration `envconfig:"LOADING_REFRESH" default:"2s" validate:"gt=0"`

	PageStore string        `envconfig:"PAGE_STORE" default:"memory" validate:"oneof=memory redis"`
	PageTTL   time.Duration `envconfig:"PAGE_TTL" default:"30m" validate:"gt=0"`
	RedisAddr string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379" validate:"required"`

	PageLoadRateLimit int  `envconfig:"PAGELOAD_RATE_LIMIT" default:"30" validate:"gt=0"`
	ShowPanelErrors   bool `envconfig:"SHOW_PANEL_ERRORS" default:"false"`

	ProbeSpec   string `envconfig:"PROBE_SPEC" default:"@every 1m" validate:"required"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9091"`

	DashboardTitle    string `envconfig:"DASHBOARD_TITLE" default:"Wayne Enterprises"`
	DashboardSubtitle string `envconfig:"DASHBOARD_SUBTITLE" default:"Business Intelligence Dashboard"`
}

// LoadConfig reads configuration from environment variables. Values from a
// .env file in the working directory fill in anything not already set.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
