package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const Production = "production"

var DefaultEnvFiles = []string{".env", ".env.local"}

type DatabaseOptions struct {
	URL          string `env:"DATABASE_URL"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
}

func (d DatabaseOptions) Enabled() bool { return d.URL != "" }

type ImportOptions struct {
	Workers       int           `env:"IMPORT_WORKERS" envDefault:"2"`
	UploadDir     string        `env:"IMPORT_UPLOAD_DIR" envDefault:"uploads"`
	PollInterval  time.Duration `env:"IMPORT_POLL_INTERVAL" envDefault:"500ms"`
	LeaseDuration time.Duration `env:"IMPORT_JOB_LEASE" envDefault:"60s"`
	MaxAttempts   int           `env:"IMPORT_MAX_ATTEMPTS" envDefault:"3"`
}

type GeminiOptions struct {
	APIKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-pro"`
}

type SessionOptions struct {
	TTL         time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	RememberTTL time.Duration `env:"REMEMBER_TTL" envDefault:"720h"`
	RedisURL    string        `env:"REDIS_URL"`
}

type Configuration struct {
	Database DatabaseOptions
	Import   ImportOptions
	Gemini   GeminiOptions
	Session  SessionOptions

	ServerPort       int    `env:"PORT" envDefault:"8080"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	ClientsAPIURL    string `env:"CLIENTS_API_URL"`
	PageSize         int    `env:"PAGE_SIZE" envDefault:"10"`
	MaxPageSize      int    `env:"MAX_PAGE_SIZE" envDefault:"100"`
	MaxUploadSize    int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`
	MetricsEnabled   bool   `env:"METRICS_ENABLED" envDefault:"true"`
	SeedData         bool   `env:"SEED_DATA" envDefault:"true"`

	logger *logrus.Logger
}

// Load reads the existing env files, then the process environment, and
// builds the logger.
func Load(envFiles ...string) (*Configuration, error) {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.logger = NewLogger(c.LogrusLogLevel(), c.GoAppEnvironment == Production)
	return c, nil
}

// LoadEnv loads whichever of envFiles exist and returns how many did.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func (c *Configuration) validate() error {
	var errs []error
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.ServerPort))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize))
	}
	if c.MaxPageSize < c.PageSize {
		errs = append(errs, fmt.Errorf("MAX_PAGE_SIZE (%d) below PAGE_SIZE (%d)", c.MaxPageSize, c.PageSize))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize))
	}
	if c.Session.TTL <= 0 || c.Session.RememberTTL < c.Session.TTL {
		errs = append(errs, fmt.Errorf("REMEMBER_TTL (%s) must not be shorter than SESSION_TTL (%s)", c.Session.RememberTTL, c.Session.TTL))
	}
	if c.Import.Workers < 0 || c.Import.Workers > 10 {
		errs = append(errs, fmt.Errorf("IMPORT_WORKERS must be between 0 and 10, got %d", c.Import.Workers))
	}
	switch strings.ToLower(c.LogLevel) {
	case "silent", "error", "warn", "info", "debug":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL=%q (expected silent|error|warn|info|debug)", c.LogLevel))
	}
	return errors.Join(errs...)
}

// Logger returns the logger built by Load, or a default one for a
// Configuration assembled by hand.
func (c *Configuration) Logger() *logrus.Logger {
	if c.logger == nil {
		c.logger = NewLogger(c.LogrusLogLevel(), c.GoAppEnvironment == Production)
	}
	return c.logger
}

func (c *Configuration) SetLogger(logger *logrus.Logger) {
	c.logger = logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch strings.ToLower(c.LogLevel) {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func (c *Configuration) Address() string {
	if c.GoAppEnvironment == Production {
		return fmt.Sprintf(":%d", c.ServerPort)
	}
	return fmt.Sprintf("localhost:%d", c.ServerPort)
}

// NewLogger writes text logs in development and JSON in production.
func NewLogger(level logrus.Level, json bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(level)
	if json {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
