package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = "3000"
	defaultBaseURL       = "https://api.razorpay.com/v1"
	defaultAmountPaise   = 10 * 100
	defaultCurrency      = "INR"
	defaultTimeout       = 10 * time.Second
	defaultServiceName   = "checkout-service"
	defaultAllowedOrigin = "*"
)

var ErrMissing = errors.New("required configuration is missing")

type Config struct {
	Port               string
	KeyID              string
	KeySecret          string
	BaseURL            string
	DefaultAmountPaise int64
	Currency           string
	AllowedOrigins     []string
	Timeout            time.Duration
	ServiceName        string
	CollectorEndpoint  string
}

// Load reads the process environment, seeded from envFiles (".env" when none
// are given). Variables already set in the environment win. A missing env
// file is not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(name string) string {
		v, _ := lookup(name)
		return strings.TrimSpace(v)
	}

	cfg := Config{
		Port:               defaultPort,
		BaseURL:            defaultBaseURL,
		DefaultAmountPaise: defaultAmountPaise,
		Currency:           defaultCurrency,
		AllowedOrigins:     []string{defaultAllowedOrigin},
		Timeout:            defaultTimeout,
		ServiceName:        defaultServiceName,
	}

	cfg.KeyID = get("RAZORPAY_KEY_ID")
	if cfg.KeyID == "" {
		return Config{}, fmt.Errorf("RAZORPAY_KEY_ID: %w", ErrMissing)
	}
	cfg.KeySecret = get("RAZORPAY_KEY_SECRET")
	if cfg.KeySecret == "" {
		return Config{}, fmt.Errorf("RAZORPAY_KEY_SECRET: %w", ErrMissing)
	}

	if v := get("PORT"); v != "" {
		cfg.Port = v
	}
	if v := get("RAZORPAY_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := get("CURRENCY"); v != "" {
		cfg.Currency = strings.ToUpper(v)
	}
	if v := get("OTEL_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	cfg.CollectorEndpoint = get("OTEL_COLLECTOR_ENDPOINT")

	if v := get("DEFAULT_AMOUNT_PAISE"); v != "" {
		amount, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse DEFAULT_AMOUNT_PAISE: %w", err)
		}
		if amount <= 0 {
			return Config{}, fmt.Errorf("DEFAULT_AMOUNT_PAISE must be positive")
		}
		cfg.DefaultAmountPaise = amount
	}

	if v := get("RAZORPAY_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse RAZORPAY_TIMEOUT_SECONDS: %w", err)
		}
		if secs <= 0 {
			return Config{}, fmt.Errorf("RAZORPAY_TIMEOUT_SECONDS must be positive")
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	if v := get("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	return cfg, nil
}

// LogValue keeps the key secret out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", c.Port),
		slog.String("keyId", c.KeyID),
		slog.String("baseUrl", c.BaseURL),
		slog.Int64("defaultAmountPaise", c.DefaultAmountPaise),
		slog.String("currency", c.Currency),
		slog.Any("allowedOrigins", c.AllowedOrigins),
		slog.Duration("timeout", c.Timeout),
		slog.String("serviceName", c.ServiceName),
		slog.Bool("collector", c.CollectorEndpoint != ""),
	)
}
