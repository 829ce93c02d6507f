package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config captures runtime configuration for the storefront client.
type Config struct {
	API       APIConfig
	Payment   PaymentConfig
	State     StateConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type APIConfig struct {
	// BaseURL is the storefront API root, including the /api suffix.
	BaseURL string
	// MediaBaseURL is the root for resolving relative media paths. Derived
	// from BaseURL when unset.
	MediaBaseURL string
	// TimeoutSeconds bounds every gateway call.
	TimeoutSeconds int
}

type PaymentConfig struct {
	// Provider selects the checkout protocol: "intent" or "hosted".
	Provider string
	// PublicKey is the provider's publishable client key.
	PublicKey string
	// ConfirmURL is the intent provider's client-side confirmation
	// endpoint.
	ConfirmURL string
	// SkipPayment enables the test-only order path that treats creation
	// success as completion. Refused in production.
	SkipPayment bool
}

type StateConfig struct {
	// Path is the JSON file holding the persisted identity keys.
	Path string
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	ProviderIntent = "intent"
	ProviderHosted = "hosted"
)

const (
	defaultAPIBaseURL     = "http://127.0.0.1:8000/api"
	defaultTimeoutSeconds = 15
	defaultProvider       = ProviderIntent
	defaultServiceName    = "storefront"
	defaultServiceVersion = "0.1.0"
	defaultEnvironment    = "development"
	defaultLogLevel       = "info"
	defaultOTelSampleRate = 1.0
)

// Load reads configuration from environment variables, applying defaults
// when needed.
func Load() (*Config, error) {
	apiCfg, err := loadAPIConfig()
	if err != nil {
		return nil, fmt.Errorf("loading API config: %w", err)
	}

	serviceCfg := loadServiceConfig()

	paymentCfg, err := loadPaymentConfig(serviceCfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("loading payment config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	return &Config{
		API:       apiCfg,
		Payment:   paymentCfg,
		State:     loadStateConfig(),
		Telemetry: telCfg,
		Service:   serviceCfg,
	}, nil
}

func loadAPIConfig() (APIConfig, error) {
	timeout := defaultTimeoutSeconds
	if value, ok := os.LookupEnv("STOREFRONT_API_TIMEOUT_SECONDS"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return APIConfig{}, fmt.Errorf("invalid STOREFRONT_API_TIMEOUT_SECONDS: %q", value)
		}
		timeout = parsed
	}

	return APIConfig{
		BaseURL:        getEnvOrDefault("STOREFRONT_API_URL", defaultAPIBaseURL),
		MediaBaseURL:   os.Getenv("STOREFRONT_MEDIA_URL"),
		TimeoutSeconds: timeout,
	}, nil
}

func loadPaymentConfig(environment string) (PaymentConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("PAYMENT_PROVIDER", defaultProvider))
	switch provider {
	case ProviderIntent, ProviderHosted:
	default:
		return PaymentConfig{}, fmt.Errorf("unsupported PAYMENT_PROVIDER: %q", provider)
	}

	skip, err := getBoolEnv("SKIP_PAYMENT_CHECKOUT", false)
	if err != nil {
		return PaymentConfig{}, err
	}
	if skip && environment == "production" {
		return PaymentConfig{}, fmt.Errorf("SKIP_PAYMENT_CHECKOUT must not be enabled in production")
	}

	return PaymentConfig{
		Provider:    provider,
		PublicKey:   os.Getenv("PAYMENT_PUBLIC_KEY"),
		ConfirmURL:  os.Getenv("PAYMENT_CONFIRM_URL"),
		SkipPayment: skip,
	}, nil
}

func loadStateConfig() StateConfig {
	path := os.Getenv("STOREFRONT_STATE_PATH")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".storefront", "state.json")
	}
	return StateConfig{Path: path}
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	enableTracing, err := getBoolEnv("OTEL_ENABLE_TRACING", false)
	if err != nil {
		return TelemetryConfig{}, err
	}
	enableMetrics, err := getBoolEnv("OTEL_ENABLE_METRICS", false)
	if err != nil {
		return TelemetryConfig{}, err
	}

	return TelemetryConfig{
		LogLevel:      getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
		OTelEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		EnableTracing: enableTracing,
		EnableMetrics: enableMetrics,
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, value)
	}
	return parsed, nil
}
