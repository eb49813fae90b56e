package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Session store backends.
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Registry RegistryConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Wizard   WizardConfig
	Options  OptionsConfig
	Metrics  MetricsConfig
}

// RegistryConfig points at the student registry REST backend.
type RegistryConfig struct {
	BaseURL       string
	Timeout       time.Duration
	SessionCookie string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// WizardConfig controls where wizard drafts live and for how long.
type WizardConfig struct {
	SessionStore string
	SessionTTL   time.Duration
	KeyPrefix    string
}

// OptionsConfig governs caching of catalog option lists.
type OptionsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Registry = RegistryConfig{
		BaseURL:       strings.TrimRight(v.GetString("REGISTRY_BASE_URL"), "/"),
		Timeout:       parseDuration(v.GetString("REGISTRY_TIMEOUT"), 10*time.Second),
		SessionCookie: v.GetString("REGISTRY_SESSION_COOKIE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	store := strings.ToLower(strings.TrimSpace(v.GetString("WIZARD_SESSION_STORE")))
	if store != SessionStoreMemory {
		store = SessionStoreRedis
	}
	cfg.Wizard = WizardConfig{
		SessionStore: store,
		SessionTTL:   parseDuration(v.GetString("WIZARD_SESSION_TTL"), 2*time.Hour),
		KeyPrefix:    v.GetString("WIZARD_KEY_PREFIX"),
	}

	cfg.Options = OptionsConfig{
		CacheEnabled: v.GetBool("ENABLE_OPTION_CACHE"),
		CacheTTL:     parseDuration(v.GetString("OPTION_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REGISTRY_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("REGISTRY_TIMEOUT", "10s")
	v.SetDefault("REGISTRY_SESSION_COOKIE", "session")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("WIZARD_SESSION_STORE", SessionStoreRedis)
	v.SetDefault("WIZARD_SESSION_TTL", "2h")
	v.SetDefault("WIZARD_KEY_PREFIX", "wizard:session:")

	v.SetDefault("ENABLE_OPTION_CACHE", true)
	v.SetDefault("OPTION_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_METRICS", true)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
