package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Store     StoreConfig
	Dashboard DashboardConfig
	Activity  ActivityConfig
	Debug     DebugConfig
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

// StoreConfig tunes the in-memory state store.
type StoreConfig struct {
	SeedFile                    string
	Timezone                    string
	Location                    *time.Location
	StrictAssignmentTransitions bool
}

// DashboardConfig governs dashboard cache behaviour.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ActivityConfig sizes the points activity notifier.
type ActivityConfig struct {
	Workers    int
	BufferSize int
	History    int
}

// DebugConfig gates test-only endpoints such as the points reset.
type DebugConfig struct {
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

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

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

	tz := v.GetString("TIMEZONE")
	cfg.Store = StoreConfig{
		SeedFile:                    v.GetString("SEED_FILE"),
		Timezone:                    tz,
		Location:                    loadLocation(tz),
		StrictAssignmentTransitions: v.GetBool("STRICT_ASSIGNMENT_TRANSITIONS"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("ENABLE_DASHBOARD_CACHE"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), time.Minute),
	}

	cfg.Activity = ActivityConfig{
		Workers:    v.GetInt("ACTIVITY_WORKERS"),
		BufferSize: v.GetInt("ACTIVITY_BUFFER"),
		History:    v.GetInt("ACTIVITY_HISTORY"),
	}

	debugDefault := cfg.Env != EnvProduction
	if v.IsSet("ENABLE_DEBUG_ENDPOINTS") {
		debugDefault = v.GetBool("ENABLE_DEBUG_ENDPOINTS")
	}
	cfg.Debug = DebugConfig{Enabled: debugDefault}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("STRICT_ASSIGNMENT_TRANSITIONS", false)

	v.SetDefault("ENABLE_DASHBOARD_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "1m")

	v.SetDefault("ACTIVITY_WORKERS", 1)
	v.SetDefault("ACTIVITY_BUFFER", 64)
	v.SetDefault("ACTIVITY_HISTORY", 50)
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

func loadLocation(name string) *time.Location {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// viper reports a missing explicit config file as an *fs.PathError rather
// than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
