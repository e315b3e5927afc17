package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	ServerPort string

	StoreDriver string
	MongoURI    string
	MongoDBName string
	SQLitePath  string

	JWTSecret string
	JWTTTL    time.Duration

	LogFile  string
	LogLevel string

	CORSOrigins []string

	ReminderSchedule string
	ReminderWindow   time.Duration

	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// LoadEnvFile reads key/value pairs from the given files into the process
// environment. Files that do not exist are skipped; variables already set win.
func LoadEnvFile(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load builds the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8000"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:      getEnv("MONGO_DB_NAME", "guilt_tracker"),
		SQLitePath:       getEnv("SQLITE_PATH", "guilt_tracker.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		LogFile:          getEnv("LOG_FILE", "logs/tracker.log"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:4173")),
		ReminderSchedule: os.Getenv("REMINDER_SCHEDULE"),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReminderWindow, err = getDuration("REMINDER_WINDOW", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.BreakerTimeout, err = getDuration("BREAKER_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	maxFailures, err := strconv.ParseUint(getEnv("BREAKER_MAX_FAILURES", "3"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_MAX_FAILURES: %w", err)
	}
	cfg.BreakerMaxFailures = uint32(maxFailures)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		if c.StoreDriver != DriverMemory {
			return errors.New("JWT_SECRET is not set")
		}
		c.JWTSecret = "dev-secret"
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
