package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage drivers.
const (
	DriverFile  = "file"
	DriverRedis = "redis"
	DriverMongo = "mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogFile   string `env:"LOG_FILE"`
	Timezone  string `env:"TIMEZONE,  default=Local"`

	Storage  StorageConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Weather  WeatherConfig
	Activity ActivityConfig

	HeatBonusOncePerDay bool `env:"HEAT_BONUS_ONCE_PER_DAY, default=true"`
}

type StorageConfig struct {
	Driver        string        `env:"STORAGE_DRIVER,         default=file"`
	Dir           string        `env:"STORAGE_DIR,            default=./data"`
	Key           string        `env:"STATE_KEY,              default=hydration-storage"`
	RetryInterval time.Duration `env:"PERSIST_RETRY_INTERVAL, default=5s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hydration"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type WeatherConfig struct {
	APIKey   string `env:"OPENWEATHER_API_KEY"`
	BaseURL  string `env:"OPENWEATHER_BASE_URL, default=https://api.openweathermap.org/data/2.5"`
	Language string `env:"OPENWEATHER_LANG,     default=id"`
}

type ActivityConfig struct {
	GoalPoints float64       `env:"ACTIVITY_GOAL_POINTS, default=100"`
	Cooldown   time.Duration `env:"ACTIVITY_COOLDOWN,    default=3s"`
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Location resolves the configured time zone that calendar days follow.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l using go-envconfig.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverRedis, DriverMongo:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return errors.New("STATE_KEY must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.Activity.GoalPoints <= 0 {
		return errors.New("ACTIVITY_GOAL_POINTS must be positive")
	}
	return nil
}
