package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Storage.Driver != DriverFile || cfg.Storage.Key != "hydration-storage" || cfg.Storage.RetryInterval != 5*time.Second {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Weather.Language != "id" || cfg.Weather.APIKey != "" {
		t.Fatalf("unexpected weather defaults: %+v", cfg.Weather)
	}
	if !cfg.HeatBonusOncePerDay {
		t.Fatal("heat bonus must default to once per day")
	}
	if cfg.Activity.GoalPoints != 100 || cfg.Activity.Cooldown != 3*time.Second {
		t.Fatalf("unexpected activity defaults: %+v", cfg.Activity)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                    "9090",
		"STORAGE_DRIVER":          "redis",
		"REDIS_ADDR":              "cache:6379",
		"TIMEZONE":                "Asia/Jakarta",
		"HEAT_BONUS_ONCE_PER_DAY": "false",
		"ACTIVITY_COOLDOWN":       "10s",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Port != "9090" || cfg.Storage.Driver != DriverRedis || cfg.Redis.Addr != "cache:6379" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.HeatBonusOncePerDay || cfg.Activity.Cooldown != 10*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Jakarta" {
		t.Fatalf("unexpected location %v: %v", loc, err)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver": {"STORAGE_DRIVER": "sqlite"},
		"bad timezone":   {"TIMEZONE": "Mars/Olympus"},
		"zero goal":      {"ACTIVITY_GOAL_POINTS": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
			if err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}
