package config

import (
	"testing"
	"time"

	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverPostgres)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "5000" {
		t.Errorf("Server.Port = %q, want 5000", cfg.Server.Port)
	}
	if cfg.Radar.MaxRadius != 250 {
		t.Errorf("Radar.MaxRadius = %v, want 250", cfg.Radar.MaxRadius)
	}
	if cfg.Radar.ArcSpan != 60 {
		t.Errorf("Radar.ArcSpan = %v, want 60", cfg.Radar.ArcSpan)
	}
	if cfg.Cache.RedisAddr != "" {
		t.Errorf("Cache.RedisAddr = %q, want empty", cfg.Cache.RedisAddr)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_PATH", "/tmp/radar.db")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RADAR_ARC_SPAN", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.DB.GetDSN(); got != "/tmp/radar.db" {
		t.Errorf("GetDSN() = %q, want sqlite path", got)
	}
	if cfg.Server.Port != "8080" || !cfg.Server.IsProduction() {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.DB.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("ConnMaxLifetime = %v", cfg.DB.ConnMaxLifetime)
	}
	if cfg.DB.LogLevel != logger.Silent {
		t.Errorf("LogLevel = %v, want silent", cfg.DB.LogLevel)
	}
	if len(cfg.CORS.Origins) != 2 || cfg.CORS.Origins[1] != "http://b.example" {
		t.Errorf("CORS.Origins = %v", cfg.CORS.Origins)
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v", cfg.RateLimit.RequestsPerSecond)
	}
	// invalid values fall back to defaults
	if cfg.Radar.ArcSpan != 60 {
		t.Errorf("ArcSpan = %v, want default 60", cfg.Radar.ArcSpan)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPostgresDSN(t *testing.T) {
	c := DBConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", DBName: "radar", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=radar sslmode=disable"
	if got := c.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
