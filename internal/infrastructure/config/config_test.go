package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %s", cfg.Port)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("unexpected ttl: %v", cfg.Session.TTL)
	}
	if cfg.Session.Store != SessionStoreRedis {
		t.Fatalf("unexpected store: %s", cfg.Session.Store)
	}
	if cfg.Postgres.MaxConns != 10 {
		t.Fatalf("expected pool of 10, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Mongo.URI != "" {
		t.Fatalf("audit log must be disabled by default")
	}
	if cfg.IsProduction() {
		t.Fatalf("default env must not be production")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": "s3cret",
		"PORT":           "8081",
		"SESSION_STORE":  "memory",
		"SESSION_TTL":    "30m",
		"DB_MAX_CONNS":   "4",
		"ENV":            "production",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8081" || cfg.Session.Store != SessionStoreMemory || cfg.Session.TTL != 30*time.Minute || cfg.Postgres.MaxConns != 4 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
}

func TestLoadFrom_MissingSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Fatalf("expected SESSION_SECRET error, got %v", err)
	}
}

func TestLoadFrom_UnknownStore(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": "s3cret",
		"SESSION_STORE":  "memcached",
	}))
	if err == nil || !strings.Contains(err.Error(), "SESSION_STORE") {
		t.Fatalf("expected SESSION_STORE error, got %v", err)
	}
}
