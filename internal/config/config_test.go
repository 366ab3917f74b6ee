package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("GENERATION_PROVIDER", "")
	t.Setenv("CHAT_MIN_DELAY", "")
	t.Setenv("CHAT_FALLBACK_DELAY", "")
	t.Setenv("CHAT_HISTORY_WINDOW", "")
	t.Setenv("GENERATION_TIMEOUT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.GenerationProvider != "gemini" {
		t.Fatalf("expected gemini provider by default, got %s", cfg.GenerationProvider)
	}
	if cfg.ChatMinDelay != 1500*time.Millisecond {
		t.Fatalf("expected 1500ms success floor, got %s", cfg.ChatMinDelay)
	}
	if cfg.ChatFallbackDelay != time.Second {
		t.Fatalf("expected 1s fallback floor, got %s", cfg.ChatFallbackDelay)
	}
	if cfg.ChatHistoryWindow != 4 {
		t.Fatalf("expected history window 4, got %d", cfg.ChatHistoryWindow)
	}
	if cfg.GenerationTimeout != 20*time.Second {
		t.Fatalf("expected 20s generation timeout, got %s", cfg.GenerationTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://hvacohc.ca" {
		t.Fatalf("unexpected default origins: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("GENERATION_PROVIDER", " Bedrock ")
	t.Setenv("GENERATION_TEMPERATURE", "0.2")
	t.Setenv("CHAT_MIN_DELAY", "2s")
	t.Setenv("CHAT_HISTORY_WINDOW", "6")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.GenerationProvider != "bedrock" {
		t.Fatalf("expected normalized provider, got %q", cfg.GenerationProvider)
	}
	if cfg.GenerationTemperature != 0.2 {
		t.Fatalf("expected temperature 0.2, got %v", cfg.GenerationTemperature)
	}
	if cfg.ChatMinDelay != 2*time.Second {
		t.Fatalf("expected 2s floor, got %s", cfg.ChatMinDelay)
	}
	if cfg.ChatHistoryWindow != 6 {
		t.Fatalf("expected window 6, got %d", cfg.ChatHistoryWindow)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %#v", cfg.CORSAllowedOrigins)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if cfg.RateLimitRPS != 5.5 {
		t.Fatalf("expected rps 5.5, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CHAT_HISTORY_WINDOW", "four")
	t.Setenv("GENERATION_TIMEOUT", "soon")
	cfg := Load()
	if cfg.ChatHistoryWindow != 4 {
		t.Fatalf("expected default window on parse error, got %d", cfg.ChatHistoryWindow)
	}
	if cfg.GenerationTimeout != 20*time.Second {
		t.Fatalf("expected default timeout on parse error, got %s", cfg.GenerationTimeout)
	}
}
