package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
port: "8080"
logLevel: debug
databaseURL: "postgres://localhost/artbid"
jwtSecret: "secret"
sessionTTL: "168h"
redisAddr: "localhost:6379"
bidRateLimitPerMinute: 30
loginRateLimitPerMinute: 10
trustedProxyCidrs:
  - "10.0.0.0/8"
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DatabaseURL != "postgres://localhost/artbid" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.BidRateLimitPerMinute != 30 || cfg.LoginRateLimitPerMinute != 10 {
		t.Fatalf("rate limits wrong: %+v", cfg)
	}
	if len(cfg.TrustedProxyCIDRs) != 1 || cfg.TrustedProxyCIDRs[0] != "10.0.0.0/8" {
		t.Fatalf("trusted proxies wrong: %v", cfg.TrustedProxyCIDRs)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("BID_RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("TRUSTED_PROXY_CIDRS", "10.0.0.0/8, 192.168.0.0/16")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("PORT override not applied, got %q", cfg.Port)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Fatalf("JWT_SECRET override not applied, got %q", cfg.JWTSecret)
	}
	if cfg.BidRateLimitPerMinute != 5 {
		t.Fatalf("BID_RATE_LIMIT_PER_MINUTE override not applied, got %d", cfg.BidRateLimitPerMinute)
	}
	if len(cfg.TrustedProxyCIDRs) != 2 || cfg.TrustedProxyCIDRs[1] != "192.168.0.0/16" {
		t.Fatalf("TRUSTED_PROXY_CIDRS override wrong: %v", cfg.TrustedProxyCIDRs)
	}
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"missing port":     "databaseURL: x\njwtSecret: y\nredisAddr: z\n",
		"missing database": "port: \"8080\"\njwtSecret: y\nredisAddr: z\n",
		"missing secret":   "port: \"8080\"\ndatabaseURL: x\nredisAddr: z\n",
		"missing redis":    "port: \"8080\"\ndatabaseURL: x\njwtSecret: y\n",
	}
	for name, content := range cases {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestParseSessionTTL(t *testing.T) {
	if d, err := ParseSessionTTL(""); err != nil || d != 0 {
		t.Fatalf("empty TTL should be zero, got %v %v", d, err)
	}
	d, err := ParseSessionTTL("168h")
	if err != nil {
		t.Fatalf("parse 168h: %v", err)
	}
	if d != 7*24*time.Hour {
		t.Fatalf("168h = %v", d)
	}
	if _, err := ParseSessionTTL("not-a-duration"); err == nil {
		t.Fatal("garbage TTL should fail")
	}
}
