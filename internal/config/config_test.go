package config

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Parallel()

	if got := firstNonEmpty("", "   ", "bar", "baz"); got != "bar" {
		t.Fatalf("firstNonEmpty skipped to %q, want bar", got)
	}
	if got := firstNonEmpty("", " "); got != "" {
		t.Fatalf("firstNonEmpty of blanks = %q", got)
	}

	ints := map[string]int{"": 7, "abc": 7, " 42 ": 42}
	for value, want := range ints {
		if got := parseIntWithDefault(value, 7); got != want {
			t.Fatalf("parseIntWithDefault(%q) = %d, want %d", value, got, want)
		}
	}

	durations := map[string]time.Duration{"": time.Second, "nonsense": time.Second, "2m": 2 * time.Minute}
	for value, want := range durations {
		if got := parseDurationWithDefault(value, time.Second); got != want {
			t.Fatalf("parseDurationWithDefault(%q) = %s, want %s", value, got, want)
		}
	}

	bools := map[string]bool{"": true, "nope": true, "false": false, "0": false}
	for value, want := range bools {
		if got := parseBoolWithDefault(value, true); got != want {
			t.Fatalf("parseBoolWithDefault(%q) = %t, want %t", value, got, want)
		}
	}

	if got := splitList(" a ,, b,"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("splitList = %v", got)
	}
	if got := splitList(""); got != nil {
		t.Fatalf("splitList of blank = %v, want nil", got)
	}
}

func TestLoadUsesEnvironmentDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("ADDR", "")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("DATABASE_MAX_IDLE_CONNS", "10")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "100")
	t.Setenv("DATABASE_CONN_MAX_LIFETIME", "1h")
	t.Setenv("DATABASE_CONN_MAX_IDLE_TIME", "30m")
	t.Setenv("DATABASE_USE_MOCK", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_LIFETIME", "45m")
	t.Setenv("SESSION_COOKIE_NAME", "custom_session")
	t.Setenv("SESSION_COOKIE_DOMAIN", "example.com")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("PUBLIC_BASE_URL", "https://keyiflimasa.example/")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("R2_ENDPOINT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Database.URL != "postgres://example" {
		t.Fatalf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.Database.MaxIdleConns != 10 {
		t.Fatalf("Database.MaxIdleConns = %d", cfg.Database.MaxIdleConns)
	}
	if cfg.Database.MaxOpenConns != 100 {
		t.Fatalf("Database.MaxOpenConns = %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.ConnMaxLifetime != time.Hour {
		t.Fatalf("Database.ConnMaxLifetime = %s", cfg.Database.ConnMaxLifetime)
	}
	if cfg.Database.ConnMaxIdleTime != 30*time.Minute {
		t.Fatalf("Database.ConnMaxIdleTime = %s", cfg.Database.ConnMaxIdleTime)
	}
	if !cfg.Database.UseMock {
		t.Fatalf("Database.UseMock = %t, want true", cfg.Database.UseMock)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Auth.Session.Lifetime != 45*time.Minute {
		t.Fatalf("Auth.Session.Lifetime = %s", cfg.Auth.Session.Lifetime)
	}
	if cfg.Auth.Session.CookieName != "custom_session" {
		t.Fatalf("Auth.Session.CookieName = %q", cfg.Auth.Session.CookieName)
	}
	if cfg.Auth.Session.CookieDomain != "example.com" {
		t.Fatalf("Auth.Session.CookieDomain = %q", cfg.Auth.Session.CookieDomain)
	}
	if cfg.Auth.Session.CookieSecure {
		t.Fatalf("Auth.Session.CookieSecure = %t, want false", cfg.Auth.Session.CookieSecure)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Shop.PublicBaseURL != "https://keyiflimasa.example" {
		t.Fatalf("Shop.PublicBaseURL = %q", cfg.Shop.PublicBaseURL)
	}
	if len(cfg.Events.Brokers) != 2 || cfg.Events.Brokers[1] != "kafka-2:9092" {
		t.Fatalf("Events.Brokers = %v", cfg.Events.Brokers)
	}
	if cfg.Events.Topic != "keyiflimasa.orders" {
		t.Fatalf("Events.Topic = %q", cfg.Events.Topic)
	}
	if cfg.Storage.Enabled() {
		t.Fatal("expected storage to be disabled without an endpoint")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mysql")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoadSessionDefaults(t *testing.T) {
	t.Setenv("SESSION_LIFETIME", "")
	t.Setenv("SESSION_COOKIE_NAME", "")
	t.Setenv("SESSION_COOKIE_SECURE", "")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.Session.Lifetime != 12*time.Hour {
		t.Fatalf("Auth.Session.Lifetime = %s", cfg.Auth.Session.Lifetime)
	}
	if cfg.Auth.Session.CookieName != "keyiflimasa_session" {
		t.Fatalf("Auth.Session.CookieName = %q", cfg.Auth.Session.CookieName)
	}
	if !cfg.Auth.Session.CookieSecure {
		t.Fatal("expected secure cookies by default")
	}
}

func TestStorageEnabled(t *testing.T) {
	t.Parallel()

	cfg := StorageConfig{Endpoint: "https://r2.example", Bucket: "menu", AccessKey: "a", SecretKey: "s"}
	if !cfg.Enabled() {
		t.Fatal("expected storage to be enabled")
	}
	cfg.SecretKey = ""
	if cfg.Enabled() {
		t.Fatal("expected storage to be disabled without a secret")
	}
}

func TestLoadPrefersServerAddr(t *testing.T) {
	t.Setenv("SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_URL", "postgres://example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("Server.Addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:9000")
	}
}
