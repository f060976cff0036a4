package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"gorm.io/gorm"

	"keyiflimasa/internal/config"
	"keyiflimasa/internal/events"
	"keyiflimasa/internal/server"
	"keyiflimasa/internal/storage"
)

type stubServer struct {
	startErr error
	stopErr  error
	block    bool

	startCalled bool
	stopCalled  bool

	started chan struct{}
	release chan struct{}
}

func newStubServer(startErr, stopErr error, block bool) *stubServer {
	return &stubServer{
		startErr: startErr,
		stopErr:  stopErr,
		block:    block,
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (s *stubServer) Start() error {
	s.startCalled = true
	close(s.started)
	if s.block {
		<-s.release
	}
	return s.startErr
}

func (s *stubServer) Stop() error {
	s.stopCalled = true
	if s.block {
		close(s.release)
	}
	return s.stopErr
}

type recordingPublisher struct {
	events.NopPublisher
	closed bool
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

// stubRun replaces every process hook with an in-memory fake serving cfg and
// restores the real ones when the test ends. Tests override individual hooks
// afterwards.
func stubRun(t *testing.T, cfg config.Config) (*stubServer, chan os.Signal) {
	t.Helper()
	originals := struct {
		load      func() (config.Config, error)
		level     func(string) error
		mockDB    func(context.Context) (*gorm.DB, error)
		realDB    func(config.DatabaseConfig) (*gorm.DB, error)
		newServer func(server.Config) (serverLifecycle, error)
		publisher func(config.EventsConfig) (events.Publisher, error)
		images    func(context.Context, config.StorageConfig) (storage.ImageStore, error)
		signals   func() (<-chan os.Signal, func())
	}{loadConfigFunc, setLogLevelFunc, newMockDatabaseFunc, configureDatabase, newServerFunc, newPublisherFunc, newImageStoreFunc, subscribeShutdownSig}
	t.Cleanup(func() {
		loadConfigFunc = originals.load
		setLogLevelFunc = originals.level
		newMockDatabaseFunc = originals.mockDB
		configureDatabase = originals.realDB
		newServerFunc = originals.newServer
		newPublisherFunc = originals.publisher
		newImageStoreFunc = originals.images
		subscribeShutdownSig = originals.signals
	})

	srv := newStubServer(nil, nil, false)
	shutdown := make(chan os.Signal, 1)

	loadConfigFunc = func() (config.Config, error) { return cfg, nil }
	setLogLevelFunc = func(string) error { return nil }
	newMockDatabaseFunc = func(context.Context) (*gorm.DB, error) { return &gorm.DB{}, nil }
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
		t.Fatal("configureDatabase should not be called")
		return nil, nil
	}
	newServerFunc = func(server.Config) (serverLifecycle, error) { return srv, nil }
	newPublisherFunc = func(config.EventsConfig) (events.Publisher, error) { return events.NopPublisher{}, nil }
	newImageStoreFunc = func(context.Context, config.StorageConfig) (storage.ImageStore, error) { return nil, nil }
	subscribeShutdownSig = func() (<-chan os.Signal, func()) { return shutdown, func() {} }
	return srv, shutdown
}

func mockConfig() config.Config {
	return config.Config{
		Server:   config.ServerConfig{Addr: ":8080"},
		Database: config.DatabaseConfig{UseMock: true},
		Logging:  config.LoggingConfig{Level: "info"},
		Auth: config.AuthConfig{Session: config.SessionConfig{
			Lifetime:     time.Hour,
			CookieName:   "test",
			CookieSecure: true,
		}},
	}
}

func TestRunStopsOnShutdownSignal(t *testing.T) {
	_, shutdown := stubRun(t, mockConfig())

	srv := newStubServer(http.ErrServerClosed, nil, true)
	var captured server.Config
	newServerFunc = func(cfg server.Config) (serverLifecycle, error) {
		captured = cfg
		return srv, nil
	}

	go func() {
		<-srv.started
		shutdown <- syscall.SIGTERM
	}()

	if code := run(context.Background()); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !srv.startCalled || !srv.stopCalled {
		t.Fatal("expected server start and stop to be invoked")
	}
	if captured.Session.CookieName != "test" || !captured.Session.CookieSecure || captured.Session.Lifetime != time.Hour {
		t.Fatalf("session settings not passed through: %+v", captured.Session)
	}
}

func TestRunUsesConfiguredDatabaseWithoutMock(t *testing.T) {
	cfg := mockConfig()
	cfg.Database = config.DatabaseConfig{URL: "postgres://example"}
	stubRun(t, cfg)

	var configured bool
	newMockDatabaseFunc = func(context.Context) (*gorm.DB, error) {
		t.Fatal("mock database should not be used when URL is configured")
		return nil, nil
	}
	configureDatabase = func(dbCfg config.DatabaseConfig) (*gorm.DB, error) {
		configured = dbCfg.URL == "postgres://example"
		return &gorm.DB{}, nil
	}

	if code := run(context.Background()); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !configured {
		t.Fatal("expected configured database to be opened")
	}
}

func TestRunWiresDependenciesAndClosesPublisher(t *testing.T) {
	cfg := mockConfig()
	cfg.Shop = config.ShopConfig{PublicBaseURL: "https://keyiflimasa.example"}
	cfg.Events = config.EventsConfig{Brokers: []string{"kafka:9092"}, Topic: "orders"}
	stubRun(t, cfg)

	publisher := &recordingPublisher{}
	newPublisherFunc = func(eventsCfg config.EventsConfig) (events.Publisher, error) {
		if len(eventsCfg.Brokers) != 1 || eventsCfg.Topic != "orders" {
			t.Fatalf("unexpected events config %+v", eventsCfg)
		}
		return publisher, nil
	}
	var captured server.Config
	srv := newStubServer(nil, nil, false)
	newServerFunc = func(cfg server.Config) (serverLifecycle, error) {
		captured = cfg
		return srv, nil
	}

	if code := run(context.Background()); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if captured.Handlers.Store == nil || captured.Handlers.Checkout == nil {
		t.Fatal("expected store and checkout service to be wired")
	}
	if captured.Handlers.Images != nil {
		t.Fatal("expected image uploads to stay disabled without storage config")
	}
	if captured.Handlers.PublicBaseURL != "https://keyiflimasa.example" {
		t.Fatalf("unexpected public base url %q", captured.Handlers.PublicBaseURL)
	}
	if !publisher.closed {
		t.Fatal("expected publisher to be closed on exit")
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T)
	}{
		{
			name: "config",
			mutate: func(*testing.T) {
				loadConfigFunc = func() (config.Config, error) { return config.Config{}, errors.New("bad env") }
			},
		},
		{
			name: "log level",
			mutate: func(*testing.T) {
				setLogLevelFunc = func(string) error { return errors.New("invalid level") }
			},
		},
		{
			name: "database",
			mutate: func(*testing.T) {
				newMockDatabaseFunc = func(context.Context) (*gorm.DB, error) { return nil, errors.New("db connection refused") }
			},
		},
		{
			name: "brokers",
			mutate: func(*testing.T) {
				newPublisherFunc = func(config.EventsConfig) (events.Publisher, error) {
					return nil, errors.New("kafka: client has run out of available brokers")
				}
			},
		},
		{
			name: "image storage",
			mutate: func(*testing.T) {
				newImageStoreFunc = func(context.Context, config.StorageConfig) (storage.ImageStore, error) {
					return nil, errors.New("missing credentials")
				}
			},
		},
		{
			name: "server start",
			mutate: func(t *testing.T) {
				srv := newStubServer(errors.New("listener failure"), nil, false)
				newServerFunc = func(server.Config) (serverLifecycle, error) { return srv, nil }
				t.Cleanup(func() {
					if srv.stopCalled {
						t.Error("server stop should not be called on start error")
					}
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubRun(t, mockConfig())
			tt.mutate(t)
			if code := run(context.Background()); code != 1 {
				t.Fatalf("expected exit code 1, got %d", code)
			}
		})
	}
}
