package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"keyiflimasa/internal/checkout"
	"keyiflimasa/internal/config"
	"keyiflimasa/internal/db"
	"keyiflimasa/internal/db/mock"
	"keyiflimasa/internal/events"
	"keyiflimasa/internal/handlers"
	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/server"
	"keyiflimasa/internal/storage"
	"keyiflimasa/internal/store"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	newPublisherFunc = func(cfg config.EventsConfig) (events.Publisher, error) {
		if len(cfg.Brokers) == 0 {
			return events.NopPublisher{}, nil
		}
		return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
	}
	newImageStoreFunc = func(ctx context.Context, cfg config.StorageConfig) (storage.ImageStore, error) {
		if !cfg.Enabled() {
			return nil, nil
		}
		return storage.NewR2Store(ctx, cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}
	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	var database *gorm.DB
	if cfg.Database.UseMock {
		applog.Info(ctx, "using in-memory demo database")
		database, err = newMockDatabaseFunc(ctx)
	} else {
		database, err = configureDatabase(cfg.Database)
	}
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	publisher, err := newPublisherFunc(cfg.Events)
	if err != nil {
		applog.Error(ctx, "failed to connect to event brokers", "brokers", cfg.Events.Brokers, "error", err)
		return 1
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			applog.Warn(ctx, "failed to close event publisher", "error", err)
		}
	}()

	images, err := newImageStoreFunc(ctx, cfg.Storage)
	if err != nil {
		applog.Error(ctx, "failed to configure image storage", "error", err)
		return 1
	}
	if images == nil {
		applog.Info(ctx, "image storage not configured, uploads disabled")
	}

	shops := store.New(database)
	srv, err := newServerFunc(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Auth.Session.Lifetime,
			CookieName:   cfg.Auth.Session.CookieName,
			CookieDomain: cfg.Auth.Session.CookieDomain,
			CookieSecure: cfg.Auth.Session.CookieSecure,
		},
		Handlers: handlers.Dependencies{
			Store:         shops,
			Checkout:      checkout.New(shops, publisher),
			Images:        images,
			PublicBaseURL: cfg.Shop.PublicBaseURL,
		},
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server exited with error", "error", err)
		return 1
	}
	return 0
}
