package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"keyiflimasa/internal/handlers"
	applog "keyiflimasa/internal/log"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr     string
	Session  SessionConfig
	Handlers handlers.Dependencies
}

// SessionConfig controls session behavior for the HTTP server.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server wraps an http.Server serving the merchant panel and public shops.
type Server struct {
	config     Config
	httpServer *http.Server
}

const (
	defaultSessionLifetime = 12 * time.Hour
	defaultSessionCookie   = "keyiflimasa_session"
)

// New wires the handler dependencies and wraps the router in the session
// middleware. Carts and merchant logins share the same session cookie.
func New(cfg Config) (*Server, error) {
	sessions := newSessionManager(cfg.Session)
	handlers.Configure(sessions, cfg.Handlers)

	applog.Debug(context.Background(), "server configured",
		"addr", cfg.Addr,
		"database", cfg.Handlers.Store != nil,
		"images", cfg.Handlers.Images != nil,
		"publicBaseURL", cfg.Handlers.PublicBaseURL,
	)

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           sessions.LoadAndSave(newRouter()),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func newSessionManager(cfg SessionConfig) *scs.SessionManager {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultSessionLifetime
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		cfg.CookieName = defaultSessionCookie
	}

	sessions := scs.New()
	sessions.Lifetime = cfg.Lifetime
	sessions.Cookie.Name = cfg.CookieName
	sessions.Cookie.Domain = cfg.CookieDomain
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.Persist = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode
	sessions.Cookie.Secure = cfg.CookieSecure

	applog.Debug(context.Background(), "session manager configured",
		"lifetime", cfg.Lifetime.String(),
		"cookieName", cfg.CookieName,
		"cookieSecure", cfg.CookieSecure,
	)
	return sessions
}

// Start blocks serving HTTP until Stop is called.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests, giving up after five seconds.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Info(ctx, "draining http connections", "addr", s.httpServer.Addr)
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the session-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
