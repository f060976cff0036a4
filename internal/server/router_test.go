package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRouterRegistersHealthRoute(t *testing.T) {
	router := newRouter()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}
}

func TestNewRouterProtectsMerchantRoutes(t *testing.T) {
	srv, err := New(Config{Addr: ":0"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(resetHandlers)

	for _, route := range merchantRoutes {
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, route.path, nil))
		if route.path == "/app" {
			if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
				t.Fatalf("expected /app to redirect to login, got %d %q", rr.Code, rr.Header().Get("Location"))
			}
			continue
		}
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected %s to return 401, got %d", route.path, rr.Code)
		}
		if route.subtree {
			rr = httptest.NewRecorder()
			srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, route.path+"/1", nil))
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected %s/1 to return 401, got %d", route.path, rr.Code)
			}
		}
	}
}

func TestNewRouterUnknownPath(t *testing.T) {
	router := newRouter()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
