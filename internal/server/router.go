package server

import (
	"context"
	"net/http"

	"keyiflimasa/internal/handlers"
	applog "keyiflimasa/internal/log"
)

// merchantRoutes sit behind the session check. Each collection is
// registered with and without a trailing slash so /app/api/orders and
// /app/api/orders/12 reach the same resource handler.
var merchantRoutes = []struct {
	path    string
	handler http.HandlerFunc
	subtree bool
}{
	{path: "/app", handler: handlers.Dashboard},
	{path: "/app/api/dashboard", handler: handlers.DashboardSummary},
	{path: "/app/api/ingredients", handler: handlers.IngredientResource, subtree: true},
	{path: "/app/api/categories", handler: handlers.CategoryResource, subtree: true},
	{path: "/app/api/recipes", handler: handlers.RecipeResource, subtree: true},
	{path: "/app/api/orders", handler: handlers.OrderResource, subtree: true},
	{path: "/app/api/calendar", handler: handlers.Calendar},
	{path: "/app/api/reports", handler: handlers.Reports},
	{path: "/app/api/settings", handler: handlers.Settings, subtree: true},
}

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/signup", handlers.Signup)
	mux.HandleFunc("/logout", handlers.Logout)
	mux.HandleFunc("/dukkan/", handlers.ShopResource)
	applog.Debug(context.Background(), "public routes registered", "paths", []string{"/healthz", "/login", "/signup", "/logout", "/dukkan/"})

	for _, route := range merchantRoutes {
		protected := handlers.RequireAuthentication(route.handler)
		mux.Handle(route.path, protected)
		if route.subtree {
			mux.Handle(route.path+"/", protected)
		}
		applog.Debug(context.Background(), "route registered", "path", route.path, "protected", true)
	}

	mux.HandleFunc("/", handlers.Home)
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir("web/static"))))
	applog.Debug(context.Background(), "route registered", "path", "/assets/", "static", true)
	return mux
}
