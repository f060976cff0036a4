package handlers

import (
	"context"
	"net/http"
	"time"

	templpkg "github.com/a-h/templ"

	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/reports"
	"keyiflimasa/internal/store"
	"keyiflimasa/internal/views/pages"
)

// Dashboard renders the merchant panel once a merchant is authenticated.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	profile, err := loadCurrentProfile(r)
	if err != nil {
		applog.Error(r.Context(), "unable to load current profile for dashboard", "error", err)
		redirectToLogin(w, r)
		return
	}

	summary, err := buildDashboard(r.Context(), profile.ID)
	if err != nil {
		applog.Error(r.Context(), "failed to build dashboard", "error", err)
		http.Error(w, "unable to load dashboard", http.StatusInternalServerError)
		return
	}

	view := pages.AppView{
		Profile:   profile,
		ShopURL:   shopURL(profile.ShopSlug),
		Section:   r.URL.Query().Get("section"),
		Dashboard: summary,
	}

	var component templpkg.Component
	if isHTMX(r) {
		component = pages.AppPartial(view)
	} else {
		component = pages.App(view)
	}
	renderComponent(w, r, component)
}

// DashboardSummary serves the dashboard figures as JSON.
func DashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	profileID, ok := merchantID(w, r)
	if !ok {
		return
	}
	summary, err := buildDashboard(r.Context(), profileID)
	if err != nil {
		applog.Error(r.Context(), "failed to build dashboard", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func buildDashboard(ctx context.Context, profileID uint) (reports.Dashboard, error) {
	orders, err := shopStore.ListOrders(ctx, profileID, store.OrderFilter{})
	if err != nil {
		return reports.Dashboard{}, err
	}
	count, err := shopStore.CountRecipes(ctx, profileID)
	if err != nil {
		return reports.Dashboard{}, err
	}
	return reports.BuildDashboard(orders, count, time.Now()), nil
}
