package handlers

import (
	"net/http"
	"time"

	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/reports"
	"keyiflimasa/internal/store"
)

type reportResponse struct {
	reports.Report
	PeriodLabel string `json:"period_label"`
}

// Reports returns revenue figures for ?period=week|month|all.
func Reports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	profileID, ok := merchantID(w, r)
	if !ok {
		return
	}

	period := reports.ParsePeriod(r.URL.Query().Get("period"))
	now := time.Now()
	orders, err := shopStore.ListOrders(r.Context(), profileID, store.OrderFilter{
		From:      period.Since(now),
		WithItems: true,
	})
	if err != nil {
		applog.Error(r.Context(), "failed to load orders for report", "error", err, "period", period)
		writeJSONError(w, http.StatusInternalServerError, "unable to build report")
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{
		Report:      reports.Build(orders, period, now),
		PeriodLabel: period.Label(),
	})
}
