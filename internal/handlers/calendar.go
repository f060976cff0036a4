package handlers

import (
	"net/http"
	"strconv"
	"time"

	"keyiflimasa/internal/calendar"
	"keyiflimasa/internal/format"
	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/store"
)

// Calendar returns the month grid of orders. ?month=2025-03 selects the
// month; the current month is the default.
func Calendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	profileID, ok := merchantID(w, r)
	if !ok {
		return
	}

	now := time.Now().In(format.Location())
	year, month := now.Year(), now.Month()
	if value := r.URL.Query().Get("month"); value != "" {
		parsed, err := time.Parse("2006-01", value)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		year, month = parsed.Year(), parsed.Month()
	}
	if value := r.URL.Query().Get("year"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			year = parsed
		}
	}

	// The grid spills into neighbouring months, so load a week either side.
	from, to := calendar.Range(year, month)
	orders, err := shopStore.ListOrders(r.Context(), profileID, store.OrderFilter{
		From: from.AddDate(0, 0, -7),
		To:   to.AddDate(0, 0, 14),
	})
	if err != nil {
		applog.Error(r.Context(), "failed to load orders for calendar", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load calendar")
		return
	}

	writeJSON(w, http.StatusOK, calendar.Build(year, month, orders, now))
}
