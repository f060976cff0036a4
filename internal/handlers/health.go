package handlers

import (
	"net/http"
	"time"

	applog "keyiflimasa/internal/log"
)

type healthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

// Health is a readiness handler suitable for infrastructure probes. The
// database is pinged when a store is configured.
func Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "unconfigured", Time: time.Now().UTC()}
	status := http.StatusOK

	if shopStore != nil {
		resp.Database = "ok"
		sqlDB, err := shopStore.DB().DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			applog.Error(r.Context(), "health check database ping failed", "error", err)
			resp.Status, resp.Database = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}
