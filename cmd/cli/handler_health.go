package main

import (
	"context"
	"net/http"
	"time"
)

// healthHandler returns server health status
func (rm *RouteManager) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, database, code := "healthy", "connected", http.StatusOK
	if err := rm.db.Ping(ctx); err != nil {
		status, database, code = "unhealthy", "disconnected", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]string{"status": status, "database": database})
}
