package main

import (
	"io"
	"net/http"
	"strconv"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

const maxBodyBytes = 1 << 20

// sensorDataHandler ingests a reading and returns the resolved actuator states
func (rm *RouteManager) sensorDataHandler(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &models.ValidationError{Message: "No JSON data received"}
	}

	req, err := models.ParseIngestRequest(body)
	if err != nil {
		return err
	}

	resolved, err := rm.service.Ingest(r.Context(), req)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "success",
		"actuator_states": resolved,
	})
	return nil
}

// latestHandler returns the newest reading as a list of zero or one entries
func (rm *RouteManager) latestHandler(w http.ResponseWriter, r *http.Request) error {
	latest, err := rm.service.Latest(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, latest)
	return nil
}

// logsHandler returns one page of the reading log
// Query params:
//   - page: 1-based page number (default: 1)
//   - limit: rows per page (default: 10)
func (rm *RouteManager) logsHandler(w http.ResponseWriter, r *http.Request) error {
	q := models.LogsQuery{
		Page:  queryInt(r, "page", models.DefaultLogsPage),
		Limit: queryInt(r, "limit", models.DefaultLogsLimit),
	}

	page, err := rm.service.Logs(r.Context(), q)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, page)
	return nil
}

// sensorHistoryHandler returns the newest readings for charting
func (rm *RouteManager) sensorHistoryHandler(w http.ResponseWriter, r *http.Request) error {
	history, err := rm.service.SensorHistory(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, history)
	return nil
}

// queryInt parses an integer query parameter; absent or malformed values
// fall back to def
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
