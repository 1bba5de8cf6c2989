package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts a handler returning an error and maps the error to a status
func (rm *RouteManager) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				log.Printf("❌ %s %s failed: %v", r.Method, r.URL.Path, err)
			}
			writeError(w, status, err.Error())
		}
	}
}

func statusFor(err error) int {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠ Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
