package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

// setActuatorHandler switches a single actuator
func (rm *RouteManager) setActuatorHandler(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return &models.ValidationError{Message: "No JSON data received"}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var cmd models.ActuatorCommand
	if err := dec.Decode(&cmd); err != nil {
		return &models.ValidationError{Message: "No JSON data received"}
	}

	on, err := rm.service.SetActuator(r.Context(), cmd.Actuator, cmd.State)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Actuator %s state changed to %t", cmd.Actuator, on),
	})
	return nil
}

// getActuatorHandler returns the current actuator triple
func (rm *RouteManager) getActuatorHandler(w http.ResponseWriter, r *http.Request) error {
	states, err := rm.service.ActuatorStates(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, states)
	return nil
}
