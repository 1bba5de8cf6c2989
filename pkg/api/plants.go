package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

// ActuatorResponse is returned by POST /api/actuator
type ActuatorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// IngestResponse is returned by POST /api/sensor_data
type IngestResponse struct {
	Status         string                `json:"status"`
	ActuatorStates models.ActuatorStates `json:"actuator_states"`
}

// SensorPayload is the body accepted by POST /api/sensor_data
type SensorPayload struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	SoilMoisture int     `json:"soil_moisture"`
	Light        int     `json:"light"`
	WaterPump    bool    `json:"water_pump,omitempty"`
	Humidifier   bool    `json:"humidifier,omitempty"`
	CoolingFan   bool    `json:"cooling_fan,omitempty"`
}

// GetActuators returns the current actuator triple
func (c *Client) GetActuators(ctx context.Context) (*models.ActuatorStates, error) {
	var states models.ActuatorStates
	if err := c.getJSON(ctx, http.MethodGet, "/api/actuator", nil, &states); err != nil {
		return nil, err
	}
	return &states, nil
}

// SetActuator switches one actuator on or off
func (c *Client) SetActuator(ctx context.Context, actuator string, on bool) (*ActuatorResponse, error) {
	cmd := models.ActuatorCommand{Actuator: actuator, State: on}

	var out ActuatorResponse
	if err := c.getJSON(ctx, http.MethodPost, "/api/actuator", cmd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendReading submits a sensor reading and returns the resolved actuator states
func (c *Client) SendReading(ctx context.Context, payload SensorPayload) (*IngestResponse, error) {
	var out IngestResponse
	if err := c.getJSON(ctx, http.MethodPost, "/api/sensor_data", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Predict classifies the latest reading
func (c *Client) Predict(ctx context.Context) (*models.PredictionResult, error) {
	var out models.PredictionResult
	if err := c.getJSON(ctx, http.MethodGet, "/api/predict", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logs fetches one page of the reading log
func (c *Client) Logs(ctx context.Context, page, limit int) (*models.ReadingsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out models.ReadingsPage
	if err := c.getJSON(ctx, http.MethodGet, fmt.Sprintf("/api/logs?%s", q.Encode()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictionHistory returns the newest stored predictions
func (c *Client) PredictionHistory(ctx context.Context) ([]models.PredictionHistoryItem, error) {
	var out []models.PredictionHistoryItem
	if err := c.getJSON(ctx, http.MethodGet, "/api/prediction_history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
