package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"time"
)

// Integer sensor fields are stored in INTEGER columns
const (
	minIntegerField = math.MinInt32
	maxIntegerField = math.MaxInt32
)

// IngestRequest is a validated sensor payload. Requested holds the actuator
// states the device reported; they are OR-combined with threshold decisions.
// SoilMoisture and LightValue keep the value as sent; thresholds compare the
// raw value and storage rounds it.
type IngestRequest struct {
	Timestamp    *time.Time
	Temperature  float64
	Humidity     float64
	SoilMoisture float64
	LightValue   float64
	Requested    ActuatorStates
}

// Reading converts the request into a row carrying the given actuator states
func (r *IngestRequest) Reading(states ActuatorStates) *SensorReading {
	return &SensorReading{
		Temperature:  r.Temperature,
		Humidity:     r.Humidity,
		SoilMoisture: int(math.Round(r.SoilMoisture)),
		LightValue:   int(math.Round(r.LightValue)),
		WaterPump:    states.WaterPump,
		Humidifier:   states.Humidifier,
		CoolingFan:   states.CoolingFan,
	}
}

// ParseIngestRequest decodes a sensor payload, reporting missing or
// non-numeric sensor fields as a ValidationError
func ParseIngestRequest(body []byte) (*IngestRequest, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &ValidationError{Message: "No JSON data received"}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return nil, &ValidationError{Message: "No JSON data received"}
	}

	return IngestRequestFromMap(payload)
}

// IngestRequestFromMap validates an already decoded payload
func IngestRequestFromMap(payload map[string]any) (*IngestRequest, error) {
	var missing, invalid []string
	values := make(map[string]float64, len(RequiredSensorFields))

	for _, field := range RequiredSensorFields {
		raw, ok := payload[field]
		if !ok || raw == nil {
			missing = append(missing, field)
			continue
		}
		v, ok := toFloat(raw)
		if !ok || (isIntegerField(field) && !inIntegerRange(v)) {
			invalid = append(invalid, field)
			continue
		}
		values[field] = v
	}

	if len(missing) > 0 {
		return nil, NewMissingFieldsError(missing)
	}
	if len(invalid) > 0 {
		return nil, NewInvalidFieldsError(invalid)
	}

	req := &IngestRequest{
		Temperature:  values[FieldTemperature],
		Humidity:     values[FieldHumidity],
		SoilMoisture: values[FieldSoilMoisture],
		LightValue:   values[FieldLight],
	}

	for _, name := range ValidActuators {
		on, err := ParseActuatorState(payload[name])
		if err != nil {
			return nil, err
		}
		req.Requested.Set(name, on)
	}

	// Devices send their uptime in milliseconds as "timestamp"; only
	// wall-clock strings override the server time.
	if ts, ok := payload["timestamp"].(string); ok && ts != "" {
		t, err := parseTimestamp(ts)
		if err != nil {
			return nil, &ValidationError{Message: "Invalid timestamp: " + ts, Fields: []string{"timestamp"}}
		}
		req.Timestamp = &t
	}

	return req, nil
}

func isIntegerField(field string) bool {
	return field == FieldSoilMoisture || field == FieldLight
}

func inIntegerRange(v float64) bool {
	r := math.Round(v)
	return r >= minIntegerField && r <= maxIntegerField
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, TimestampLayout, ISOLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unsupported timestamp format")
}
