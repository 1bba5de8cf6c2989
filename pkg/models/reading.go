package models

import (
	"fmt"
	"time"
)

// TimestampLayout is the wall-clock layout used for readings sent to viewers
const TimestampLayout = "2006-01-02 15:04:05"

// ISOLayout is the layout used by the history endpoints
const ISOLayout = "2006-01-02T15:04:05"

// Sensor field names as accepted on the ingest endpoint
const (
	FieldTemperature  = "temperature"
	FieldHumidity     = "humidity"
	FieldSoilMoisture = "soil_moisture"
	FieldLight        = "light"
)

// RequiredSensorFields lists the fields every reading must carry, in report order
var RequiredSensorFields = []string{FieldTemperature, FieldHumidity, FieldSoilMoisture, FieldLight}

// SensorReading is one timestamped set of sensor values plus the actuator
// states in force when it was written
type SensorReading struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Temperature  float64   `json:"temperature"`
	Humidity     float64   `json:"humidity"`
	SoilMoisture int       `json:"soil_moisture"`
	LightValue   int       `json:"light_value"`
	WaterPump    bool      `json:"water_pump"`
	Humidifier   bool      `json:"humidifier"`
	CoolingFan   bool      `json:"cooling_fan"`
}

// Actuators returns the actuator triple recorded with the reading
func (r SensorReading) Actuators() ActuatorStates {
	return ActuatorStates{
		WaterPump:  r.WaterPump,
		Humidifier: r.Humidifier,
		CoolingFan: r.CoolingFan,
	}
}

// ReadingView is the wire form of a reading for logs, latest and live updates
type ReadingView struct {
	Timestamp    string  `json:"timestamp"`
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	SoilMoisture int     `json:"soil_moisture"`
	LightValue   int     `json:"light_value"`
	WaterPump    bool    `json:"water_pump"`
	Humidifier   bool    `json:"humidifier"`
	CoolingFan   bool    `json:"cooling_fan"`
}

// View formats the reading with TimestampLayout
func (r SensorReading) View() ReadingView {
	return ReadingView{
		Timestamp:    r.Timestamp.Format(TimestampLayout),
		Temperature:  r.Temperature,
		Humidity:     r.Humidity,
		SoilMoisture: r.SoilMoisture,
		LightValue:   r.LightValue,
		WaterPump:    r.WaterPump,
		Humidifier:   r.Humidifier,
		CoolingFan:   r.CoolingFan,
	}
}

// SensorHistoryPoint is one entry of the sensor history chart feed
type SensorHistoryPoint struct {
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	SoilMoisture float64 `json:"soil_moisture"`
	Light        float64 `json:"light"`
	Timestamp    string  `json:"timestamp"`
}

// HistoryPoint converts a reading into its chart form
func (r SensorReading) HistoryPoint() SensorHistoryPoint {
	return SensorHistoryPoint{
		Temperature:  r.Temperature,
		Humidity:     r.Humidity,
		SoilMoisture: float64(r.SoilMoisture),
		Light:        float64(r.LightValue),
		Timestamp:    r.Timestamp.Format(ISOLayout),
	}
}

// LogsQuery holds the pagination parameters of the logs endpoint
type LogsQuery struct {
	Page  int
	Limit int
}

// Default pagination values
const (
	DefaultLogsPage  = 1
	DefaultLogsLimit = 10
)

// Validate checks that page and limit are both positive
func (q LogsQuery) Validate() error {
	if q.Page < 1 || q.Limit < 1 {
		return &ValidationError{Message: "Invalid page or limit"}
	}
	return nil
}

// Offset returns the number of rows skipped before the requested page
func (q LogsQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ReadingsPage is one page of the reading log
type ReadingsPage struct {
	Logs         []ReadingView `json:"logs"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalRecords int           `json:"total_records"`
	TotalPages   int           `json:"total_pages"`
}

// TotalPages returns ceil(total/limit)
func TotalPages(total, limit int) int {
	if limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (p ReadingsPage) String() string {
	return fmt.Sprintf("page %d/%d (%d records)", p.Page, p.TotalPages, p.TotalRecords)
}
