// Package threshold maps sensor values to actuator decisions.
package threshold

import "github.com/raneshrk02/smart-plant-monitoring/pkg/models"

// Config holds the fixed limits the decisions are derived from
type Config struct {
	SoilMoistureMin int     `mapstructure:"soil_moisture_min"`
	LightMin        int     `mapstructure:"light_min"`
	TemperatureMax  float64 `mapstructure:"temperature_max"`
	HumidityMin     float64 `mapstructure:"humidity_min"`
}

// DefaultConfig returns the limits used when nothing is configured
func DefaultConfig() Config {
	return Config{
		SoilMoistureMin: 30,
		LightMin:        1560,
		TemperatureMax:  35.0,
		HumidityMin:     40.0,
	}
}

// Evaluate returns which actuators should be on for the given values.
// Comparisons are strict: a value equal to its limit triggers nothing.
func (c Config) Evaluate(temperature, humidity, soilMoisture float64) models.ActuatorStates {
	return models.ActuatorStates{
		WaterPump:  soilMoisture < float64(c.SoilMoistureMin),
		CoolingFan: temperature > c.TemperatureMax,
		Humidifier: humidity < c.HumidityMin,
	}
}

// EvaluateReading is Evaluate applied to a validated ingest request
func (c Config) EvaluateReading(req *models.IngestRequest) models.ActuatorStates {
	return c.Evaluate(req.Temperature, req.Humidity, req.SoilMoisture)
}
