package models

import "time"

// Health labels produced by the classifier
const (
	LabelHealthy        = "Healthy"
	LabelModerateStress = "Moderate Stress"
	LabelHighStress     = "High Stress"
	LabelUnknown        = "Unknown"
)

// Prediction is one stored classifier result
type Prediction struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Label        string    `json:"prediction"`
	SensorDataID *int64    `json:"sensor_data_id,omitempty"`
}

// PredictionHistoryItem is the wire form of a stored prediction
type PredictionHistoryItem struct {
	Prediction string  `json:"prediction"`
	Timestamp  *string `json:"timestamp"`
}

// HistoryItem converts a prediction to its wire form
func (p Prediction) HistoryItem() PredictionHistoryItem {
	item := PredictionHistoryItem{Prediction: p.Label}
	if !p.Timestamp.IsZero() {
		ts := p.Timestamp.Format(ISOLayout)
		item.Timestamp = &ts
	}
	return item
}

// PredictionFeatures echoes the classifier inputs
type PredictionFeatures struct {
	SoilMoisture   int     `json:"soil_moisture"`
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	LightIntensity int     `json:"light_intensity"`
}

// PredictionResult is returned by the predict endpoint
type PredictionResult struct {
	Timestamp  string             `json:"timestamp"`
	Prediction string             `json:"prediction"`
	Features   PredictionFeatures `json:"features"`
}
