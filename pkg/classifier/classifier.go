// Package classifier turns the four sensor features into a plant health label.
package classifier

import (
	"log"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

// Model maps an ordered feature vector to a class code
type Model interface {
	Predict(features []float64) (int, error)
}

// ModelFunc adapts a function to Model
type ModelFunc func(features []float64) (int, error)

// Predict calls f
func (f ModelFunc) Predict(features []float64) (int, error) {
	return f(features)
}

var labels = map[int]string{
	0: models.LabelHealthy,
	1: models.LabelModerateStress,
	2: models.LabelHighStress,
}

// LabelFor maps a class code to its label; unmapped codes are Unknown
func LabelFor(code int) string {
	if label, ok := labels[code]; ok {
		return label
	}
	return models.LabelUnknown
}

// Classifier wraps an optional model
type Classifier struct {
	model Model
}

// New wraps model; a nil model makes every Classify fail with ErrModelUnavailable
func New(model Model) *Classifier {
	return &Classifier{model: model}
}

// Load reads the model at path. A missing or unreadable file is logged and
// leaves the classifier unavailable instead of failing startup.
func Load(path string) *Classifier {
	ens, err := LoadXGBoost(path)
	if err != nil {
		log.Printf("❌ Failed to load ML model from %s: %v", path, err)
		return New(nil)
	}

	log.Printf("✓ ML model loaded from %s (%d features, %d output groups)", path, ens.NFeatures(), ens.NOutputGroups())
	return New(&treeModel{ens: ens})
}

// Available reports whether a model is loaded
func (c *Classifier) Available() bool {
	return c != nil && c.model != nil
}

// Classify runs the model over (soil_moisture, temperature, humidity, light)
func (c *Classifier) Classify(f models.PredictionFeatures) (string, error) {
	if !c.Available() {
		return "", models.ErrModelUnavailable
	}

	code, err := c.model.Predict(Vector(f))
	if err != nil {
		return "", &models.PredictionError{Err: err}
	}

	return LabelFor(code), nil
}

// Vector orders the features the way the model was trained
func Vector(f models.PredictionFeatures) []float64 {
	return []float64{
		float64(f.SoilMoisture),
		f.Temperature,
		f.Humidity,
		float64(f.LightIntensity),
	}
}
