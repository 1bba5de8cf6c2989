// Package pipeline sequences threshold evaluation, persistence, live fan-out
// and prediction for each incoming reading or command.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/raneshrk02/smart-plant-monitoring/pkg/broadcast"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/threshold"
)

// HistoryLimit caps the sensor and prediction history feeds
const HistoryLimit = 100

// Store is the persistence the pipeline needs
type Store interface {
	InsertReading(ctx context.Context, reading *models.SensorReading) error
	GetLatestReading(ctx context.Context) (*models.SensorReading, error)
	GetReadingsPage(ctx context.Context, q models.LogsQuery) (*models.ReadingsPage, error)
	GetRecentReadings(ctx context.Context, n int) ([]models.SensorReading, error)
	GetActuatorState(ctx context.Context) (*models.ActuatorState, error)
	SetActuator(ctx context.Context, name string, on bool) error
	ActivateActuators(ctx context.Context, on models.ActuatorStates) (models.ActuatorStates, error)
	InsertPrediction(ctx context.Context, prediction *models.Prediction) error
	GetPredictionHistory(ctx context.Context, limit int) ([]models.Prediction, error)
}

// Publisher fans events out to live subscribers
type Publisher interface {
	Publish(name string, data any) int
}

// Predictor labels a feature set
type Predictor interface {
	Available() bool
	Classify(f models.PredictionFeatures) (string, error)
}

// Recorder observes pipeline outcomes
type Recorder interface {
	ReadingIngested(resolved models.ActuatorStates)
	ActuatorCommanded(actuator string, on bool)
	PredictionMade(label string)
}

type noopRecorder struct{}

func (noopRecorder) ReadingIngested(models.ActuatorStates) {}
func (noopRecorder) ActuatorCommanded(string, bool)        {}
func (noopRecorder) PredictionMade(string)                 {}

// Option configures a Service
type Option func(*Service)

// WithRecorder attaches a Recorder
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service is the ingest and command orchestrator
type Service struct {
	store      Store
	publisher  Publisher
	predictor  Predictor
	thresholds threshold.Config
	recorder   Recorder
	now        func() time.Time
}

// NewService wires the pipeline
func NewService(store Store, publisher Publisher, predictor Predictor, thresholds threshold.Config, opts ...Option) *Service {
	s := &Service{
		store:      store,
		publisher:  publisher,
		predictor:  predictor,
		thresholds: thresholds,
		recorder:   noopRecorder{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest stores a validated reading and returns the resolved actuator states.
// A threshold decision is OR'd with the caller's request and never cleared.
// Actuators switched on by thresholds alone are also switched on in the
// singleton state, followed by an actuator_update carrying the full triple.
func (s *Service) Ingest(ctx context.Context, req *models.IngestRequest) (models.ActuatorStates, error) {
	decision := s.thresholds.EvaluateReading(req)
	resolved := req.Requested.Or(decision)

	reading := req.Reading(resolved)
	if req.Timestamp != nil {
		reading.Timestamp = *req.Timestamp
	} else {
		reading.Timestamp = s.now()
	}

	if err := s.store.InsertReading(ctx, reading); err != nil {
		log.Printf("❌ Failed to store reading: %v", err)
		return models.ActuatorStates{}, err
	}

	s.publisher.Publish(broadcast.EventSensorUpdate, reading.View())
	s.recorder.ReadingIngested(resolved)

	activate := models.ActuatorStates{
		WaterPump:  decision.WaterPump && !req.Requested.WaterPump,
		Humidifier: decision.Humidifier && !req.Requested.Humidifier,
		CoolingFan: decision.CoolingFan && !req.Requested.CoolingFan,
	}

	if activate.AnyOn() {
		states, err := s.store.ActivateActuators(ctx, activate)
		if err != nil {
			log.Printf("❌ Failed to switch on actuators: %v", err)
			return models.ActuatorStates{}, err
		}
		log.Printf("Thresholds switched on: %s", describe(activate))
		s.publisher.Publish(broadcast.EventActuatorUpdate, states)
	}

	return resolved, nil
}

// SetActuator applies an explicit command. Unknown actuators and state values
// are rejected before anything is written or broadcast.
func (s *Service) SetActuator(ctx context.Context, name string, rawState any) (bool, error) {
	if !models.IsValidActuator(name) {
		return false, models.NewUnknownActuatorError(name)
	}

	on, err := models.ParseActuatorState(rawState)
	if err != nil {
		return false, err
	}

	log.Printf("Actuator control request: %s=%v", name, on)

	if err := s.store.SetActuator(ctx, name, on); err != nil {
		log.Printf("❌ Failed to set actuator %s: %v", name, err)
		return false, err
	}

	s.publisher.Publish(broadcast.EventActuatorUpdate, models.ActuatorChange{Actuator: name, State: on})
	s.recorder.ActuatorCommanded(name, on)

	return on, nil
}

// ActuatorStates returns the current singleton state
func (s *Service) ActuatorStates(ctx context.Context) (models.ActuatorStates, error) {
	state, err := s.store.GetActuatorState(ctx)
	if err != nil {
		return models.ActuatorStates{}, err
	}
	return state.ActuatorStates, nil
}

// Logs returns one page of the reading log
func (s *Service) Logs(ctx context.Context, q models.LogsQuery) (*models.ReadingsPage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.store.GetReadingsPage(ctx, q)
}

// Latest returns the newest reading as a list of zero or one entries
func (s *Service) Latest(ctx context.Context) ([]models.ReadingView, error) {
	reading, err := s.store.GetLatestReading(ctx)
	if err != nil {
		return nil, err
	}
	if reading == nil {
		return []models.ReadingView{}, nil
	}
	return []models.ReadingView{reading.View()}, nil
}

// SensorHistory returns the newest complete readings for charting
func (s *Service) SensorHistory(ctx context.Context) ([]models.SensorHistoryPoint, error) {
	readings, err := s.store.GetRecentReadings(ctx, HistoryLimit)
	if err != nil {
		return nil, err
	}

	points := make([]models.SensorHistoryPoint, 0, len(readings))
	for _, r := range readings {
		points = append(points, r.HistoryPoint())
	}
	return points, nil
}

// PredictionHistory returns the newest stored predictions
func (s *Service) PredictionHistory(ctx context.Context) ([]models.PredictionHistoryItem, error) {
	predictions, err := s.store.GetPredictionHistory(ctx, HistoryLimit)
	if err != nil {
		return nil, err
	}

	items := make([]models.PredictionHistoryItem, 0, len(predictions))
	counts := make(map[string]int)
	for _, p := range predictions {
		items = append(items, p.HistoryItem())
		counts[p.Label]++
	}

	if len(items) > 0 {
		log.Printf("Prediction history: %d entries, distribution %s", len(items), distribution(counts))
	}

	return items, nil
}

// Predict classifies the latest reading and stores the label
func (s *Service) Predict(ctx context.Context) (*models.PredictionResult, error) {
	if !s.predictor.Available() {
		return nil, models.ErrModelUnavailable
	}

	reading, err := s.store.GetLatestReading(ctx)
	if err != nil {
		return nil, err
	}
	if reading == nil {
		return nil, models.ErrNoSensorData
	}

	features := models.PredictionFeatures{
		SoilMoisture:   reading.SoilMoisture,
		Temperature:    reading.Temperature,
		Humidity:       reading.Humidity,
		LightIntensity: reading.LightValue,
	}

	label, err := s.predictor.Classify(features)
	if err != nil {
		log.Printf("❌ Prediction error: %v", err)
		return nil, err
	}

	now := s.now()
	prediction := &models.Prediction{
		Timestamp:    now,
		Label:        label,
		SensorDataID: &reading.ID,
	}
	if err := s.store.InsertPrediction(ctx, prediction); err != nil {
		return nil, err
	}

	s.recorder.PredictionMade(label)

	return &models.PredictionResult{
		Timestamp:  now.Format(models.TimestampLayout),
		Prediction: label,
		Features:   features,
	}, nil
}

func describe(states models.ActuatorStates) string {
	var on []string
	for _, name := range models.ValidActuators {
		if states.Get(name) {
			on = append(on, name)
		}
	}
	return strings.Join(on, ", ")
}

func distribution(counts map[string]int) string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s=%d", label, counts[label]))
	}
	return strings.Join(parts, " ")
}
