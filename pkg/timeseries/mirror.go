// Package timeseries mirrors live events into InfluxDB.
package timeseries

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/broadcast"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/config"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
	"github.com/sony/gobreaker"
)

const (
	queueSize    = 256
	writeTimeout = 5 * time.Second

	actuatorMeasurement = "actuator_state"
)

// ErrQueueFull is returned by Send when the writer is not keeping up
var ErrQueueFull = errors.New("timeseries queue full")

// PointWriter is the subset of api.WriteAPIBlocking the mirror uses
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Connect creates an Influx client and its blocking write API
func Connect(cfg config.InfluxConfig) (influxdb2.Client, PointWriter) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return client, client.WriteAPIBlocking(cfg.Org, cfg.Bucket)
}

func newBreaker(name string, fails uint32, open time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: time.Minute,
		Timeout:  open,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= fails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("⚠ Circuit %s: %s -> %s", name, from, to)
		},
	})
}

// Mirror is a hub subscriber that writes readings and actuator changes as
// points. Writes run on one goroutine behind a circuit breaker.
type Mirror struct {
	writer      PointWriter
	measurement string
	breaker     *gobreaker.CircuitBreaker
	queue       chan *write.Point

	wg sync.WaitGroup
}

// NewMirror creates a mirror writing readings to measurement
func NewMirror(writer PointWriter, measurement string) *Mirror {
	return &Mirror{
		writer:      writer,
		measurement: measurement,
		breaker:     newBreaker("influx", 5, 30*time.Second),
		queue:       make(chan *write.Point, queueSize),
	}
}

// ID identifies the mirror as a hub subscriber
func (m *Mirror) ID() string {
	return "influx-mirror"
}

// Send converts the event to a point and queues it; other events are ignored
func (m *Mirror) Send(event broadcast.Event) error {
	point, ok := m.toPoint(event)
	if !ok {
		return nil
	}

	select {
	case m.queue <- point:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run drains the queue until ctx is done
func (m *Mirror) Run(ctx context.Context) {
	m.wg.Add(1)
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case point := <-m.queue:
			m.write(ctx, point)
		}
	}
}

// Wait blocks until Run returned
func (m *Mirror) Wait() {
	m.wg.Wait()
}

func (m *Mirror) write(ctx context.Context, point *write.Point) {
	_, err := m.breaker.Execute(func() (interface{}, error) {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()
		return nil, m.writer.WritePoint(wctx, point)
	})

	if err != nil && !errors.Is(err, gobreaker.ErrOpenState) {
		log.Printf("⚠ Influx write failed: %v", err)
	}
}

func (m *Mirror) toPoint(event broadcast.Event) (*write.Point, bool) {
	switch data := event.Data.(type) {
	case models.ReadingView:
		ts, err := time.ParseInLocation(models.TimestampLayout, data.Timestamp, time.Local)
		if err != nil {
			ts = time.Now()
		}
		fields := map[string]interface{}{
			"temperature":   data.Temperature,
			"humidity":      data.Humidity,
			"soil_moisture": data.SoilMoisture,
			"light_value":   data.LightValue,
			"water_pump":    data.WaterPump,
			"humidifier":    data.Humidifier,
			"cooling_fan":   data.CoolingFan,
		}
		return influxdb2.NewPoint(m.measurement, map[string]string{"event": event.Name}, fields, ts), true

	case models.ActuatorStates:
		fields := map[string]interface{}{
			models.ActuatorWaterPump:  data.WaterPump,
			models.ActuatorHumidifier: data.Humidifier,
			models.ActuatorCoolingFan: data.CoolingFan,
		}
		tags := map[string]string{"source": "threshold"}
		return influxdb2.NewPoint(actuatorMeasurement, tags, fields, time.Now()), true

	case models.ActuatorChange:
		fields := map[string]interface{}{data.Actuator: data.State}
		tags := map[string]string{"source": "command"}
		return influxdb2.NewPoint(actuatorMeasurement, tags, fields, time.Now()), true
	}

	return nil, false
}
