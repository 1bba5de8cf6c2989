package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/broadcast"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

type mockToken struct {
	err error
}

func (t *mockToken) Wait() bool                     { return true }
func (t *mockToken) WaitTimeout(time.Duration) bool { return true }
func (t *mockToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (t *mockToken) Error() error                   { return t.err }

type mockMessage struct {
	topic   string
	payload []byte
}

func (m *mockMessage) Duplicate() bool   { return false }
func (m *mockMessage) Qos() byte         { return qos }
func (m *mockMessage) Retained() bool    { return false }
func (m *mockMessage) Topic() string     { return m.topic }
func (m *mockMessage) MessageID() uint16 { return 1 }
func (m *mockMessage) Payload() []byte   { return m.payload }
func (m *mockMessage) Ack()              {}

type published struct {
	topic   string
	payload []byte
}

type MockClient struct {
	mu           sync.Mutex
	published    []published
	subscribed   map[string]mqtt.MessageHandler
	subscribeErr error
	disconnected bool
}

func newMockClient() *MockClient {
	return &MockClient{subscribed: make(map[string]mqtt.MessageHandler)}
}

func (c *MockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, published{topic: topic, payload: payload.([]byte)})
	return &mockToken{}
}

func (c *MockClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscribeErr == nil {
		c.subscribed[topic] = callback
	}
	return &mockToken{err: c.subscribeErr}
}

func (c *MockClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, topic := range topics {
		delete(c.subscribed, topic)
	}
	return &mockToken{}
}

func (c *MockClient) Disconnect(quiesce uint) {
	c.mu.Lock()
	c.disconnected = true
	c.mu.Unlock()
}

type MockIngester struct {
	requests []*models.IngestRequest
	err      error
}

func (m *MockIngester) Ingest(ctx context.Context, req *models.IngestRequest) (models.ActuatorStates, error) {
	m.requests = append(m.requests, req)
	return models.ActuatorStates{}, m.err
}

func TestStart_SubscribesToReadings(t *testing.T) {
	client := newMockClient()
	r := New(client, "plants", &MockIngester{})

	if err := r.Start(); err != nil {
		t.Fatalf("Expected Start to succeed: %v", err)
	}

	if _, ok := client.subscribed["plants/readings"]; !ok {
		t.Error("Expected subscription to plants/readings")
	}
}

func TestStart_SubscribeError(t *testing.T) {
	client := newMockClient()
	client.subscribeErr = errors.New("not authorized")
	r := New(client, "plants", &MockIngester{})

	if err := r.Start(); err == nil {
		t.Error("Expected Start to fail")
	}
}

func TestHandleReading_Ingests(t *testing.T) {
	client := newMockClient()
	ingester := &MockIngester{}
	r := New(client, "plants", ingester)

	if err := r.Start(); err != nil {
		t.Fatalf("Expected Start to succeed: %v", err)
	}

	handler := client.subscribed["plants/readings"]
	handler(nil, &mockMessage{
		topic:   "plants/readings",
		payload: []byte(`{"temperature": 24.5, "humidity": 55, "soil_moisture": 20, "light": 1800, "timestamp": 123456}`),
	})

	if len(ingester.requests) != 1 {
		t.Fatalf("Expected 1 ingest, got %d", len(ingester.requests))
	}
	req := ingester.requests[0]
	if req.Temperature != 24.5 || req.SoilMoisture != 20 || req.LightValue != 1800 {
		t.Errorf("Unexpected request %+v", req)
	}
	if req.Timestamp != nil {
		t.Error("Expected device uptime timestamp to be ignored")
	}
}

func TestHandleReading_InvalidPayload(t *testing.T) {
	ingester := &MockIngester{}
	r := New(newMockClient(), "plants", ingester)

	r.handleReading(nil, &mockMessage{topic: "plants/readings", payload: []byte(`{"temperature": 20}`)})
	r.handleReading(nil, &mockMessage{topic: "plants/readings", payload: []byte(`garbage`)})

	if len(ingester.requests) != 0 {
		t.Errorf("Expected invalid payloads to be dropped, got %d ingests", len(ingester.requests))
	}
}

func TestSend_RepublishesEvent(t *testing.T) {
	client := newMockClient()
	r := New(client, "plants", &MockIngester{})

	change := models.ActuatorChange{Actuator: models.ActuatorWaterPump, State: true}
	if err := r.Send(broadcast.Event{Name: broadcast.EventActuatorUpdate, Data: change}); err != nil {
		t.Fatalf("Expected Send to succeed: %v", err)
	}

	client.mu.Lock()
	defer client.mu.Unlock()

	if len(client.published) != 1 {
		t.Fatalf("Expected 1 publish, got %d", len(client.published))
	}
	if client.published[0].topic != "plants/events/actuator_update" {
		t.Errorf("Unexpected topic %s", client.published[0].topic)
	}

	var got models.ActuatorChange
	if err := json.Unmarshal(client.published[0].payload, &got); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if got != change {
		t.Errorf("Expected %+v, got %+v", change, got)
	}
}

func TestRelay_AttachedToHub(t *testing.T) {
	client := newMockClient()
	r := New(client, "greenhouse", &MockIngester{})
	hub := broadcast.NewHub(nil)

	hub.Attach(r)
	hub.Publish(broadcast.EventSensorUpdate, models.ReadingView{Temperature: 20})

	if hub.Count() != 0 {
		t.Errorf("Expected relay not to count as a live subscriber, got %d", hub.Count())
	}

	client.mu.Lock()
	defer client.mu.Unlock()

	if len(client.published) != 1 || client.published[0].topic != "greenhouse/events/sensor_update" {
		t.Errorf("Expected sensor_update on greenhouse/events, got %+v", client.published)
	}
}

func TestStop(t *testing.T) {
	client := newMockClient()
	r := New(client, "plants", &MockIngester{})
	_ = r.Start()

	r.Stop()

	if !client.disconnected {
		t.Error("Expected client to be disconnected")
	}
	if len(client.subscribed) != 0 {
		t.Error("Expected readings topic to be unsubscribed")
	}
}
