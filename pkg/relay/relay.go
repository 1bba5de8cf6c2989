// Package relay bridges devices speaking MQTT to the ingest pipeline.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/broadcast"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/config"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

const (
	qos            = 1
	ingestTimeout  = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Client is the subset of mqtt.Client the relay uses
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
	Disconnect(quiesce uint)
}

// Ingester accepts validated readings
type Ingester interface {
	Ingest(ctx context.Context, req *models.IngestRequest) (models.ActuatorStates, error)
}

// Connect dials the broker, retrying with exponential backoff
func Connect(cfg config.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("⚠ Failed to connect to MQTT broker: %v", token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithMaxRetries(bo, 4))
	if err != nil {
		return nil, fmt.Errorf("could not establish MQTT connection after retries: %w", err)
	}

	log.Printf("✓ Connected to MQTT broker at %s", cfg.Broker)
	return client, nil
}

// Relay ingests readings published on <prefix>/readings and republishes live
// events on <prefix>/events/<event>
type Relay struct {
	client   Client
	prefix   string
	ingester Ingester
}

// New creates a relay; call Start to subscribe
func New(client Client, prefix string, ingester Ingester) *Relay {
	return &Relay{
		client:   client,
		prefix:   prefix,
		ingester: ingester,
	}
}

// ReadingsTopic is where devices publish readings
func (r *Relay) ReadingsTopic() string {
	return r.prefix + "/readings"
}

// EventTopic is where a live event is republished
func (r *Relay) EventTopic(event string) string {
	return r.prefix + "/events/" + event
}

// Start subscribes to the readings topic
func (r *Relay) Start() error {
	token := r.client.Subscribe(r.ReadingsTopic(), qos, r.handleReading)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timed out subscribing to %s", r.ReadingsTopic())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.ReadingsTopic(), err)
	}

	log.Printf("✓ Relay listening on %s", r.ReadingsTopic())
	return nil
}

// Stop unsubscribes and disconnects
func (r *Relay) Stop() {
	r.client.Unsubscribe(r.ReadingsTopic()).WaitTimeout(publishTimeout)
	r.client.Disconnect(250)
	log.Println("MQTT relay stopped")
}

func (r *Relay) handleReading(_ mqtt.Client, msg mqtt.Message) {
	req, err := models.ParseIngestRequest(msg.Payload())
	if err != nil {
		log.Printf("⚠ Rejected reading on %s: %v", msg.Topic(), err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	if _, err := r.ingester.Ingest(ctx, req); err != nil {
		log.Printf("❌ Failed to ingest reading from %s: %v", msg.Topic(), err)
	}
}

// ID identifies the relay as a hub subscriber
func (r *Relay) ID() string {
	return "mqtt-relay"
}

// Send republishes a live event; delivery is confirmed asynchronously
func (r *Relay) Send(event broadcast.Event) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}

	topic := r.EventTopic(event.Name)
	token := r.client.Publish(topic, qos, false, payload)

	go func() {
		if token.WaitTimeout(publishTimeout) && token.Error() != nil {
			log.Printf("⚠ Failed to publish %s: %v", topic, token.Error())
		}
	}()

	return nil
}
