package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremetrics "github.com/kilianp07/motorsim/core/metrics"
	"github.com/kilianp07/motorsim/infra/logger"
)

// Config defines the connection parameters for the telemetry publisher.
type Config struct {
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Topic      string `json:"topic"`
	QoS        byte   `json:"qos"`
	Retained   bool   `json:"retained"`
	MaxRetries int    `json:"max_retries"`
	BackoffMS  int    `json:"backoff_ms"`
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	if c.Topic == "" {
		return fmt.Errorf("mqtt topic is required")
	}
	return nil
}

// StepMessage is the wire format of one published simulation step.
type StepMessage struct {
	ID            string    `json:"id"`
	Time          time.Time `json:"time"`
	SimTime       float64   `json:"sim_time_s"`
	Voltage       float64   `json:"voltage_v"`
	RotorSpeed    float64   `json:"rotor_speed_rad_s"`
	TorqueCommand float64   `json:"torque_cmd_nm"`
	TorqueApplied float64   `json:"torque_applied_nm"`
	PowerW        float64   `json:"power_w"`
	Clamped       bool      `json:"clamped"`
	Constraint    string    `json:"constraint,omitempty"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// newMQTTClient can be overridden in tests.
var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher streams simulation steps to an MQTT topic.
type Publisher struct {
	cli        pahoClient
	topic      string
	qos        byte
	retained   bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewPublisher connects to the broker and returns a ready Publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New("mqtt-telemetry")
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true)
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected") }
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warnf("MQTT connection lost: %v", err)
	}

	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return &Publisher{
		cli:        cli,
		topic:      cfg.Topic,
		qos:        cfg.QoS,
		retained:   cfg.Retained,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// PublishSteps sends each step as a JSON StepMessage, retrying transient
// publish failures with a fixed backoff.
func (p *Publisher) PublishSteps(results []coremetrics.StepResult) error {
	for _, r := range results {
		msg := StepMessage{
			ID:            uuid.NewString(),
			Time:          r.Time,
			SimTime:       r.SimTime,
			Voltage:       r.Voltage,
			RotorSpeed:    r.RotorSpeed,
			TorqueCommand: r.TorqueCommand,
			TorqueApplied: r.TorqueApplied,
			PowerW:        r.PowerW,
			Clamped:       r.Clamped,
		}
		if r.Clamped {
			msg.Constraint = r.Constraint.String()
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal step: %w", err)
		}
		if err := p.publish(payload); err != nil {
			return err
		}
	}
	return nil
}

// RecordSteps makes Publisher usable as a metrics sink.
func (p *Publisher) RecordSteps(results []coremetrics.StepResult) error {
	return p.PublishSteps(results)
}

func (p *Publisher) publish(payload []byte) error {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(p.backoff)
		}
		token := p.cli.Publish(p.topic, p.qos, p.retained, payload)
		if token.Wait() && token.Error() != nil {
			lastErr = token.Error()
			p.log.Warnf("publish attempt %d failed: %v", attempt+1, lastErr)
			continue
		}
		return nil
	}
	return fmt.Errorf("mqtt publish: %w", lastErr)
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.cli.Disconnect(250)
}
