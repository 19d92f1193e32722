package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/motorsim/core/metrics"
	"github.com/kilianp07/motorsim/core/motor"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type fakeClient struct {
	payloads   [][]byte
	topics     []string
	failFirst  int
	publishErr error
}

func (c *fakeClient) IsConnected() bool   { return true }
func (c *fakeClient) Connect() paho.Token { return &fakeToken{} }
func (c *fakeClient) Disconnect(uint)     {}
func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	if c.failFirst > 0 {
		c.failFirst--
		return &fakeToken{err: c.publishErr}
	}
	c.topics = append(c.topics, topic)
	c.payloads = append(c.payloads, payload.([]byte))
	return &fakeToken{}
}

func newTestPublisher(t *testing.T, cli *fakeClient, cfg Config) *Publisher {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return cli }
	t.Cleanup(func() { newMQTTClient = orig })

	pub, err := NewPublisher(cfg)
	require.NoError(t, err)
	return pub
}

func TestPublisherPublishesSteps(t *testing.T) {
	cli := &fakeClient{}
	pub := newTestPublisher(t, cli, Config{Broker: "tcp://localhost:1883", Topic: "motorsim/steps"})

	step := coremetrics.StepResult{
		Time:          time.Now(),
		SimTime:       1.5,
		Voltage:       600,
		RotorSpeed:    100,
		TorqueCommand: 500,
		TorqueApplied: 360,
		PowerW:        -40000,
		Clamped:       true,
		Constraint:    motor.ConstraintPhaseCurrent,
	}
	require.NoError(t, pub.PublishSteps([]coremetrics.StepResult{step}))
	require.Len(t, cli.payloads, 1)
	assert.Equal(t, "motorsim/steps", cli.topics[0])

	var msg StepMessage
	require.NoError(t, json.Unmarshal(cli.payloads[0], &msg))
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, 360.0, msg.TorqueApplied)
	assert.Equal(t, "phase_current", msg.Constraint)
	assert.True(t, msg.Clamped)
}

func TestPublisherRetries(t *testing.T) {
	cli := &fakeClient{failFirst: 2, publishErr: errors.New("broker gone")}
	pub := newTestPublisher(t, cli, Config{
		Broker:     "tcp://localhost:1883",
		Topic:      "motorsim/steps",
		MaxRetries: 3,
	})

	require.NoError(t, pub.PublishSteps([]coremetrics.StepResult{{}}))
	require.Len(t, cli.payloads, 1)
}

func TestPublisherGivesUp(t *testing.T) {
	cli := &fakeClient{failFirst: 10, publishErr: errors.New("broker gone")}
	pub := newTestPublisher(t, cli, Config{
		Broker:     "tcp://localhost:1883",
		Topic:      "motorsim/steps",
		MaxRetries: 1,
	})

	err := pub.PublishSteps([]coremetrics.StepResult{{}})
	assert.ErrorContains(t, err, "broker gone")
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Topic: "x"}.Validate())
	assert.Error(t, Config{Broker: "tcp://localhost:1883"}.Validate())
	assert.NoError(t, Config{Broker: "tcp://localhost:1883", Topic: "x"}.Validate())
}
