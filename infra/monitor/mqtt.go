package monitor

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/powerbank/infra/logger"
)

// MQTTConfig defines the connection parameters for the MQTT monitor.
type MQTTConfig struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *MQTTConfig) SetDefaults() {
	if c.TopicPrefix == "" {
		c.TopicPrefix = "powerbank"
	}
}

// Validate checks mandatory fields.
func (c MQTTConfig) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newPahoClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTMonitor publishes committed charge levels as JSON messages on
// <prefix>/<battery-id>/recharge and <prefix>/<battery-id>/drain.
type MQTTMonitor struct {
	cli       pahoClient
	batteryID string
	prefix    string
	qos       byte
	log       logger.Logger
}

type chargeMessage struct {
	BatteryID string  `json:"battery_id"`
	Charge    float64 `json:"charge"`
	Event     string  `json:"event"`
	Timestamp string  `json:"timestamp"`
}

// NewMQTTMonitor connects to the MQTT broker described by cfg.
func NewMQTTMonitor(cfg MQTTConfig, batteryID string) (*MQTTMonitor, error) {
	cfg.SetDefaults()
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker is required")
	}
	log := logger.New("mqtt-monitor")

	id := cfg.ClientID
	if id == "" {
		id = "monitor-" + uuid.NewString()
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(id)
	opts.AutoReconnect = true
	opts.SetConnectTimeout(5 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	cli := newPahoClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTMonitor{
		cli:       cli,
		batteryID: batteryID,
		prefix:    cfg.TopicPrefix,
		qos:       cfg.QoS,
		log:       log,
	}, nil
}

// NotifyRecharge publishes the committed charge on the recharge topic.
func (m *MQTTMonitor) NotifyRecharge(newCharge float64) {
	m.publish("recharge", newCharge)
}

// NotifyDrain publishes the committed charge on the drain topic.
func (m *MQTTMonitor) NotifyDrain(newCharge float64) {
	m.publish("drain", newCharge)
}

func (m *MQTTMonitor) publish(event string, charge float64) {
	msg := chargeMessage{
		BatteryID: m.batteryID,
		Charge:    charge,
		Event:     event,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		m.log.Errorf("encode %s message: %v", event, err)
		return
	}
	topic := fmt.Sprintf("%s/%s/%s", m.prefix, m.batteryID, event)
	token := m.cli.Publish(topic, m.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		m.log.Errorf("publish %s: %v", topic, token.Error())
	}
}

// Close disconnects from the broker.
func (m *MQTTMonitor) Close() {
	if m.cli.IsConnected() {
		m.cli.Disconnect(250)
	}
}
