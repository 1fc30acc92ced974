package monitor

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/powerbank/core/battery"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type publishedMsg struct {
	topic   string
	qos     byte
	payload []byte
}

type fakePahoClient struct {
	connected  bool
	connectErr error
	published  []publishedMsg
}

func (c *fakePahoClient) IsConnected() bool { return c.connected }

func (c *fakePahoClient) Connect() paho.Token {
	if c.connectErr == nil {
		c.connected = true
	}
	return fakeToken{err: c.connectErr}
}

func (c *fakePahoClient) Disconnect(uint) { c.connected = false }

func (c *fakePahoClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	c.published = append(c.published, publishedMsg{topic: topic, qos: qos, payload: payload.([]byte)})
	return fakeToken{}
}

func withFakeClient(t *testing.T, cli pahoClient) {
	t.Helper()
	orig := newPahoClient
	newPahoClient = func(*paho.ClientOptions) pahoClient { return cli }
	t.Cleanup(func() { newPahoClient = orig })
}

func TestNewMQTTMonitorRequiresBroker(t *testing.T) {
	_, err := NewMQTTMonitor(MQTTConfig{}, "main")
	assert.Error(t, err)
}

func TestNewMQTTMonitorConnectError(t *testing.T) {
	withFakeClient(t, &fakePahoClient{connectErr: fmt.Errorf("refused")})
	_, err := NewMQTTMonitor(MQTTConfig{Broker: "tcp://localhost:1883"}, "main")
	assert.Error(t, err)
}

func TestMQTTMonitorPublishesOnCommit(t *testing.T) {
	cli := &fakePahoClient{}
	withFakeClient(t, cli)

	mon, err := NewMQTTMonitor(MQTTConfig{Broker: "tcp://localhost:1883", QoS: 1}, "main")
	require.NoError(t, err)
	defer mon.Close()

	b, err := battery.New(100, battery.WithCharge(70), battery.WithMonitor(mon))
	require.NoError(t, err)

	require.True(t, b.Recharge(20))
	require.True(t, b.Drain(90))
	b.Recharge(-1) // rejected, nothing published

	require.Len(t, cli.published, 2)
	assert.Equal(t, "powerbank/main/recharge", cli.published[0].topic)
	assert.Equal(t, "powerbank/main/drain", cli.published[1].topic)
	assert.Equal(t, byte(1), cli.published[0].qos)

	var msg chargeMessage
	require.NoError(t, json.Unmarshal(cli.published[0].payload, &msg))
	assert.Equal(t, "main", msg.BatteryID)
	assert.Equal(t, 90.0, msg.Charge)
	assert.Equal(t, "recharge", msg.Event)

	require.NoError(t, json.Unmarshal(cli.published[1].payload, &msg))
	assert.Equal(t, 0.0, msg.Charge)
	assert.Equal(t, "drain", msg.Event)
}

func TestMQTTMonitorCloseDisconnects(t *testing.T) {
	cli := &fakePahoClient{}
	withFakeClient(t, cli)

	mon, err := NewMQTTMonitor(MQTTConfig{Broker: "tcp://localhost:1883"}, "main")
	require.NoError(t, err)
	mon.Close()
	assert.False(t, cli.connected)
}
