package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/streak/internal/config"
	"github.com/ramanasai/streak/internal/logger"
	"github.com/ramanasai/streak/internal/records"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	sent         []message
	err          error
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, message{topic, qos, retained, payload.([]byte)})
	return doneToken{err: c.err}
}
func (c *fakeClient) IsConnected() bool { return !c.disconnected }
func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

type lister map[records.Kind][]records.Record

func (l lister) All(_ context.Context, kind records.Kind) ([]records.Record, error) {
	return l[kind], nil
}

func TestPublishAll(t *testing.T) {
	client := &fakeClient{}
	p := NewWithClient(client, "home/streak/", 7, logger.Discard())
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	store := lister{
		records.KindStudy: {
			records.StudyRecord{ID: "a", DateTime: "2024-03-10T09:00:00.000Z", Topic: "Go", DurationMinutes: 50},
			records.StudyRecord{ID: "b", DateTime: "2024-03-09T09:00:00.000Z", Topic: "Go", DurationMinutes: 20},
		},
	}

	require.NoError(t, p.PublishAll(context.Background(), store, now, time.UTC))
	require.Len(t, client.sent, 3)
	assert.Equal(t, "home/streak/sleep/today", client.sent[0].topic)
	assert.Equal(t, "home/streak/study/today", client.sent[2].topic)

	msg := client.sent[2]
	assert.True(t, msg.retained)
	assert.Equal(t, byte(1), msg.qos)
	var payload TodayPayload
	require.NoError(t, json.Unmarshal(msg.payload, &payload))
	assert.Equal(t, TodayPayload{
		Kind:      records.KindStudy,
		Date:      "2024-03-10",
		Total:     50,
		Unit:      "min",
		Average:   10,
		Streak:    2,
		UpdatedAt: "2024-03-10T20:00:00.000Z",
	}, payload)

	p.Close()
	assert.True(t, client.disconnected)
}

func TestPublishError(t *testing.T) {
	client := &fakeClient{err: errors.New("not authorized")}
	p := NewWithClient(client, "", 0, logger.Discard())
	err := p.PublishKind(context.Background(), lister{}, records.KindSleep, time.Now(), time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "streak/sleep/today")
}

func TestNewRequiresBroker(t *testing.T) {
	_, err := New(config.MQTTConfig{Enabled: false}, 7, logger.Discard())
	assert.Error(t, err)
	_, err = New(config.MQTTConfig{Enabled: true}, 7, logger.Discard())
	assert.Error(t, err)
}
