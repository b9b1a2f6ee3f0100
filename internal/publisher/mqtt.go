// Package publisher pushes today's totals to an MQTT broker so home
// automation dashboards can show them.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/exp/slog"

	"github.com/ramanasai/streak/internal/analytics"
	"github.com/ramanasai/streak/internal/config"
	"github.com/ramanasai/streak/internal/records"
)

const publishTimeout = 10 * time.Second

// Client is the subset of mqtt.Client used here.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Lister is the part of the store the publisher reads.
type Lister interface {
	All(ctx context.Context, kind records.Kind) ([]records.Record, error)
}

type Publisher struct {
	client      Client
	topicPrefix string
	days        int
	log         *slog.Logger
}

// New connects to the configured broker.
func New(cfg config.MQTTConfig, days int, log *slog.Logger) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	broker := cfg.Broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}
	opts.AddBroker(broker)
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "streak"
	}
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(publishTimeout)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.WaitTimeout(publishTimeout) && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	if !client.IsConnected() {
		return nil, fmt.Errorf("connecting to MQTT broker %s: timed out", broker)
	}
	return NewWithClient(client, cfg.TopicPrefix, days, log), nil
}

// NewWithClient wraps an already connected client.
func NewWithClient(client Client, topicPrefix string, days int, log *slog.Logger) *Publisher {
	if topicPrefix == "" {
		topicPrefix = "streak"
	}
	if days <= 0 {
		days = analytics.DefaultDays
	}
	return &Publisher{
		client:      client,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
		days:        days,
		log:         log.With(slog.String("component", "mqtt")),
	}
}

// TodayPayload is the retained message body on <prefix>/<kind>/today.
type TodayPayload struct {
	Kind      records.Kind `json:"kind"`
	Date      string       `json:"date"`
	Total     float64      `json:"total"`
	Unit      string       `json:"unit"`
	Average   float64      `json:"average"`
	Streak    int          `json:"streak"`
	UpdatedAt string       `json:"updatedAt"`
}

func (p *Publisher) Topic(kind records.Kind) string {
	return fmt.Sprintf("%s/%s/today", p.topicPrefix, kind)
}

// PublishKind sends kind's current totals.
func (p *Publisher) PublishKind(ctx context.Context, store Lister, kind records.Kind, now time.Time, loc *time.Location) error {
	recs, err := store.All(ctx, kind)
	if err != nil {
		return err
	}
	series := analytics.Daily(recs, kind, p.days, now, loc, p.log)
	stats := analytics.Summarize(series)
	today := series[len(series)-1]

	body, err := json.Marshal(TodayPayload{
		Kind:      kind,
		Date:      today.Date,
		Total:     today.Total,
		Unit:      analytics.Unit(kind),
		Average:   stats.Average,
		Streak:    stats.Streak,
		UpdatedAt: records.FormatTime(now),
	})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	topic := p.Topic(kind)
	token := p.client.Publish(topic, 1, true, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	p.log.Debug("published", slog.String("topic", topic), slog.Float64("total", today.Total))
	return nil
}

// PublishAll sends every kind, stopping at the first failure.
func (p *Publisher) PublishAll(ctx context.Context, store Lister, now time.Time, loc *time.Location) error {
	for _, kind := range records.Kinds {
		if err := p.PublishKind(ctx, store, kind, now, loc); err != nil {
			return err
		}
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
