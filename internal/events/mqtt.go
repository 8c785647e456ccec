package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/config"
)

const (
	mqttQoS            = 1
	mqttConnectTimeout = 10 * time.Second
	mqttQuiesceMillis  = 250
)

// MQTTSink publishes each event to <prefix>/<eventType>
type MQTTSink struct {
	client mqtt.Client
	prefix string
}

// NewMQTTSink connects to the broker described by cfg
func NewMQTTSink(cfg config.MQTTConfig, logger log.FieldLogger) (*MQTTSink, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttConnectTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.WithError(err).Warn("MQTT connection lost")
		}).
		SetOnConnectHandler(func(mqtt.Client) {
			logger.WithField("broker", cfg.BrokerURL).Info("MQTT connected")
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	return newMQTTSink(client, cfg.TopicPrefix), nil
}

func newMQTTSink(client mqtt.Client, prefix string) *MQTTSink {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = "ac-service/events"
	}
	return &MQTTSink{client: client, prefix: prefix}
}

func (s *MQTTSink) Name() string { return "mqtt" }

// Topic returns the topic an event type is published on
func (s *MQTTSink) Topic(eventType string) string {
	return s.prefix + "/" + eventType
}

func (s *MQTTSink) Deliver(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	token := s.client.Publish(s.Topic(event.Type), mqttQoS, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish %s: %w", event.Type, ctx.Err())
	}
}

// Close disconnects from the broker
func (s *MQTTSink) Close() {
	s.client.Disconnect(mqttQuiesceMillis)
}
