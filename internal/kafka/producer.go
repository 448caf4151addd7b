package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/yourorg/portfolio-tracker/internal/config"
	"github.com/yourorg/portfolio-tracker/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer handles producing messages to Kafka topics
type Producer struct {
	writers  map[string]*kafka.Writer
	brokers  []string
	clientID string
	topics   map[string]string
	logger   *zap.Logger
}

// Message represents a Kafka message to be sent
type Message struct {
	Key   string
	Value interface{}
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg config.KafkaConfig, logger *zap.Logger) *Producer {
	return &Producer{
		writers:  make(map[string]*kafka.Writer),
		brokers:  strings.Split(cfg.Brokers, ","),
		clientID: cfg.ClientID,
		topics:   cfg.Topics,
		logger:   logger,
	}
}

// getWriter returns a Kafka writer for the specified topic
func (p *Producer) getWriter(topic string) *kafka.Writer {
	if writer, exists := p.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		Transport: &kafka.Transport{
			ClientID: p.clientID,
		},
	}

	p.writers[topic] = writer
	return writer
}

// Publish sends a message to a Kafka topic, retrying transient failures with
// exponential backoff before giving up
func (p *Producer) Publish(ctx context.Context, topic string, msg Message) error {
	writer := p.getWriter(topic)

	jsonValue, err := json.Marshal(msg.Value)
	if err != nil {
		p.logger.Error("Failed to marshal message",
			zap.String("topic", topic),
			zap.Error(err))
		return err
	}

	kafkaMsg := kafka.Message{
		Key:   []byte(msg.Key),
		Value: jsonValue,
		Time:  time.Now(),
	}

	operation := func() error {
		return writer.WriteMessages(ctx, kafkaMsg)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		p.logger.Error("Failed to publish message",
			zap.String("topic", topic),
			zap.String("key", msg.Key),
			zap.Error(err))
		return err
	}

	p.logger.Debug("Message published",
		zap.String("topic", topic),
		zap.String("key", msg.Key))

	return nil
}

// PublishPriceAlert sends a price alert event to the configured alerts topic
func (p *Producer) PublishPriceAlert(ctx context.Context, event model.PriceAlertEvent) error {
	return p.Publish(ctx, p.topics["priceAlerts"], Message{
		Key:   event.Symbol,
		Value: event,
	})
}

// Close closes all Kafka writers
func (p *Producer) Close() error {
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil {
			p.logger.Error("Failed to close Kafka writer",
				zap.String("topic", topic),
				zap.Error(err))
		}
	}
	return nil
}
