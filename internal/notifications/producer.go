package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"cinebook/internal/shared/config"
	"cinebook/pkg/logger"
)

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
}

// NewKafkaPublisher builds an idempotent sync producer. Messages for the same
// recipient hash to the same partition so per customer ordering holds.
func NewKafkaPublisher(cfg *config.Config, log *logger.Logger) (Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &kafkaPublisher{
		producer: producer,
		topic:    cfg.Kafka.NotificationTopic,
		logger:   log,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, notification EmailNotification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := notification.Recipient
	if key == "" {
		key = string(notification.Type)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.logger.WithFields(map[string]interface{}{
		"type":      string(notification.Type),
		"partition": partition,
		"offset":    offset,
	}).Debug("Notification published")
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// noopPublisher drops notifications. Used when Kafka is not configured, such
// as local development without a broker.
type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(ctx context.Context, notification EmailNotification) error { return nil }
func (noopPublisher) Close() error                                                      { return nil }
