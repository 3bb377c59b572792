package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"cinebook/internal/shared/config"
	"cinebook/pkg/logger"
)

// Consumer drains the notification topic and hands each message to the email
// sender. Delivery failures are logged and the offset is committed anyway; a
// lost email is preferable to a poison message wedging the group.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	workers int
	sender  EmailSender
	logger  *logger.Logger
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewConsumer(cfg *config.Config, sender EmailSender, log *logger.Logger) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		group:   group,
		topic:   cfg.Kafka.NotificationTopic,
		workers: cfg.Kafka.ConsumerWorkers,
		sender:  sender,
		logger:  log,
	}, nil
}

// Start launches the consume loop in the background.
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		handler := &consumerHandler{sender: c.sender, workers: c.workers, logger: c.logger}
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.ErrorWithContext(ctx, "Consumer group error", err, nil)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.group.Close()
}

type consumerHandler struct {
	sender  EmailSender
	workers int
	logger  *logger.Logger
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	workers := h.workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	jobs := make(chan *sarama.ConsumerMessage)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range jobs {
				h.handle(session, msg)
			}
		}()
	}

	for msg := range claim.Messages() {
		jobs <- msg
	}
	close(jobs)
	wg.Wait()
	return nil
}

func (h *consumerHandler) handle(session sarama.ConsumerGroupSession, msg *sarama.ConsumerMessage) {
	defer session.MarkMessage(msg, "")

	var notification EmailNotification
	if err := json.Unmarshal(msg.Value, &notification); err != nil {
		h.logger.WithError(err).Error("Dropping malformed notification")
		return
	}

	if err := h.sender.Send(session.Context(), notification); err != nil {
		h.logger.WithError(err).Error("Failed to deliver notification email")
	}
}
