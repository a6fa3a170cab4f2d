package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/logger"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher appends transaction-created records to a Kafka topic.
// Messages are keyed by transaction id; the hash balancer routes equal keys
// to the same partition, so all records for one transaction stay ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) PublishTransactionCreated(ctx context.Context, event domain.TransactionCreatedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal transaction event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("write transaction event: %w", err)
	}

	logger.Info("event publisher wrote transaction event", logger.Fields{
		"transactionId": event.ID,
		"topic":         p.writer.Topic,
	})
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
