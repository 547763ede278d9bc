package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type kafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier builds a Notifier that publishes booking events to a
// Kafka topic, keyed by booking id so events for one booking stay ordered.
func NewKafkaNotifier(brokers []string, topic string) (Notifier, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	}

	return &kafkaNotifier{writer: writer}, nil
}

func (n *kafkaNotifier) BookingStatusChanged(ctx context.Context, e Event) error {
	payload, err := json.Marshal(struct {
		Event
		Message string `json:"message"`
	}{Event: e, Message: Message(e)})
	if err != nil {
		return fmt.Errorf("marshal booking event failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.BookingID),
		Value: payload,
		Time:  e.OccurredAt,
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish booking event failed: %w", err)
	}
	return nil
}

func (n *kafkaNotifier) Close() error {
	return n.writer.Close()
}
