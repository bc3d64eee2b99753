package sink

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"reviewpulse/internal/models"
)

// KafkaMirror re-publishes appended log records onto a topic. Unlike a
// primary producer there are no transactions here: the mirror is a
// best-effort audit stream and an undelivered message only costs a
// duplicate-free copy, never the sink append itself.
type KafkaMirror struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaMirror(broker, topic string) (*KafkaMirror, error) {
	slog.Info("[KafkaMirror] Initializing producer...",
		slog.String("broker", broker),
		slog.String("topic", topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaMirror] failed to create producer: %w", err)
	}

	return &KafkaMirror{producer: p, topic: topic}, nil
}

func (m *KafkaMirror) Publish(record models.LogRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("[KafkaMirror] failed to marshal record: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &m.topic, Partition: kafka.PartitionAny},
		Key:            []byte(Fingerprint(record)),
		Value:          jsonData,
	}

	for i := 0; i < 3; i++ {
		err = m.producer.Produce(msg, nil)
		if err == nil {
			return nil
		}
		slog.Warn("[KafkaMirror] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	return fmt.Errorf("[KafkaMirror] failed to produce after retries: %w", err)
}

func (m *KafkaMirror) Close() {
	slog.Info("[KafkaMirror] Shutting down producer...")
	if remaining := m.producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaMirror] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	m.producer.Close()
}
