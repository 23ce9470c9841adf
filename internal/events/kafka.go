package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultTopic is where conversion events land unless overridden.
const DefaultTopic = "referral.conversions"

// KafkaSink delivers conversion events to a Kafka topic, keyed by the
// referring user so one referrer's events stay ordered within a partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink builds a sink over an existing franz-go client. An empty
// topic falls back to DefaultTopic.
func NewKafkaSink(client *kgo.Client, topic string) *KafkaSink {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaSink{client: client, topic: topic}
}

// NewKafkaClient dials the given brokers for event production.
func NewKafkaClient(brokers []string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

func (s *KafkaSink) Deliver(ctx context.Context, event ConversionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode conversion event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.ReferringUserID.String()),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce conversion event: %w", err)
	}
	return nil
}

// Close flushes and shuts down the underlying client.
func (s *KafkaSink) Close() {
	s.client.Close()
}
