// Package publish produces refreshed price snapshots to Kafka for
// downstream consumers. The publisher is optional: with no broker
// configured the refresh cycle simply runs without it.
package publish

import (
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
	"github.com/varlik-app/varlik/internal/market"
)

// Publisher sends priced catalog entries to one Kafka topic, one JSON
// message per instrument keyed by asset key.
type Publisher struct {
	producer *kafka.Producer
	topic    string
	logger   *logrus.Logger
}

// NewPublisher creates the Kafka producer and starts its delivery
// report loop.
func NewPublisher(broker, topic string, logger *logrus.Logger) (*Publisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": broker,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	p := &Publisher{producer: producer, topic: topic, logger: logger}
	go p.deliveryReport()
	logger.Info("Kafka publisher initialized")
	return p, nil
}

// deliveryReport logs failed deliveries from the producer's event
// channel until the producer closes.
func (p *Publisher) deliveryReport() {
	for e := range p.producer.Events() {
		if msg, ok := e.(*kafka.Message); ok && msg.TopicPartition.Error != nil {
			p.logger.Errorf("Message delivery failed: %v", msg.TopicPartition.Error)
		}
	}
}

// PublishCatalog enqueues one message per catalog entry. Enqueue
// failures are logged and skipped; the refresh cycle never depends on
// the broker being up.
func (p *Publisher) PublishCatalog(entries []market.Entry) {
	for _, entry := range entries {
		payload, err := json.Marshal(entry)
		if err != nil {
			p.logger.Errorf("Failed to marshal %s: %v", entry.AssetKey, err)
			continue
		}
		err = p.producer.Produce(&kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
			Key:            []byte(entry.AssetKey),
			Value:          payload,
		}, nil)
		if err != nil {
			p.logger.Errorf("Failed to send %s to Kafka: %v", entry.AssetKey, err)
		}
	}
}

// Close flushes pending messages and releases the producer.
func (p *Publisher) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
	p.logger.Info("Kafka publisher closed")
}
