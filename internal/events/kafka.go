package events

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// KafkaPublisher sends events through a synchronous sarama producer
type KafkaPublisher struct {
	producer sarama.SyncProducer
	prefix   string
}

// Publish runs inline with the request, so a send to unreachable brokers
// gives up after a few seconds.
const (
	kafkaNetTimeout   = time.Second
	kafkaAckTimeout   = time.Second
	kafkaRetryMax     = 1
	kafkaRetryBackoff = 100 * time.Millisecond
)

// NewKafkaConfig producer settings: wait for all in-sync replicas, report
// successes, short network and ack timeouts with a single retry.
func NewKafkaConfig(clientID string) *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Net.DialTimeout = kafkaNetTimeout
	config.Net.ReadTimeout = kafkaNetTimeout
	config.Net.WriteTimeout = kafkaNetTimeout
	config.Metadata.Retry.Max = kafkaRetryMax
	config.Metadata.Retry.Backoff = kafkaRetryBackoff
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Timeout = kafkaAckTimeout
	config.Producer.Retry.Max = kafkaRetryMax
	config.Producer.Retry.Backoff = kafkaRetryBackoff
	return config
}

// NewKafkaPublisher connects to the brokers
func NewKafkaPublisher(brokers []string, topicPrefix string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaConfig("estatehub-backend"))
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topicPrefix), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topicPrefix string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, prefix: topicPrefix}
}

// Publish sends one message keyed by key so events of one entity stay ordered
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(topic, key, payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.prefix + topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send %s event: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
