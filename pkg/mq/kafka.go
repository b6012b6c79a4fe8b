package mq

import (
	"github.com/IBM/sarama"
)

// Producer publishes notification events to a Kafka topic
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer creates a synchronous Kafka producer
func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return &Producer{
		producer: producer,
		topic:    topic,
	}, nil
}

// Send publishes one message keyed by the target user
func (p *Producer) Send(key string, value []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	_, _, err := p.producer.SendMessage(msg)
	return err
}

// Close shuts the producer down
func (p *Producer) Close() error {
	return p.producer.Close()
}
