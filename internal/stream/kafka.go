package stream

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// flushTimeoutMs bounds how long ProduceMessage waits for delivery.
const flushTimeoutMs = 5000

// Publisher is the part of KafkaStream the handlers need.
type Publisher interface {
	ProduceMessage(topic, message string) error
}

type KafkaStream struct {
	kafkaServers string
	logger       *slog.Logger
}

func New(kafkaServers string, logger *slog.Logger) *KafkaStream {
	return &KafkaStream{
		kafkaServers: kafkaServers,
		logger:       logger,
	}
}

func (st *KafkaStream) ProduceMessage(topic, message string) error {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": st.kafkaServers})
	if err != nil {
		return err
	}
	defer producer.Close()

	deliveries := make(chan kafka.Event, 1)

	err = producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          []byte(message),
	}, deliveries)
	if err != nil {
		st.logger.Error("failed to produce message", "topic", topic, "error", err)
		return err
	}

	select {
	case e := <-deliveries:
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return m.TopicPartition.Error
		}
	case <-time.After(flushTimeoutMs * time.Millisecond):
		return fmt.Errorf("stream: delivery to %s timed out", topic)
	}

	st.logger.Debug("message sent", "topic", topic)
	return nil
}

type StreamConsumer struct {
	GroupId string
	Topics  []string
}

func (st *KafkaStream) CreateConsumer(consumerStruct *StreamConsumer) (*kafka.Consumer, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": st.kafkaServers,
		"group.id":          consumerStruct.GroupId,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		return nil, err
	}

	if err := consumer.SubscribeTopics(consumerStruct.Topics, nil); err != nil {
		consumer.Close()
		return nil, err
	}

	return consumer, nil
}
