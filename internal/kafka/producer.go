package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"order-analytics-service/internal/pipeline"
	"order-analytics-service/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// TopicReseedCompleted is the topic the per-run reseed summary is published
// to
const TopicReseedCompleted = "analytics.reseed"

// Producer defines the interface for publishing events to Kafka.
type Producer interface {
	// PublishReseedSummary sends the summary of a completed pipeline run.
	// The run id is used as the message key for partitioning.
	PublishReseedSummary(ctx context.Context, topic string, runID string, summary *pipeline.Summary) error
	// Close closes the producer connection.
	Close() error
}

// kafkaProducer implements Producer using segmentio/kafka-go.
type kafkaProducer struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewKafkaProducer creates and configures a new Kafka producer.
func NewKafkaProducer(brokers []string, log *logger.Logger) (Producer, error) {
	if len(brokers) == 0 {
		log.Errorw("Kafka brokers list is empty in config, cannot create producer")
		return nil, errors.New("kafka brokers are not configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	log.Infow("Kafka producer initialized", "brokers", brokers)

	return &kafkaProducer{
		writer: writer,
		log:    log,
	}, nil
}

// PublishReseedSummary marshals the run summary to JSON and sends it to the
// given topic.
func (k *kafkaProducer) PublishReseedSummary(ctx context.Context, topic string, runID string, summary *pipeline.Summary) error {
	messageValue, err := json.Marshal(summary)
	if err != nil {
		k.log.Errorw("Failed to marshal reseed summary for Kafka", "error", err, "runID", runID, "topic", topic)
		return fmt.Errorf("kafka: failed to marshal message data: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(runID),
		Value: messageValue,
		Time:  time.Now(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(writeCtx, message); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			k.log.Errorw("Kafka write timeout exceeded", "error", err, "topic", topic, "runID", runID)
			return fmt.Errorf("kafka: write timeout: %w", err)
		}
		k.log.Errorw("Failed to write message to Kafka", "error", err, "topic", topic, "runID", runID)
		return fmt.Errorf("kafka: failed to write message: %w", err)
	}

	k.log.Infow("Published reseed summary to Kafka", "topic", topic, "runID", runID)
	return nil
}

// Close closes the Kafka writer.
func (k *kafkaProducer) Close() error {
	if err := k.writer.Close(); err != nil {
		k.log.Errorw("Failed to close Kafka writer", "error", err)
		return fmt.Errorf("kafka: failed to close writer: %w", err)
	}
	return nil
}
