package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"psp-reconciler/config"
	"psp-reconciler/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	eventTypeReconciled = "psp.transaction.reconciled"
	eventVersion        = 1
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// envelope wraps every published event.
type envelope struct {
	EventID      string                     `json:"event_id"`
	EventType    string                     `json:"event_type"`
	EventVersion int                        `json:"event_version"`
	OccurredAt   string                     `json:"occurred_at"`
	Payload      domain.ReconciliationEvent `json:"payload"`
}

// KafkaPublisher implements ports.EventPublisher on a Kafka topic.
// Messages are keyed by PSP transaction id so one transaction stays on one partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic.
func NewKafkaPublisher(cfg config.KafkaConfig, log zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newKafkaPublisher(writer, cfg.Topic, log)
}

func newKafkaPublisher(w messageWriter, topic string, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, log: log}
}

// PublishReconciled writes one reconciliation event.
func (p *KafkaPublisher) PublishReconciled(ctx context.Context, ev domain.ReconciliationEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(envelope{
		EventID:      uuid.New().String(),
		EventType:    eventTypeReconciled,
		EventVersion: eventVersion,
		OccurredAt:   ev.OccurredAt.Format(time.RFC3339),
		Payload:      ev,
	})
	if err != nil {
		return fmt.Errorf("marshal reconciliation event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.PSPTransactionID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeReconciled)},
			{Key: "outcome", Value: []byte(ev.Outcome)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error().Err(err).
			Str("topic", p.topic).
			Str("psp_transaction_id", ev.PSPTransactionID).
			Msg("failed to publish reconciliation event")
		return fmt.Errorf("publish reconciliation event: %w", err)
	}

	p.log.Debug().
		Str("topic", p.topic).
		Str("psp_transaction_id", ev.PSPTransactionID).
		Str("outcome", string(ev.Outcome)).
		Bool("divergent", ev.Divergent).
		Msg("reconciliation event published")
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher records reconciliation events in the log only.
// It is used when no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishReconciled(_ context.Context, ev domain.ReconciliationEvent) error {
	entry := p.log.Info()
	if ev.Divergent {
		entry = p.log.Warn()
	}
	entry.
		Str("psp_transaction_id", ev.PSPTransactionID).
		Str("order_transaction_id", ev.OrderTransactionID.String()).
		Str("outcome", string(ev.Outcome)).
		Int("local_status", int(ev.LocalStatus)).
		Bool("applied", ev.Applied).
		Bool("divergent", ev.Divergent).
		Msg("reconciliation event")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
