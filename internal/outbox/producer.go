package outbox

import (
	"context"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventProducer publishes record events, keeping one writer per topic.
// Writers are created on first use; the hash balancer keeps every message
// for a researcher on the same partition so consumers see mutations in order.
type EventProducer struct {
	brokers []string
	logger  *zap.Logger
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewEventProducer builds a producer for the given brokers.
func NewEventProducer(brokers []string, logger *zap.Logger) *EventProducer {
	return &EventProducer{
		brokers: brokers,
		logger:  logger,
		writers: make(map[string]*kafka.Writer),
	}
}

// WriteMessages delivers msgs to topic, opening a writer on first use.
func (p *EventProducer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	return p.writerFor(topic).WriteMessages(ctx, msgs...)
}

func (p *EventProducer) writerFor(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	p.writers[topic] = writer
	return writer
}

// Close flushes and releases every writer, reporting each failure.
func (p *EventProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil {
			p.logger.Warn("failed to close event writer", zap.String("topic", topic), zap.Error(err))
			errs = append(errs, err)
		}
		delete(p.writers, topic)
	}
	return errors.Join(errs...)
}
