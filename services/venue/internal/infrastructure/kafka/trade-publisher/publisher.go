package tradepublisher

import (
	"context"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/logger"
	tradepublisherv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/trade-publisher/v1"
	"github.com/dset/Cloud-Market/services/venue/pkg/config"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
//
//go:generate mockgen -source publisher.go -destination=mock/writer_mock.go -package=mock
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher publishes trade events to a Kafka topic.
type Publisher struct {
	writer MessageWriter
	logger logger.Interface
}

var _ tradepublisherv1.TradePublisher = (*Publisher)(nil)

// NewWriter creates the Kafka writer for trade events. Messages with the
// same key land on the same partition.
func NewWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// NewPublisher creates a new Kafka publisher for trade events.
func NewPublisher(writer MessageWriter, logger logger.Interface) *Publisher {
	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// PublishTrades writes every event in a single batch.
func (p *Publisher) PublishTrades(ctx context.Context, events []*tradepublisherv1.TradeEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		msgs = append(msgs, kafka.Message{
			Key:   event.Key(),
			Value: tradepublisherv1.ToBytes(event),
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "publish_trades"},
			logger.Field{Key: "trades", Value: len(events)},
		)
		return errors.TracerFromError(errors.NewErrorDetails(
			"failed to publish trade events: "+err.Error(),
			string(errors.KafkaPublishError),
			"trades",
		))
	}

	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
