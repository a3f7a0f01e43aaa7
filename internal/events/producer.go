package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type OrderProducer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewOrderProducer(brokers string, logger *zap.Logger) *OrderProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers),
		Topic:    "order-events",
		Balancer: &kafka.LeastBytes{},
	}

	return &OrderProducer{
		writer: writer,
		logger: logger,
	}
}

func (p *OrderProducer) PublishOrderEvent(event OrderEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal order event", zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("ORDER#%s", event.OrderID)),
		Value: eventBytes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order event",
			zap.String("event_id", event.EventID),
			zap.String("type", event.Type),
			zap.Error(err))
		return err
	}

	p.logger.Info("Order event published",
		zap.String("event_id", event.EventID),
		zap.String("type", event.Type),
		zap.String("order_id", event.OrderID))

	return nil
}

func (p *OrderProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
