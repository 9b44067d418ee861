package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/nkapur/storefront/internal/order/domain"
)

// Producer publishes order lifecycle events. Publishing happens inside the
// request, after the order is persisted; there is no relay loop.
type Producer struct {
	log    *slog.Logger
	writer *kafka.Writer
	topic  string
}

func NewProducer(log *slog.Logger, brokers []string, topic string) *Producer {
	return &Producer{
		log:   log,
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *Producer) OrderPlaced(ctx context.Context, o domain.Order) error {
	event := domain.OrderPlaced{
		OrderID:     o.ID.Hex(),
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Items:       o.Items,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("OrderPlaced")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	p.log.Info("order event published", "order_id", event.OrderID, "topic", p.topic)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
