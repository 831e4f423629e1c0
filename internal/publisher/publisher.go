package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	Topic = "cod-payments"

	TypePaymentInitiated = "cod.payment.initiated"
	TypeOrderConfirmed   = "cod.order.confirmed"
)

// Event is the payment lifecycle message published after a successful
// initiation or confirmation.
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	CODOrderID    string    `json:"cod_order_id"`
	TransactionID string    `json:"transaction_id"`
	OrderID       string    `json:"order_id,omitempty"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewEvent(eventType, codOrderID, transactionID string, amount int64, currency string) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		CODOrderID:    codOrderID,
		TransactionID: transactionID,
		Amount:        amount,
		Currency:      currency,
		OccurredAt:    time.Now(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.CODOrderID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
