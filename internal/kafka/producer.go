package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is the payload published on every booking lifecycle
// transition. Amounts are rounded to two decimals.
type BookingEvent struct {
	Type        string  `json:"type"`
	BookingRef  string  `json:"booking_ref"`
	CustomerID  int64   `json:"customer_id"`
	FlightID    int64   `json:"flight_id"`
	OldFlightID int64   `json:"old_flight_id,omitempty"`
	Price       float64 `json:"price"`
	Fee         float64 `json:"fee,omitempty"`
	FeeType     string  `json:"fee_type,omitempty"`
	Refund      float64 `json:"refund,omitempty"`
	AmountToPay float64 `json:"amount_to_pay,omitempty"`
	Date        string  `json:"date"`
}

const (
	EventBookingAdded     = "booking_added"
	EventBookingCancelled = "booking_cancelled"
	EventBookingRebooked  = "booking_rebooked"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
