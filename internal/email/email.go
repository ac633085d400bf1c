package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightledger/internal/kafka"
)

// Sender is the worker-side notification sink. Delivery is stubbed: the
// ledger does no real messaging to customers.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	switch event.Type {
	case kafka.EventBookingCancelled:
		fmt.Printf("notify customer %d: booking %s cancelled, fee %.2f, refund %.2f\n",
			event.CustomerID, event.BookingRef, event.Fee, event.Refund)
	case kafka.EventBookingRebooked:
		fmt.Printf("notify customer %d: rebooked from flight %d to flight %d, new price %.2f\n",
			event.CustomerID, event.OldFlightID, event.FlightID, event.Price)
	default:
		fmt.Printf("notify customer %d: booking %s on flight %d, price %.2f\n",
			event.CustomerID, event.BookingRef, event.FlightID, event.Price)
	}
	return nil
}
