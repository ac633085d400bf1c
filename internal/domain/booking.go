package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusActive   BookingStatus = "ACTIVE"
	BookingStatusCanceled BookingStatus = "CANCELED"
)

type FeeType string

const (
	FeeTypeNone   FeeType = ""
	FeeTypeCancel FeeType = "CANCEL"
	FeeTypeRebook FeeType = "REBOOK"
)

// Booking is one ledger entry for a customer on a flight. The price is
// snapshotted at creation and never recomputed; a booking is never deleted,
// only moved to CANCELED, so the customer's history stays auditable.
type Booking struct {
	Ref         string
	CustomerID  int64
	FlightID    int64
	BookingDate time.Time
	Price       float64
	Status      BookingStatus
	FeeLast     float64
	FeeType     FeeType
}

// NewBooking creates an ACTIVE booking with a fresh reference.
func NewBooking(customerID, flightID int64, bookingDate time.Time, price float64) *Booking {
	return &Booking{
		Ref:         uuid.NewString(),
		CustomerID:  customerID,
		FlightID:    flightID,
		BookingDate: bookingDate,
		Price:       price,
		Status:      BookingStatusActive,
	}
}

// Cancel moves the booking to CANCELED and records the fee charged.
// The transition is one-way.
func (b *Booking) Cancel(fee float64, feeType FeeType) error {
	if b.Status != BookingStatusActive {
		return NewValidation("booking %s is already canceled", b.Ref)
	}
	b.Status = BookingStatusCanceled
	b.FeeLast = fee
	b.FeeType = feeType
	return nil
}

func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusActive
}
