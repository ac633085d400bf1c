// Package pricing holds the dynamic price quote and the fee rules. Every
// function here is pure: entities are read, never mutated.
package pricing

import (
	"math"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
)

const (
	highOccupancy           = 0.8
	midOccupancy            = 0.5
	highOccupancyMultiplier = 1.20
	midOccupancyMultiplier  = 1.10

	lastWeekDays       = 7
	lastMonthDays      = 30
	lastWeekMultiplier = 1.30
	lastMonthMult      = 1.15

	cancelFeeRate  = 0.10
	cancelFeeFloor = 5.00
	rebookFeeRate  = 0.05
	rebookFeeFloor = 2.00
)

// Quote computes the price for a booking created now. The seat factor
// compounds first, then the date factor applies to the adjusted price.
// Occupancy must reflect the pre-booking passenger count, so callers quote
// before boarding the new passenger. Capacity 0 means unlimited and skips
// the seat factor. Departed flights are not rejected here; the gate belongs
// to the lifecycle operations.
func Quote(flight *domain.Flight, systemDate time.Time) float64 {
	price := flight.BasePrice

	if flight.Capacity > 0 {
		occupancy := float64(flight.PassengerCount()) / float64(flight.Capacity)
		if occupancy >= highOccupancy {
			price *= highOccupancyMultiplier
		} else if occupancy >= midOccupancy {
			price *= midOccupancyMultiplier
		}
	}

	days := domain.DaysBetween(systemDate, flight.Departure)
	if days <= lastWeekDays {
		price *= lastWeekMultiplier
	} else if days <= lastMonthDays {
		price *= lastMonthMult
	}

	return price
}

// CancelFee is 10% of the stored price with a 5.00 floor.
func CancelFee(storedPrice float64) float64 {
	return math.Max(storedPrice*cancelFeeRate, cancelFeeFloor)
}

// RebookFee is 5% of the stored price with a 2.00 floor.
func RebookFee(storedPrice float64) float64 {
	return math.Max(storedPrice*rebookFeeRate, rebookFeeFloor)
}

// Refund is what the customer gets back on cancellation, never negative.
func Refund(storedPrice, fee float64) float64 {
	return math.Max(storedPrice-fee, 0)
}

// AmountToPay settles a rebooking: the new booking price minus the credit
// left on the old one after the fee. Negative means a credit owed to the
// customer. Informational only; nothing stored derives from it.
func AmountToPay(newBookingPrice, oldStoredPrice, rebookFee float64) float64 {
	return newBookingPrice - (oldStoredPrice - rebookFee)
}

// Round2 rounds to two decimals for display and event payloads. Stored
// prices keep full float precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
