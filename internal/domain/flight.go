package domain

import (
	"sort"
	"time"
)

// Flight holds a set of boarded passenger ids. The set is derived state: it
// always equals the customers holding an ACTIVE booking for this flight.
// Capacity 0 means unlimited.
type Flight struct {
	ID          int64
	Number      string
	Origin      string
	Destination string
	Departure   time.Time
	Capacity    int
	BasePrice   float64
	Active      bool

	passengers map[int64]struct{}
}

func NewFlight(id int64, number, origin, destination string, departure time.Time, capacity int, basePrice float64) *Flight {
	return &Flight{
		ID:          id,
		Number:      number,
		Origin:      origin,
		Destination: destination,
		Departure:   departure,
		Capacity:    capacity,
		BasePrice:   basePrice,
		Active:      true,
		passengers:  make(map[int64]struct{}),
	}
}

func (f *Flight) PassengerCount() int {
	return len(f.passengers)
}

func (f *Flight) HasPassenger(customerID int64) bool {
	_, ok := f.passengers[customerID]
	return ok
}

// Passengers returns the boarded customer ids in ascending order.
func (f *Flight) Passengers() []int64 {
	out := make([]int64, 0, len(f.passengers))
	for id := range f.passengers {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsFull reports whether a finite-capacity flight has no seats left.
func (f *Flight) IsFull() bool {
	return f.Capacity > 0 && len(f.passengers) >= f.Capacity
}

func (f *Flight) AddPassenger(customerID int64) error {
	if f.HasPassenger(customerID) {
		return NewInvariant("customer %d is already boarded on flight %d", customerID, f.ID)
	}
	if f.IsFull() {
		return NewValidation("flight %d is full (%d seats)", f.ID, f.Capacity)
	}
	if f.passengers == nil {
		f.passengers = make(map[int64]struct{})
	}
	f.passengers[customerID] = struct{}{}
	return nil
}

func (f *Flight) RemovePassenger(customerID int64) error {
	if !f.HasPassenger(customerID) {
		return NewInvariant("customer %d is not boarded on flight %d", customerID, f.ID)
	}
	delete(f.passengers, customerID)
	return nil
}

// DepartsBefore reports whether the flight departs strictly before the given
// date, comparing whole days.
func (f *Flight) DepartsBefore(date time.Time) bool {
	return DateOf(f.Departure).Before(DateOf(date))
}
