package domain

// Customer is a passenger with an append-only booking history. Customers are
// soft-deleted: the Active flag gates new bookings while the history keeps
// referring to the record.
type Customer struct {
	ID       int64
	Name     string
	Phone    string
	Active   bool
	Bookings []*Booking
}

func NewCustomer(id int64, name, phone string) *Customer {
	return &Customer{ID: id, Name: name, Phone: phone, Active: true}
}

// ActiveBookingFor returns the ACTIVE booking for the given flight, or nil.
// There is at most one by invariant; canceled history for the same flight is
// ignored.
func (c *Customer) ActiveBookingFor(flightID int64) *Booking {
	for _, b := range c.Bookings {
		if b.FlightID == flightID && b.IsActive() {
			return b
		}
	}
	return nil
}

// AddBooking appends a booking to the history. A second ACTIVE booking for
// the same flight is rejected; canceled entries for that flight do not block.
func (c *Customer) AddBooking(b *Booking) error {
	if b == nil {
		return NewInvariant("booking cannot be nil")
	}
	if b.IsActive() && c.ActiveBookingFor(b.FlightID) != nil {
		return NewValidation("customer %d already has an active booking for flight %d", c.ID, b.FlightID)
	}
	c.Bookings = append(c.Bookings, b)
	return nil
}
