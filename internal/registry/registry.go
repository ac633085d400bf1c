// Package registry owns the authoritative in-memory customer and flight
// collections and the system date. Lifecycle operations borrow entities from
// it by id; entities never reference each other directly.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
)

type Registry struct {
	// One logical operation runs at a time. Services take the lock for the
	// whole of a lifecycle operation or query.
	sync.Mutex

	systemDate time.Time
	customers  map[int64]*domain.Customer
	flights    map[int64]*domain.Flight
}

func New(systemDate time.Time) *Registry {
	return &Registry{
		systemDate: domain.DateOf(systemDate),
		customers:  make(map[int64]*domain.Customer),
		flights:    make(map[int64]*domain.Flight),
	}
}

func (r *Registry) SystemDate() time.Time {
	return r.systemDate
}

// AdvanceDate moves the system clock forward. The new date must be strictly
// after the current one.
func (r *Registry) AdvanceDate(newDate time.Time) error {
	nd := domain.DateOf(newDate)
	if !nd.After(r.systemDate) {
		return domain.NewValidation("new system date must be after current system date (%s)", r.systemDate.Format("2006-01-02"))
	}
	r.systemDate = nd
	return nil
}

func (r *Registry) CustomerByID(id int64) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.NewNotFound("customer", id)
	}
	return c, nil
}

func (r *Registry) FlightByID(id int64) (*domain.Flight, error) {
	f, ok := r.flights[id]
	if !ok {
		return nil, domain.NewNotFound("flight", id)
	}
	return f, nil
}

// Customers returns all customers ordered by id.
func (r *Registry) Customers() []*domain.Customer {
	ids := make([]int64, 0, len(r.customers))
	for id := range r.customers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*domain.Customer, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.customers[id])
	}
	return out
}

// Flights returns all flights ordered by id.
func (r *Registry) Flights() []*domain.Flight {
	ids := make([]int64, 0, len(r.flights))
	for id := range r.flights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*domain.Flight, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.flights[id])
	}
	return out
}

func (r *Registry) AddCustomer(c *domain.Customer) error {
	if c == nil {
		return domain.NewInvariant("customer cannot be nil")
	}
	if _, ok := r.customers[c.ID]; ok {
		return domain.NewInvariant("duplicate customer id %d", c.ID)
	}
	if r.PhoneExists(c.Phone) {
		return domain.NewValidation("phone number %s is already registered", c.Phone)
	}
	r.customers[c.ID] = c
	return nil
}

func (r *Registry) AddFlight(f *domain.Flight) error {
	if f == nil {
		return domain.NewInvariant("flight cannot be nil")
	}
	if _, ok := r.flights[f.ID]; ok {
		return domain.NewInvariant("duplicate flight id %d", f.ID)
	}
	for _, existing := range r.flights {
		if existing.Number == f.Number && domain.DateOf(existing.Departure).Equal(domain.DateOf(f.Departure)) {
			return domain.NewValidation("flight %s on %s already exists", f.Number, f.Departure.Format("2006-01-02"))
		}
	}
	r.flights[f.ID] = f
	return nil
}

func (r *Registry) PhoneExists(phone string) bool {
	if phone == "" {
		return false
	}
	for _, c := range r.customers {
		if c.Phone == phone {
			return true
		}
	}
	return false
}

func (r *Registry) NextCustomerID() int64 {
	var max int64
	for id := range r.customers {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func (r *Registry) NextFlightID() int64 {
	var max int64
	for id := range r.flights {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Bookings returns every booking record of every customer, customers in id
// order, each history in insertion order.
func (r *Registry) Bookings() []*domain.Booking {
	var out []*domain.Booking
	for _, c := range r.Customers() {
		out = append(out, c.Bookings...)
	}
	return out
}

// Restore replaces the registry contents from persisted state. Passenger
// sets are not persisted: they are rebuilt here from ACTIVE bookings only,
// so canceled history never re-boards a passenger.
func (r *Registry) Restore(customers []*domain.Customer, flights []*domain.Flight, bookings []*domain.Booking, systemDate time.Time) error {
	r.systemDate = domain.DateOf(systemDate)
	r.customers = make(map[int64]*domain.Customer, len(customers))
	r.flights = make(map[int64]*domain.Flight, len(flights))

	for _, c := range customers {
		if _, ok := r.customers[c.ID]; ok {
			return domain.NewInvariant("duplicate customer id %d in snapshot", c.ID)
		}
		c.Bookings = nil
		r.customers[c.ID] = c
	}
	for _, f := range flights {
		if _, ok := r.flights[f.ID]; ok {
			return domain.NewInvariant("duplicate flight id %d in snapshot", f.ID)
		}
		r.flights[f.ID] = f
	}

	for _, b := range bookings {
		c, err := r.CustomerByID(b.CustomerID)
		if err != nil {
			return err
		}
		f, err := r.FlightByID(b.FlightID)
		if err != nil {
			return err
		}
		if err := c.AddBooking(b); err != nil {
			return err
		}
		if b.IsActive() {
			if err := f.AddPassenger(c.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
