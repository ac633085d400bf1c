package flights

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/pricing"
	"github.com/Domenick1991/flightledger/internal/registry"
)

// FlightUseCase is the read-only surface exposed to front ends.
type FlightUseCase interface {
	ListFlights(ctx context.Context, filter FlightFilter) ([]FlightView, error)
	GetFlight(ctx context.Context, id int64) (*FlightView, error)
	ListCustomers(ctx context.Context, activeOnly bool) ([]CustomerView, error)
	GetCustomer(ctx context.Context, id int64) (*CustomerView, error)
	SystemDate(ctx context.Context) time.Time
}

type FlightFilter struct {
	ActiveOnly bool
	FutureOnly bool
}

// FlightView is the wire shape of a flight. CurrentPrice is the dynamic
// quote a booking created now would pay; it is derived, never stored.
type FlightView struct {
	ID           int64   `json:"id"`
	Number       string  `json:"number"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	Departure    string  `json:"departure"`
	Capacity     int     `json:"capacity"`
	BasePrice    float64 `json:"base_price"`
	CurrentPrice float64 `json:"current_price"`
	Active       bool    `json:"active"`
	Passengers   []int64 `json:"passengers"`
}

type BookingView struct {
	Ref         string  `json:"ref"`
	FlightID    int64   `json:"flight_id"`
	BookingDate string  `json:"booking_date"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	FeeLast     float64 `json:"fee_last,omitempty"`
	FeeType     string  `json:"fee_type,omitempty"`
}

type CustomerView struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Phone    string        `json:"phone"`
	Active   bool          `json:"active"`
	Bookings []BookingView `json:"bookings"`
}

type Cache interface {
	GetFlights(ctx context.Context, key string, dest interface{}) (bool, error)
	SetFlights(ctx context.Context, key string, value interface{}) error
}

type FlightService struct {
	reg   *registry.Registry
	cache Cache
}

func NewFlightService(reg *registry.Registry, cache Cache) *FlightService {
	return &FlightService{reg: reg, cache: cache}
}

func (s *FlightService) ListFlights(ctx context.Context, filter FlightFilter) ([]FlightView, error) {
	key := listKey(filter, s.systemDate())
	if s.cache != nil {
		var cached []FlightView
		if ok, err := s.cache.GetFlights(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	s.reg.Lock()
	defer s.reg.Unlock()

	views := make([]FlightView, 0)
	for _, f := range s.reg.Flights() {
		if filter.ActiveOnly && !f.Active {
			continue
		}
		if filter.FutureOnly && f.DepartsBefore(s.reg.SystemDate()) {
			continue
		}
		views = append(views, toFlightView(f, s.reg.SystemDate()))
	}

	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, key, views)
	}
	return views, nil
}

func (s *FlightService) GetFlight(ctx context.Context, id int64) (*FlightView, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	f, err := s.reg.FlightByID(id)
	if err != nil {
		return nil, err
	}
	view := toFlightView(f, s.reg.SystemDate())
	return &view, nil
}

func (s *FlightService) ListCustomers(ctx context.Context, activeOnly bool) ([]CustomerView, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	views := make([]CustomerView, 0)
	for _, c := range s.reg.Customers() {
		if activeOnly && !c.Active {
			continue
		}
		views = append(views, toCustomerView(c))
	}
	return views, nil
}

func (s *FlightService) GetCustomer(ctx context.Context, id int64) (*CustomerView, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	c, err := s.reg.CustomerByID(id)
	if err != nil {
		return nil, err
	}
	view := toCustomerView(c)
	return &view, nil
}

func (s *FlightService) SystemDate(ctx context.Context) time.Time {
	return s.systemDate()
}

func (s *FlightService) systemDate() time.Time {
	s.reg.Lock()
	defer s.reg.Unlock()
	return s.reg.SystemDate()
}

func toFlightView(f *domain.Flight, systemDate time.Time) FlightView {
	return FlightView{
		ID:           f.ID,
		Number:       f.Number,
		Origin:       f.Origin,
		Destination:  f.Destination,
		Departure:    f.Departure.Format("2006-01-02"),
		Capacity:     f.Capacity,
		BasePrice:    f.BasePrice,
		CurrentPrice: pricing.Round2(pricing.Quote(f, systemDate)),
		Active:       f.Active,
		Passengers:   f.Passengers(),
	}
}

func toCustomerView(c *domain.Customer) CustomerView {
	bookings := make([]BookingView, 0, len(c.Bookings))
	for _, b := range c.Bookings {
		bookings = append(bookings, BookingView{
			Ref:         b.Ref,
			FlightID:    b.FlightID,
			BookingDate: b.BookingDate.Format("2006-01-02"),
			Price:       pricing.Round2(b.Price),
			Status:      string(b.Status),
			FeeLast:     pricing.Round2(b.FeeLast),
			FeeType:     string(b.FeeType),
		})
	}
	return CustomerView{
		ID:       c.ID,
		Name:     c.Name,
		Phone:    c.Phone,
		Active:   c.Active,
		Bookings: bookings,
	}
}

func listKey(filter FlightFilter, systemDate time.Time) string {
	return fmt.Sprintf("list:%t:%t:%s", filter.ActiveOnly, filter.FutureOnly, systemDate.Format("2006-01-02"))
}

var _ FlightUseCase = (*FlightService)(nil)
