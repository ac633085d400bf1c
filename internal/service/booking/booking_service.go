package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/pricing"
	"github.com/Domenick1991/flightledger/internal/registry"
	"github.com/Domenick1991/flightledger/internal/store"
)

// BookingUseCase covers every mutating operation of the ledger: the three
// booking lifecycle operations, entity administration and the system clock.
type BookingUseCase interface {
	Add(ctx context.Context, customerID, flightID int64) (*AddResult, error)
	Cancel(ctx context.Context, customerID, flightID int64) (*CancelResult, error)
	Rebook(ctx context.Context, customerID, oldFlightID, newFlightID int64) (*RebookResult, error)

	RegisterCustomer(ctx context.Context, name, phone string) (*domain.Customer, error)
	AddFlight(ctx context.Context, input AddFlightInput) (*domain.Flight, error)
	SetCustomerActive(ctx context.Context, customerID int64, active bool) (*domain.Customer, error)
	SetFlightActive(ctx context.Context, flightID int64, active bool) (*domain.Flight, error)
	AdvanceDate(ctx context.Context, newDate time.Time) (time.Time, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type AddResult struct {
	Booking *domain.Booking
	Price   float64
}

type CancelResult struct {
	Booking *domain.Booking
	Fee     float64
	Refund  float64
}

type RebookResult struct {
	OldBooking *domain.Booking
	NewBooking *domain.Booking
	OldPrice   float64
	Fee        float64
	// Quote is the new flight's dynamic price before the fee is added.
	Quote float64
	// AmountToPay is informational: negative means a credit to the customer.
	AmountToPay float64
}

type AddFlightInput struct {
	Number      string
	Origin      string
	Destination string
	Departure   time.Time
	Capacity    int
	BasePrice   float64
}

type BookingService struct {
	reg                *registry.Registry
	store              store.Store
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	logger             zerolog.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	reg *registry.Registry,
	st store.Store,
	cache Cache,
	producer Producer,
	bookingTopic string,
	logger zerolog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		reg:          reg,
		store:        st,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Add books a customer onto a flight at the current dynamic price. Every
// precondition is checked before any entity is touched; a failure leaves no
// trace.
func (s *BookingService) Add(ctx context.Context, customerID, flightID int64) (*AddResult, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	customer, err := s.reg.CustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	flight, err := s.reg.FlightByID(flightID)
	if err != nil {
		return nil, err
	}

	if !customer.Active {
		return nil, domain.NewValidation("customer account is inactive")
	}
	if !flight.Active {
		return nil, domain.NewValidation("flight %d is inactive", flight.ID)
	}
	if flight.DepartsBefore(s.reg.SystemDate()) {
		return nil, domain.NewValidation("flight %d has already departed", flight.ID)
	}
	if flight.IsFull() {
		return nil, domain.NewValidation("cannot add booking: flight is full (%d seats)", flight.Capacity)
	}
	if customer.ActiveBookingFor(flightID) != nil {
		return nil, domain.NewValidation("customer already has an active booking for flight %d", flightID)
	}

	// Quote before boarding: occupancy reflects the pre-booking state.
	price := pricing.Quote(flight, s.reg.SystemDate())

	booking := domain.NewBooking(customerID, flightID, s.reg.SystemDate(), price)
	if err := customer.AddBooking(booking); err != nil {
		return nil, err
	}
	if err := flight.AddPassenger(customerID); err != nil {
		return nil, err
	}

	s.commit(ctx, kafka.BookingEvent{
		Type:       kafka.EventBookingAdded,
		BookingRef: booking.Ref,
		CustomerID: customerID,
		FlightID:   flightID,
		Price:      pricing.Round2(price),
		Date:       s.reg.SystemDate().Format("2006-01-02"),
	})

	s.logger.Info().
		Int64("customer_id", customerID).
		Int64("flight_id", flightID).
		Float64("price", pricing.Round2(price)).
		Msg("booking added")

	return &AddResult{Booking: booking, Price: price}, nil
}

// Cancel moves the customer's ACTIVE booking for the flight to CANCELED and
// assesses the cancellation fee against its stored price. The record stays
// in the history forever.
func (s *BookingService) Cancel(ctx context.Context, customerID, flightID int64) (*CancelResult, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	customer, err := s.reg.CustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	flight, err := s.reg.FlightByID(flightID)
	if err != nil {
		return nil, err
	}

	booking := customer.ActiveBookingFor(flightID)
	if booking == nil {
		return nil, domain.NewValidation("no active booking found for customer %d on flight %d", customerID, flightID)
	}

	fee := pricing.CancelFee(booking.Price)
	refund := pricing.Refund(booking.Price, fee)

	if err := booking.Cancel(fee, domain.FeeTypeCancel); err != nil {
		return nil, err
	}
	if err := flight.RemovePassenger(customerID); err != nil {
		return nil, err
	}

	s.commit(ctx, kafka.BookingEvent{
		Type:       kafka.EventBookingCancelled,
		BookingRef: booking.Ref,
		CustomerID: customerID,
		FlightID:   flightID,
		Price:      pricing.Round2(booking.Price),
		Fee:        pricing.Round2(fee),
		FeeType:    string(domain.FeeTypeCancel),
		Refund:     pricing.Round2(refund),
		Date:       s.reg.SystemDate().Format("2006-01-02"),
	})

	s.logger.Info().
		Int64("customer_id", customerID).
		Int64("flight_id", flightID).
		Float64("fee", pricing.Round2(fee)).
		Float64("refund", pricing.Round2(refund)).
		Msg("booking cancelled")

	return &CancelResult{Booking: booking, Fee: fee, Refund: refund}, nil
}

// Rebook moves a customer from one flight to another: the old booking is
// closed with a rebooking fee, a new booking is created at the new flight's
// dynamic price plus that fee, and the passenger membership moves with it.
// All validation happens up front so a rejection mutates nothing.
func (s *BookingService) Rebook(ctx context.Context, customerID, oldFlightID, newFlightID int64) (*RebookResult, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	customer, err := s.reg.CustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	oldFlight, err := s.reg.FlightByID(oldFlightID)
	if err != nil {
		return nil, err
	}
	newFlight, err := s.reg.FlightByID(newFlightID)
	if err != nil {
		return nil, err
	}

	if !customer.Active {
		return nil, domain.NewValidation("customer account is inactive")
	}
	if oldFlightID == newFlightID {
		return nil, domain.NewValidation("old flight and new flight cannot be the same")
	}
	if oldFlight.DepartsBefore(s.reg.SystemDate()) {
		return nil, domain.NewValidation("cannot rebook: flight %d has already departed", oldFlightID)
	}
	if newFlight.DepartsBefore(s.reg.SystemDate()) {
		return nil, domain.NewValidation("cannot rebook: flight %d has already departed", newFlightID)
	}
	if !newFlight.Active {
		return nil, domain.NewValidation("flight %d is inactive", newFlightID)
	}

	oldBooking := customer.ActiveBookingFor(oldFlightID)
	if oldBooking == nil {
		return nil, domain.NewValidation("no active booking found for customer %d on flight %d", customerID, oldFlightID)
	}
	// A canceled booking for the destination does not block; only an ACTIVE
	// one means double-booking.
	if customer.ActiveBookingFor(newFlightID) != nil {
		return nil, domain.NewValidation("customer already has an active booking for flight %d", newFlightID)
	}
	if newFlight.IsFull() {
		return nil, domain.NewValidation("cannot rebook: flight %d is full (%d seats)", newFlightID, newFlight.Capacity)
	}

	oldPrice := oldBooking.Price
	fee := pricing.RebookFee(oldPrice)
	quote := pricing.Quote(newFlight, s.reg.SystemDate())
	newPrice := quote + fee

	// The old stored price is untouched: it remains the price actually paid.
	if err := oldBooking.Cancel(fee, domain.FeeTypeRebook); err != nil {
		return nil, err
	}

	newBooking := domain.NewBooking(customerID, newFlightID, s.reg.SystemDate(), newPrice)
	if err := customer.AddBooking(newBooking); err != nil {
		return nil, err
	}
	if err := newFlight.AddPassenger(customerID); err != nil {
		return nil, err
	}
	if err := oldFlight.RemovePassenger(customerID); err != nil {
		return nil, err
	}

	amountToPay := pricing.AmountToPay(newPrice, oldPrice, fee)

	s.commit(ctx, kafka.BookingEvent{
		Type:        kafka.EventBookingRebooked,
		BookingRef:  newBooking.Ref,
		CustomerID:  customerID,
		FlightID:    newFlightID,
		OldFlightID: oldFlightID,
		Price:       pricing.Round2(newPrice),
		Fee:         pricing.Round2(fee),
		FeeType:     string(domain.FeeTypeRebook),
		AmountToPay: pricing.Round2(amountToPay),
		Date:        s.reg.SystemDate().Format("2006-01-02"),
	})

	s.logger.Info().
		Int64("customer_id", customerID).
		Int64("old_flight_id", oldFlightID).
		Int64("new_flight_id", newFlightID).
		Float64("fee", pricing.Round2(fee)).
		Float64("new_price", pricing.Round2(newPrice)).
		Msg("booking rebooked")

	return &RebookResult{
		OldBooking:  oldBooking,
		NewBooking:  newBooking,
		OldPrice:    oldPrice,
		Fee:         fee,
		Quote:       quote,
		AmountToPay: amountToPay,
	}, nil
}

func (s *BookingService) RegisterCustomer(ctx context.Context, name, phone string) (*domain.Customer, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	if name == "" {
		return nil, domain.NewValidation("customer name is required")
	}
	if phone == "" {
		return nil, domain.NewValidation("customer phone is required")
	}

	customer := domain.NewCustomer(s.reg.NextCustomerID(), name, phone)
	if err := s.reg.AddCustomer(customer); err != nil {
		return nil, err
	}

	s.commit(ctx, kafka.BookingEvent{})
	return customer, nil
}

func (s *BookingService) AddFlight(ctx context.Context, input AddFlightInput) (*domain.Flight, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	if input.Number == "" {
		return nil, domain.NewValidation("flight number is required")
	}
	if input.Capacity < 0 {
		return nil, domain.NewValidation("capacity cannot be negative")
	}
	if input.BasePrice < 0 {
		return nil, domain.NewValidation("base price cannot be negative")
	}

	flight := domain.NewFlight(s.reg.NextFlightID(), input.Number, input.Origin, input.Destination, input.Departure, input.Capacity, input.BasePrice)
	if err := s.reg.AddFlight(flight); err != nil {
		return nil, err
	}

	s.commit(ctx, kafka.BookingEvent{})
	return flight, nil
}

// SetCustomerActive soft-deletes or restores a customer. Existing bookings
// are untouched; the flag only gates new Add and Rebook operations.
func (s *BookingService) SetCustomerActive(ctx context.Context, customerID int64, active bool) (*domain.Customer, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	customer, err := s.reg.CustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	customer.Active = active

	s.commit(ctx, kafka.BookingEvent{})
	return customer, nil
}

func (s *BookingService) SetFlightActive(ctx context.Context, flightID int64, active bool) (*domain.Flight, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	flight, err := s.reg.FlightByID(flightID)
	if err != nil {
		return nil, err
	}
	flight.Active = active

	s.commit(ctx, kafka.BookingEvent{})
	return flight, nil
}

// AdvanceDate moves the system clock strictly forward.
func (s *BookingService) AdvanceDate(ctx context.Context, newDate time.Time) (time.Time, error) {
	s.reg.Lock()
	defer s.reg.Unlock()

	if err := s.reg.AdvanceDate(newDate); err != nil {
		return time.Time{}, err
	}

	s.commit(ctx, kafka.BookingEvent{})
	return s.reg.SystemDate(), nil
}

// commit runs the post-operation side effects: snapshot persistence, cache
// invalidation and event publication. The in-memory mutation has already
// succeeded at this point, so failures are logged, not propagated.
func (s *BookingService) commit(ctx context.Context, event kafka.BookingEvent) {
	if s.store != nil {
		snap := &store.Snapshot{
			Customers:  s.reg.Customers(),
			Flights:    s.reg.Flights(),
			Bookings:   s.reg.Bookings(),
			SystemDate: s.reg.SystemDate(),
		}
		if err := s.store.StoreAll(ctx, snap); err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist snapshot")
		}
	}
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate flights cache")
		}
	}
	if event.Type != "" {
		s.publish(ctx, event)
	}
}

func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, event.BookingRef, event); err != nil {
		s.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish booking event")
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.BookingRef, event); err != nil {
			s.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
