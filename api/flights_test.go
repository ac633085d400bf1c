package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/service/booking"
	"github.com/Domenick1991/flightledger/internal/service/flights"
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase.
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) ListFlights(ctx context.Context, filter flights.FlightFilter) ([]flights.FlightView, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]flights.FlightView), args.Error(1)
}

func (m *MockFlightUseCase) GetFlight(ctx context.Context, id int64) (*flights.FlightView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.FlightView), args.Error(1)
}

func (m *MockFlightUseCase) ListCustomers(ctx context.Context, activeOnly bool) ([]flights.CustomerView, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]flights.CustomerView), args.Error(1)
}

func (m *MockFlightUseCase) GetCustomer(ctx context.Context, id int64) (*flights.CustomerView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.CustomerView), args.Error(1)
}

func (m *MockFlightUseCase) SystemDate(ctx context.Context) time.Time {
	args := m.Called(ctx)
	return args.Get(0).(time.Time)
}

func newFlightRouter(queries flights.FlightUseCase, admin booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewFlightHandler(queries, admin).Register(router.Group("/flights"))
	NewSystemHandler(queries, admin).Register(router.Group("/system"))
	return router
}

func TestFlightHandler_List_PassesFilters(t *testing.T) {
	mockQueries := &MockFlightUseCase{}
	router := newFlightRouter(mockQueries, &MockBookingUseCase{})

	mockQueries.On("ListFlights", mock.Anything, flights.FlightFilter{ActiveOnly: true, FutureOnly: true}).
		Return([]flights.FlightView{{ID: 2, Number: "BA200"}}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/flights/?active_only=true&future_only=true", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []flights.FlightView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "BA200", resp[0].Number)

	mockQueries.AssertExpectations(t)
}

func TestFlightHandler_Get_NotFound(t *testing.T) {
	mockQueries := &MockFlightUseCase{}
	router := newFlightRouter(mockQueries, &MockBookingUseCase{})

	mockQueries.On("GetFlight", mock.Anything, int64(99)).
		Return(nil, domain.NewNotFound("flight", 99)).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/flights/99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_Create(t *testing.T) {
	mockAdmin := &MockBookingUseCase{}
	router := newFlightRouter(&MockFlightUseCase{}, mockAdmin)

	flight := domain.NewFlight(1, "BA101", "LHR", "JFK", date("2025-06-01"), 10, 100)
	mockAdmin.On("AddFlight", mock.Anything, booking.AddFlightInput{
		Number: "BA101", Origin: "LHR", Destination: "JFK",
		Departure: date("2025-06-01"), Capacity: 10, BasePrice: 100,
	}).Return(flight, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"number": "BA101", "origin": "LHR", "destination": "JFK",
		"departure": "2025-06-01", "capacity": 10, "base_price": 100,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/flights/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockAdmin.AssertExpectations(t)
}

func TestFlightHandler_Create_BadDate(t *testing.T) {
	router := newFlightRouter(&MockFlightUseCase{}, &MockBookingUseCase{})

	body, _ := json.Marshal(map[string]interface{}{"number": "BA101", "departure": "01/06/2025"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/flights/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlightHandler_Deactivate(t *testing.T) {
	mockAdmin := &MockBookingUseCase{}
	router := newFlightRouter(&MockFlightUseCase{}, mockAdmin)

	flight := domain.NewFlight(1, "BA101", "LHR", "JFK", date("2025-06-01"), 10, 100)
	flight.Active = false
	mockAdmin.On("SetFlightActive", mock.Anything, int64(1), false).Return(flight, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/flights/1/deactivate", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"active":false`)
}

func TestSystemHandler_AdvanceDate(t *testing.T) {
	mockAdmin := &MockBookingUseCase{}
	router := newFlightRouter(&MockFlightUseCase{}, mockAdmin)

	mockAdmin.On("AdvanceDate", mock.Anything, date("2024-12-01")).
		Return(date("2024-12-01"), nil).Once()

	body, _ := json.Marshal(map[string]string{"date": "2024-12-01"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/system/date", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2024-12-01")
}

func TestSystemHandler_AdvanceDate_NotAfterCurrent(t *testing.T) {
	mockAdmin := &MockBookingUseCase{}
	router := newFlightRouter(&MockFlightUseCase{}, mockAdmin)

	mockAdmin.On("AdvanceDate", mock.Anything, date("2024-01-01")).
		Return(time.Time{}, domain.NewValidation("new system date must be after current system date (2024-11-11)")).Once()

	body, _ := json.Marshal(map[string]string{"date": "2024-01-01"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/system/date", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
