package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/flightledger/internal/pricing"
	"github.com/Domenick1991/flightledger/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type addBookingRequest struct {
	CustomerID int64 `json:"customer_id" binding:"required"`
	FlightID   int64 `json:"flight_id" binding:"required"`
}

type rebookRequest struct {
	CustomerID  int64 `json:"customer_id" binding:"required"`
	OldFlightID int64 `json:"old_flight_id" binding:"required"`
	NewFlightID int64 `json:"new_flight_id" binding:"required"`
}

type addBookingResponse struct {
	Ref        string  `json:"ref"`
	CustomerID int64   `json:"customer_id"`
	FlightID   int64   `json:"flight_id"`
	Date       string  `json:"date"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
	Message    string  `json:"message"`
}

type cancelBookingResponse struct {
	Ref     string  `json:"ref"`
	Fee     float64 `json:"fee"`
	Refund  float64 `json:"refund"`
	Message string  `json:"message"`
}

type rebookResponse struct {
	OldRef      string  `json:"old_ref"`
	NewRef      string  `json:"new_ref"`
	OldPrice    float64 `json:"old_price"`
	Fee         float64 `json:"fee"`
	Quote       float64 `json:"new_flight_price"`
	NewPrice    float64 `json:"new_booking_price"`
	AmountToPay float64 `json:"amount_to_pay"`
	Message     string  `json:"message"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.add)
	router.POST("/rebook", h.rebook)
	router.DELETE("/:customer_id/flights/:flight_id", h.cancel)
}

func (h *BookingHandler) add(c *gin.Context) {
	var req addBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Add(c.Request.Context(), req.CustomerID, req.FlightID)
	if err != nil {
		respondError(c, err)
		return
	}

	price := pricing.Round2(res.Price)
	c.JSON(http.StatusCreated, addBookingResponse{
		Ref:        res.Booking.Ref,
		CustomerID: res.Booking.CustomerID,
		FlightID:   res.Booking.FlightID,
		Date:       res.Booking.BookingDate.Format("2006-01-02"),
		Price:      price,
		Status:     string(res.Booking.Status),
		Message:    fmt.Sprintf("Booking added successfully. Price: %.2f", price),
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customer_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}
	flightID, err := strconv.ParseInt(c.Param("flight_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}

	res, err := h.service.Cancel(c.Request.Context(), customerID, flightID)
	if err != nil {
		respondError(c, err)
		return
	}

	fee := pricing.Round2(res.Fee)
	refund := pricing.Round2(res.Refund)
	c.JSON(http.StatusOK, cancelBookingResponse{
		Ref:     res.Booking.Ref,
		Fee:     fee,
		Refund:  refund,
		Message: fmt.Sprintf("Booking cancelled successfully. Cancellation fee: %.2f. Refund amount: %.2f", fee, refund),
	})
}

func (h *BookingHandler) rebook(c *gin.Context) {
	var req rebookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Rebook(c.Request.Context(), req.CustomerID, req.OldFlightID, req.NewFlightID)
	if err != nil {
		respondError(c, err)
		return
	}

	amount := pricing.Round2(res.AmountToPay)
	var settlement string
	switch {
	case amount < 0:
		settlement = fmt.Sprintf("Credit to your account: %.2f", -amount)
	case amount > 0:
		settlement = fmt.Sprintf("Amount to pay: %.2f", amount)
	default:
		settlement = "No additional payment required"
	}

	c.JSON(http.StatusOK, rebookResponse{
		OldRef:      res.OldBooking.Ref,
		NewRef:      res.NewBooking.Ref,
		OldPrice:    pricing.Round2(res.OldPrice),
		Fee:         pricing.Round2(res.Fee),
		Quote:       pricing.Round2(res.Quote),
		NewPrice:    pricing.Round2(res.NewBooking.Price),
		AmountToPay: amount,
		Message:     "Booking updated successfully. " + settlement,
	})
}
