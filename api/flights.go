package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/flightledger/internal/service/booking"
	"github.com/Domenick1991/flightledger/internal/service/flights"
)

type FlightHandler struct {
	queries flights.FlightUseCase
	admin   booking.BookingUseCase
}

type addFlightRequest struct {
	Number      string  `json:"number" binding:"required"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Departure   string  `json:"departure" binding:"required"`
	Capacity    int     `json:"capacity"`
	BasePrice   float64 `json:"base_price"`
}

func NewFlightHandler(queries flights.FlightUseCase, admin booking.BookingUseCase) *FlightHandler {
	return &FlightHandler{queries: queries, admin: admin}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
	router.POST("/:id/activate", h.setActive(true))
	router.POST("/:id/deactivate", h.setActive(false))
}

func (h *FlightHandler) list(c *gin.Context) {
	filter := flights.FlightFilter{
		ActiveOnly: c.Query("active_only") == "true",
		FutureOnly: c.Query("future_only") == "true",
	}
	list, err := h.queries.ListFlights(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.queries.GetFlight(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req addFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	departure, err := time.Parse("2006-01-02", req.Departure)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure date, want YYYY-MM-DD"})
		return
	}

	flight, err := h.admin.AddFlight(c.Request.Context(), booking.AddFlightInput{
		Number:      req.Number,
		Origin:      req.Origin,
		Destination: req.Destination,
		Departure:   departure,
		Capacity:    req.Capacity,
		BasePrice:   req.BasePrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": flight.ID})
}

func (h *FlightHandler) setActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		flight, err := h.admin.SetFlightActive(c.Request.Context(), id, active)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": flight.ID, "active": flight.Active})
	}
}
