package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/flightledger/internal/service/booking"
	"github.com/Domenick1991/flightledger/internal/service/flights"
)

type SystemHandler struct {
	queries flights.FlightUseCase
	admin   booking.BookingUseCase
}

type advanceDateRequest struct {
	Date string `json:"date" binding:"required"`
}

func NewSystemHandler(queries flights.FlightUseCase, admin booking.BookingUseCase) *SystemHandler {
	return &SystemHandler{queries: queries, admin: admin}
}

func (h *SystemHandler) Register(router *gin.RouterGroup) {
	router.GET("/date", h.date)
	router.POST("/date", h.advance)
}

func (h *SystemHandler) date(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"system_date": h.queries.SystemDate(c.Request.Context()).Format("2006-01-02")})
}

func (h *SystemHandler) advance(c *gin.Context) {
	var req advanceDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	newDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
		return
	}

	updated, err := h.admin.AdvanceDate(c.Request.Context(), newDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"system_date": updated.Format("2006-01-02")})
}
