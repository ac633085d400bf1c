package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/flightledger/internal/domain"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Business
// rejections carry their reason verbatim; the front end surfaces it and does
// not retry.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case domain.IsInvariant(err):
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
