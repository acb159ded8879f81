package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/service"
)

// respondError maps domain errors onto status codes.
func respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
}

// dateQuery reads a dd-mm-yyyy query parameter; a missing one means today.
func dateQuery(c *gin.Context, name string, clock service.Clock) (domain.BusinessDate, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return clock.Today(), nil
	}
	return domain.ParseBusinessDate(raw)
}
