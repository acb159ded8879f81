package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/service"
)

type CashHandler struct {
	service *service.CashService
	clock   service.Clock
}

func NewCashHandler(service *service.CashService, clock service.Clock) *CashHandler {
	return &CashHandler{service: service, clock: clock}
}

type saveCashRequest struct {
	Date          domain.BusinessDate      `json:"date"`
	StartingFloat *decimal.Decimal         `json:"starting_float"`
	Counts        domain.DenominationCount `json:"counts"`
}

func (h *CashHandler) Get(c *gin.Context) {
	date, err := dateQuery(c, "date", h.clock)
	if err != nil {
		badRequest(c, err)
		return
	}

	day, err := h.service.Get(c.Request.Context(), date)
	if err != nil {
		respondError(c, "failed to fetch cash", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cash": day, "denominations": domain.Denominations})
}

func (h *CashHandler) Save(c *gin.Context) {
	var req saveCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Date.IsZero() {
		req.Date = h.clock.Today()
	}

	result, err := h.service.Save(c.Request.Context(), req.Date, req.StartingFloat, req.Counts)
	if err != nil {
		respondError(c, "failed to save cash", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "result": result})
}
