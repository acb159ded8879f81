package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/service"
)

// defaultHistoryDays is the window served when no from date is given.
const defaultHistoryDays = 7

type InventoryHandler struct {
	service *service.InventoryService
	clock   service.Clock
}

func NewInventoryHandler(service *service.InventoryService, clock service.Clock) *InventoryHandler {
	return &InventoryHandler{service: service, clock: clock}
}

type saveInventoryRequest struct {
	Date  domain.BusinessDate     `json:"date"`
	Items []domain.InventoryPatch `json:"items"`
}

func (h *InventoryHandler) GetRecords(c *gin.Context) {
	date, err := dateQuery(c, "date", h.clock)
	if err != nil {
		badRequest(c, err)
		return
	}

	records, err := h.service.GetRecords(c.Request.Context(), date)
	if err != nil {
		respondError(c, "failed to fetch inventory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "items": records})
}

func (h *InventoryHandler) Save(c *gin.Context) {
	var req saveInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Date.IsZero() {
		req.Date = h.clock.Today()
	}

	if err := h.service.Save(c.Request.Context(), req.Date, req.Items); err != nil {
		respondError(c, "failed to save inventory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "saved": len(req.Items)})
}

func (h *InventoryHandler) CarryOver(c *gin.Context) {
	date, err := dateQuery(c, "date", h.clock)
	if err != nil {
		badRequest(c, err)
		return
	}

	n, err := h.service.CarryOver(c.Request.Context(), date)
	if err != nil {
		respondError(c, "failed to carry over inventory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "seeded": n})
}

func (h *InventoryHandler) Reconcile(c *gin.Context) {
	date, err := dateQuery(c, "date", h.clock)
	if err != nil {
		badRequest(c, err)
		return
	}

	day, err := h.service.Reconcile(c.Request.Context(), date)
	if err != nil {
		respondError(c, "failed to reconcile stock", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *InventoryHandler) History(c *gin.Context) {
	to, err := dateQuery(c, "to", h.clock)
	if err != nil {
		badRequest(c, err)
		return
	}
	from := to
	for i := 1; i < defaultHistoryDays; i++ {
		from = from.Previous()
	}
	if c.Query("from") != "" {
		if from, err = domain.ParseBusinessDate(c.Query("from")); err != nil {
			badRequest(c, err)
			return
		}
	}

	lines, err := h.service.History(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, "failed to fetch stock history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "days": lines})
}
