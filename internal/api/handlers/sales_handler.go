package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/service"
)

type SalesHandler struct {
	catalog  *service.CatalogService
	checkout *service.CheckoutService
	summary  *service.SummaryService
	clock    service.Clock
}

func NewSalesHandler(catalog *service.CatalogService, checkout *service.CheckoutService, summary *service.SummaryService, clock service.Clock) *SalesHandler {
	return &SalesHandler{catalog: catalog, checkout: checkout, summary: summary, clock: clock}
}

func (h *SalesHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (h *SalesHandler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	receipt, err := h.checkout.Checkout(c.Request.Context(), h.clock.Current(), req)
	if err != nil {
		respondError(c, "checkout failed", err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *SalesHandler) GetSummary(c *gin.Context) {
	date, err := dateQuery(c, "date", h.clock)
	if err != nil {
		badRequest(c, err)
		return
	}

	day, err := h.summary.GetSummary(c.Request.Context(), date)
	if err != nil {
		respondError(c, "failed to fetch summary", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// FlushSummaryCache drops cached summaries; ?date= limits it to one day.
func (h *SalesHandler) FlushSummaryCache(c *gin.Context) {
	var date *domain.BusinessDate
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		d, err := domain.ParseBusinessDate(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		date = &d
	}

	n, err := h.summary.FlushCache(c.Request.Context(), date)
	if err != nil {
		respondError(c, "failed to flush summary cache", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dropped": n})
}

func (h *SalesHandler) GetAvailableDates(c *gin.Context) {
	dates, err := h.summary.ListAvailableDates(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch available dates", err)
		return
	}

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.String())
	}
	c.JSON(http.StatusOK, gin.H{"dates": formatted})
}
