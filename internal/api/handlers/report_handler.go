package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/shoppos/backend-go/internal/report"
	"github.com/andresuchdata/shoppos/backend-go/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
	archive *service.ArchiveService
	clock   service.Clock
}

// NewReportHandler builds the handler; archive may be nil when no object
// storage is configured.
func NewReportHandler(reports *service.ReportService, archive *service.ArchiveService, clock service.Clock) *ReportHandler {
	return &ReportHandler{reports: reports, archive: archive, clock: clock}
}

func (h *ReportHandler) DailyWorkbook(c *gin.Context) {
	date, err := dateQuery(c, "date", h.clock)
	if err != nil {
		badRequest(c, err)
		return
	}

	data, err := h.reports.Workbook(c.Request.Context(), date)
	if err != nil {
		respondError(c, "failed to build report", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.WorkbookName(date)))
	c.Data(http.StatusOK, report.MimeType, data)
}

func (h *ReportHandler) ArchiveDay(c *gin.Context) {
	date, err := dateQuery(c, "date", h.clock)
	if err != nil {
		badRequest(c, err)
		return
	}

	key, err := h.archive.ArchiveDay(c.Request.Context(), date)
	if err != nil {
		respondError(c, "failed to archive report", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

func (h *ReportHandler) Backup(c *gin.Context) {
	key, err := h.archive.Backup(c.Request.Context())
	if err != nil {
		respondError(c, "failed to back up spreadsheet", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

func (h *ReportHandler) ListArchives(c *gin.Context) {
	kind := c.DefaultQuery("kind", "reports")
	if kind != "reports" && kind != "backups" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": "kind must be reports or backups"})
		return
	}

	objects, err := h.archive.List(c.Request.Context(), kind)
	if err != nil {
		respondError(c, "failed to list archives", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"objects": objects})
}
