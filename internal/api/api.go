// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/shoppos/backend-go/internal/api/handlers"
	"github.com/andresuchdata/shoppos/backend-go/internal/api/middleware"
	"github.com/andresuchdata/shoppos/backend-go/internal/service"
)

type Services struct {
	Clock     service.Clock
	Catalog   *service.CatalogService
	Checkout  *service.CheckoutService
	Summary   *service.SummaryService
	Inventory *service.InventoryService
	Cash      *service.CashService
	Reports   *service.ReportService
	// Archive is optional.
	Archive *service.ArchiveService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	if services == nil {
		return router
	}

	sales := handlers.NewSalesHandler(services.Catalog, services.Checkout, services.Summary, services.Clock)
	apiGroup.GET("/products", sales.ListProducts)
	apiGroup.POST("/checkout", sales.Checkout)
	apiGroup.GET("/summary", sales.GetSummary)
	apiGroup.DELETE("/summary/cache", sales.FlushSummaryCache)
	apiGroup.GET("/dates", sales.GetAvailableDates)

	inventory := handlers.NewInventoryHandler(services.Inventory, services.Clock)
	inventoryGroup := apiGroup.Group("/inventory")
	{
		inventoryGroup.GET("", inventory.GetRecords)
		inventoryGroup.POST("", inventory.Save)
		inventoryGroup.POST("/carry-over", inventory.CarryOver)
	}

	reconciliationGroup := apiGroup.Group("/reconciliation")
	{
		reconciliationGroup.GET("/stock", inventory.Reconcile)
		reconciliationGroup.GET("/stock/history", inventory.History)
	}

	cash := handlers.NewCashHandler(services.Cash, services.Clock)
	apiGroup.GET("/cash", cash.Get)
	apiGroup.POST("/cash", cash.Save)

	reports := handlers.NewReportHandler(services.Reports, services.Archive, services.Clock)
	apiGroup.GET("/reports/daily.xlsx", reports.DailyWorkbook)
	if services.Archive != nil {
		archiveGroup := apiGroup.Group("/archives")
		{
			archiveGroup.GET("", reports.ListArchives)
			archiveGroup.POST("/daily", reports.ArchiveDay)
			archiveGroup.POST("/backup", reports.Backup)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
