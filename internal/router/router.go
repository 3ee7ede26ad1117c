package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"invogen/internal/config"
	"invogen/internal/handler"
	"invogen/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg config.CORSConfig,
	sessionH *handler.SessionHandler,
	invoiceH *handler.InvoiceHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("/:id", sessionH.GetByID)
	sessions.DELETE("/:id", sessionH.Delete)
	sessions.POST("/:id/logo", sessionH.UploadLogo)

	invoices := sessions.Group("/:id/invoices")
	invoices.POST("/preview", invoiceH.Preview)
	invoices.POST("", invoiceH.Finalize)
	invoices.POST("/pdf", invoiceH.ExportPDF)
	invoices.POST("/xlsx", invoiceH.ExportXLSX)
	invoices.POST("/csv", invoiceH.ExportCSV)
	invoices.POST("/email", invoiceH.Email)

	return r
}
