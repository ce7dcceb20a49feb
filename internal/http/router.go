package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, environment string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/pricing/estimate", handler.estimatePrice)
	router.POST("/pricing/quick", handler.quickEstimate)

	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/bookings", handler.createBooking)
	protected.POST("/jobs/:id/submit", handler.submitBooking)
	protected.GET("/jobs", handler.listJobs)
	protected.GET("/jobs/:id", handler.getJob)
	protected.POST("/jobs/:id/quote", handler.createQuote)
	protected.GET("/jobs/:id/quotes", handler.listJobQuotes)
	protected.POST("/jobs/:id/crew", handler.assignCrew)
	protected.POST("/jobs/:id/progress", handler.progressJob)
	protected.POST("/jobs/:id/checklist/:item_id/complete", handler.completeChecklistItem)
	protected.POST("/jobs/:id/photos", handler.addPhoto)
	protected.POST("/jobs/:id/verify", handler.verifyJob)
	protected.POST("/jobs/:id/reject", handler.rejectJob)
	protected.POST("/jobs/:id/payment", handler.completePayment)
	protected.POST("/jobs/:id/cancel", handler.cancelJob)
	protected.POST("/jobs/export", handler.exportJobs)

	protected.POST("/quotes/:id/accept", handler.acceptQuote)
	protected.POST("/quotes/:id/decline", handler.declineQuote)
	protected.GET("/quotes/:id/document", handler.quoteDocument)

	return router
}
