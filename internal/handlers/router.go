package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/question-extractor/internal/services"
	"github.com/SAP-F-2025/question-extractor/internal/utils"
	"github.com/SAP-F-2025/question-extractor/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	extractionHandler *ExtractionHandler
	sessionHandler    *SessionHandler
}

func NewHandlerManager(
	extractionService services.ExtractionService,
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		extractionHandler: NewExtractionHandler(extractionService, validator, logger),
		sessionHandler:    NewSessionHandler(sessionService, extractionService, validator, logger),
	}
}

// NewRouter builds a gin engine with the request id and logging middleware
// installed and every route registered.
func (hm *HandlerManager) NewRouter(logger utils.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestIDMiddleware(), utils.LoggerMiddleware(logger))
	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Extraction routes
		extractions := v1.Group("/extractions")
		{
			extractions.POST("", hm.extractionHandler.Extract)
			extractions.POST("/upload", hm.extractionHandler.Upload)
			extractions.DELETE("/cache", hm.extractionHandler.PurgeCache)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.DeleteSession)

			// Draft editing
			sessions.PUT("/:id/stem", hm.sessionHandler.SetStem)
			sessions.PUT("/:id/options/:letter", hm.sessionHandler.SetOption)
			sessions.PUT("/:id/answer", hm.sessionHandler.SetAnswer)
			sessions.POST("/:id/assign", hm.sessionHandler.AssignFragment)
			sessions.POST("/:id/reset", hm.sessionHandler.ResetDraft)

			// Commit and bulk fill
			sessions.GET("/:id/can-commit", hm.sessionHandler.CanCommit)
			sessions.POST("/:id/commit", hm.sessionHandler.Commit)
			sessions.POST("/:id/autofill", hm.sessionHandler.Autofill)

			// Export and import
			sessions.GET("/:id/export", hm.sessionHandler.Export)
			sessions.POST("/:id/import", hm.sessionHandler.Import)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "question-extractor",
	})
}
