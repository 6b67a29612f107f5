package handlers

import (
	"suraksha_mesh/internal/logger"
	"suraksha_mesh/internal/metrics"
	"suraksha_mesh/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services, logging and metrics.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewHandler constructs a new HTTP handler with dependencies.
// A nil metrics set disables /metrics and all counters.
func NewHandler(services *service.Service, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{services: services, log: log, metrics: m}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// live status board on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerTelemetryRoutes(api)
		h.registerWorkerRoutes(api)
		h.registerAssessmentRoutes(api)
	}
}

func (h *Handler) registerTelemetryRoutes(api *gin.RouterGroup) {
	telemetry := api.Group("/telemetry")
	{
		// Body example: {"worker_id":"W-102","risk_score":92,"gas_ppm":450,"heart_rate_bpm":128,"fire_detected":false,"duration_seconds":12,"zone":"Furnace_B"}
		telemetry.POST("/classify", h.classifyReading)
		telemetry.POST("/batch", h.classifyBatch)
		telemetry.POST("/narrate", h.narrateReading)
	}
}

func (h *Handler) registerWorkerRoutes(api *gin.RouterGroup) {
	workers := api.Group("/workers")
	{
		workers.GET("", h.listWorkers)
		workers.GET("/:id", h.getWorker)
	}
}

func (h *Handler) registerAssessmentRoutes(api *gin.RouterGroup) {
	api.GET("/assessments", h.listAssessments)
}
