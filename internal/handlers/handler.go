package handlers

import (
	"task_manager/internal/config"
	"task_manager/internal/logger"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	cfg      *config.Config
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{services: services, cfg: cfg, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger, h.corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	api := router.Group("/api")
	{
		h.registerAuthRoutes(api)
		h.registerUserRoutes(api)
		h.registerTaskRoutes(api)
		h.registerSystemRoutes(api)
	}

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

func (h *Handler) registerUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.POST("/register", h.register)
		users.POST("/login", h.login)
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
	}
}

func (h *Handler) registerTaskRoutes(api *gin.RouterGroup) {
	tasks := api.Group("/tasks", h.authMiddleware)
	{
		tasks.POST("", h.createTask)
		tasks.GET("", h.listTasks)
		tasks.GET("/dashboard/:userId", h.dashboard)
		tasks.GET("/:id", h.getTask)
		tasks.PUT("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
	}

	// Browsers cannot set headers on a WebSocket handshake, so the stream
	// also accepts the token as a query parameter.
	stream := api.Group("/tasks/dashboard", h.tokenFromQuery, h.authMiddleware)
	{
		stream.GET("/:userId/stream", h.dashboardStream)
	}
}

func (h *Handler) registerSystemRoutes(api *gin.RouterGroup) {
	system := api.Group("/system")
	{
		system.GET("/env-check", h.envCheck)
	}
}
