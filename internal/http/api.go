package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todo-backend/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	todos      service.TodoService
	logger     *logrus.Logger
	env        string
	corsOrigin string
}

func NewHandler(users service.UserService, todos service.TodoService, logger *logrus.Logger, env, corsOrigin string) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	return &Handler{
		users:      users,
		todos:      todos,
		logger:     logger,
		env:        env,
		corsOrigin: corsOrigin,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware(h.corsOrigin))

	router.GET("/", h.health)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)

		todos := api.Group("/todos", h.requireAuth())
		todos.GET("", h.listTodos)
		todos.POST("", h.createTodo)
		todos.GET("/:id", h.getTodo)
		todos.PUT("/:id", h.updateTodo)
		todos.DELETE("/:id", h.deleteTodo)

		api.GET("/docs/help", h.help)
	}
}

func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"message":     "Service is healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
		"environment": h.env,
	})
}

func (h *Handler) help(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":   "Todo API - Usage Help",
		"version": "1.0.0",
		"auth": gin.H{
			"type":   "Bearer JWT",
			"header": "Authorization: Bearer <token>",
			"obtain": gin.H{
				"register": "POST /api/auth/register",
				"login":    "POST /api/auth/login",
			},
		},
		"endpoints": gin.H{
			"health": "GET /",
			"todos": gin.H{
				"list":   "GET /api/todos",
				"create": "POST /api/todos",
				"get":    "GET /api/todos/{id}",
				"update": "PUT /api/todos/{id}",
				"delete": "DELETE /api/todos/{id}",
			},
		},
	})
}
