package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/sistema-salt/salt-backend/internal/middleware"
)

// Handlers groups the resource handlers mounted by RegisterRoutes
type Handlers struct {
	Auth          *AuthHandler
	User          *UserHandler
	Category      *CategoryHandler
	Product       *ProductHandler
	Communication *CommunicationHandler
	Financial     *FinancialHandler
	Project       *ProjectHandler
	Task          *TaskHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	requireAuth := authMiddleware.Authenticate()
	throttle := middleware.RateLimitMiddleware(rateLimiter)

	// Auth routes (public, throttled per client IP)
	e.POST("/register", h.Auth.Register, throttle)
	e.POST("/login", h.Auth.Login, throttle)
	e.GET("/me", h.Auth.Me, requireAuth)

	// User routes (protected)
	users := e.Group("/users")
	users.Use(requireAuth)
	users.GET("", h.User.GetUsers)
	users.DELETE("/:id", h.User.DeleteUser, middleware.RequireAdmin())

	// Category routes (protected)
	categories := e.Group("/categories")
	categories.Use(requireAuth)
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	// Product routes (protected)
	products := e.Group("/products")
	products.Use(requireAuth)
	products.POST("", h.Product.CreateProduct)
	products.GET("", h.Product.GetProducts)
	products.PUT("/:id", h.Product.UpdateProduct)
	products.DELETE("/:id", h.Product.DeleteProduct)

	// Communication routes (author or admin may modify)
	communications := e.Group("/communications")
	communications.Use(requireAuth)
	communicationGuard := middleware.RequireOwnerOrAdmin(h.Communication.Lookup)
	communications.POST("", h.Communication.CreateCommunication)
	communications.GET("", h.Communication.GetCommunications)
	communications.PUT("/:id", h.Communication.UpdateCommunication, communicationGuard)
	communications.DELETE("/:id", h.Communication.DeleteCommunication, communicationGuard)

	// Financial routes (author or admin may modify)
	financials := e.Group("/financials")
	financials.Use(requireAuth)
	financialGuard := middleware.RequireOwnerOrAdmin(h.Financial.Lookup)
	financials.POST("", h.Financial.CreateFinancial)
	financials.GET("", h.Financial.GetFinancials)
	financials.GET("/summary", h.Financial.GetSummary)
	financials.PUT("/:id", h.Financial.UpdateFinancial, financialGuard)
	financials.DELETE("/:id", h.Financial.DeleteFinancial, financialGuard)

	// Project routes (protected)
	projects := e.Group("/projects")
	projects.Use(requireAuth)
	projects.POST("", h.Project.CreateProject)
	projects.GET("", h.Project.GetProjects)
	projects.PUT("/:id", h.Project.UpdateProject)
	projects.DELETE("/:id", h.Project.DeleteProject)

	// Task routes (author or admin may modify)
	tasks := e.Group("/tasks")
	tasks.Use(requireAuth)
	taskGuard := middleware.RequireOwnerOrAdmin(h.Task.Lookup)
	tasks.POST("", h.Task.CreateTask)
	tasks.GET("", h.Task.GetTasks)
	tasks.PUT("/:id", h.Task.UpdateTask, taskGuard)
	tasks.DELETE("/:id", h.Task.DeleteTask, taskGuard)
}
