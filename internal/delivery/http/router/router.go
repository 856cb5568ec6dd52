// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"feast/internal/delivery/http/middleware"
	"feast/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler      *handler.UserHandler
	OrderHandler     *handler.OrderHandler
	CatererHandler   *handler.CatererHandler
	DishHandler      *handler.DishHandler
	VoucherHandler   *handler.VoucherHandler
	DiscoveryHandler *handler.DiscoveryHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler      *handler.UserHandler
	orderHandler     *handler.OrderHandler
	catererHandler   *handler.CatererHandler
	dishHandler      *handler.DishHandler
	voucherHandler   *handler.VoucherHandler
	discoveryHandler *handler.DiscoveryHandler
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:      params.UserHandler,
		orderHandler:     params.OrderHandler,
		catererHandler:   params.CatererHandler,
		dishHandler:      params.DishHandler,
		voucherHandler:   params.VoucherHandler,
		discoveryHandler: params.DiscoveryHandler,
		authMiddleware:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
	}

	// Public catalog browsing
	e.GET("/caterers", r.catererHandler.List)
	e.GET("/caterers/nearby", r.discoveryHandler.Nearby)
	e.GET("/caterers/:id", r.catererHandler.Get)
	e.GET("/caterers/:id/dishes", r.catererHandler.ListDishes)
	e.GET("/dishes", r.dishHandler.ListByType)
	e.GET("/dishes/:id", r.dishHandler.Get)
	e.GET("/dishes/:id/availability", r.discoveryHandler.Availability)
	e.GET("/vouchers/:code", r.voucherHandler.Get)

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.userHandler.GetProfile)
		userGroup.GET("/orders", r.orderHandler.ListMine)
	}

	// Order routes that require authentication
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.Create)
		orderGroup.GET("/:id", r.orderHandler.Get)
		orderGroup.GET("/readable/:readableId", r.orderHandler.GetByReadableID)
		orderGroup.POST("/:id/pay", r.orderHandler.MarkPaid)
		orderGroup.POST("/:id/cancel", r.orderHandler.Cancel)
		orderGroup.GET("/:id/pickup-code", r.orderHandler.PickupCode)
	}

	// Caterer management requires the "caterer" role
	catererGroup := e.Group("/caterers")
	catererGroup.Use(r.authMiddleware.Authenticate)
	catererGroup.Use(r.authMiddleware.RequireRole("caterer"))
	{
		catererGroup.POST("", r.catererHandler.Create)
		catererGroup.PUT("/:id", r.catererHandler.Update)
		catererGroup.DELETE("/:id", r.catererHandler.Delete)
		catererGroup.GET("/:id/orders", r.orderHandler.ListForCaterer)
	}

	dishGroup := e.Group("/dishes")
	dishGroup.Use(r.authMiddleware.Authenticate)
	dishGroup.Use(r.authMiddleware.RequireRole("caterer"))
	{
		dishGroup.POST("", r.dishHandler.Create)
		dishGroup.PUT("/:id", r.dishHandler.Update)
		dishGroup.DELETE("/:id", r.dishHandler.Delete)
		dishGroup.POST("/media", r.dishHandler.UploadMedia)
	}

	// Back office routes require the "admin" role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole("admin"))
	{
		adminGroup.POST("/vouchers", r.voucherHandler.Generate)
		adminGroup.PUT("/users/:id/allow", r.userHandler.SetAllow)
	}
}
