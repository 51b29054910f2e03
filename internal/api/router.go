package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/storefront/commerce-api/internal/api/handler"
	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/core/service"
	"github.com/storefront/commerce-api/internal/infrastructure/config"
	mongodb "github.com/storefront/commerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/storefront/commerce-api/internal/infrastructure/db/redis"
)

// Dependencies carries the process-level resources the router wires into
// repositories, services, and handlers. Everything below this struct is
// constructed inside NewRouter.
type Dependencies struct {
	DB       *mongo.Database
	Redis    *redis.Client
	Payments ports.PaymentGateway
	Mail     ports.MailDispatcher
	Config   *config.Config
	Log      zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storefront"))
	e.Use(middleware.Identity(deps.Config.AppSecret))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(deps.DB)
	itemRepo := mongodb.NewItemRepository(deps.DB)
	cartRepo := mongodb.NewCartRepository(deps.DB)
	orderRepo := mongodb.NewOrderRepository(deps.DB)
	reconRepo := mongodb.NewReconciliationRepository(deps.DB)
	idemStore := redisdb.NewIdempotencyStore(deps.Redis)
	guard := redisdb.NewCheckoutGuard(deps.Redis)

	// --- Services ---
	authService := service.NewAuthService(userRepo, deps.Mail, deps.Config.AppSecret, deps.Config.FrontendURL, 0, deps.Log)
	userService := service.NewUserService(userRepo, deps.Log)
	itemService := service.NewItemService(itemRepo, userRepo, deps.Log)
	cartService := service.NewCartService(cartRepo, itemRepo, deps.Log)
	orderService := service.NewOrderService(orderRepo, userRepo, deps.Log)
	checkoutService := service.NewCheckoutService(
		userRepo, cartService, orderRepo, reconRepo,
		deps.Payments, idemStore, guard,
		deps.Config.Stripe.Currency, deps.Config.Stripe.ChargeTimeout, deps.Log,
	)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, userService)
	itemHandler := handler.NewItemHandler(itemService)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	orderHandler := handler.NewOrderHandler(orderService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Redis)

	// --- Auth & session ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/signin", authHandler.Signin)
	e.POST("/auth/signout", authHandler.Signout)
	e.POST("/auth/request-reset", authHandler.RequestReset)
	e.POST("/auth/reset-password", authHandler.ResetPassword)
	e.GET("/me", authHandler.Me)

	// --- Catalog: public reads, signed-in writes ---
	items := e.Group("/v1/items")
	items.GET("", itemHandler.List)
	items.GET("/:id", itemHandler.Get)
	items.POST("", itemHandler.Create, middleware.RequireSignIn())
	items.PATCH("/:id", itemHandler.Update, middleware.RequireSignIn())
	items.DELETE("/:id", itemHandler.Delete, middleware.RequireSignIn())

	// --- Cart ---
	cart := e.Group("/v1/cart", middleware.RequireSignIn())
	cart.GET("", cartHandler.Show)
	cart.POST("", cartHandler.Add)
	cart.DELETE("/:id", cartHandler.Remove)

	// --- Checkout & orders ---
	e.POST("/v1/checkout", checkoutHandler.Checkout, middleware.RequireSignIn())
	orders := e.Group("/v1/orders", middleware.RequireSignIn())
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)

	// --- User administration ---
	users := e.Group("/v1/users", middleware.RequireSignIn())
	users.GET("", userHandler.List)
	users.PUT("/:id/permissions", userHandler.UpdatePermissions)

	// --- Probes, metrics, docs ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
