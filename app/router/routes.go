// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Ankushsph/fuel/app/dto"
	"github.com/Ankushsph/fuel/app/handlers"
	"github.com/Ankushsph/fuel/app/middleware"
	"github.com/Ankushsph/fuel/config"
	"github.com/Ankushsph/fuel/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app           *fiber.App
	cfg           *config.Config
	escrowHandler handlers.EscrowHandlerInterface
	walletHandler handlers.WalletHandlerInterface
	payoutHandler handlers.PayoutHandlerInterface
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.Config,
	escrowHandler handlers.EscrowHandlerInterface,
	walletHandler handlers.WalletHandlerInterface,
	payoutHandler handlers.PayoutHandlerInterface,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Fuel Escrow API",
		ServerHeader: "fuel-escrow",
		ErrorHandler: errorHandler,
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:           app,
		cfg:           cfg,
		escrowHandler: escrowHandler,
		walletHandler: walletHandler,
		payoutHandler: payoutHandler,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := r.app.Group("/api/v1")

	api.Get("/health", r.healthCheck)

	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Server.RateLimitPerMinute,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	transactions := api.Group("/transactions")
	transactions.Post("/", r.escrowHandler.CreateTransaction)
	transactions.Post("/verify", r.escrowHandler.VerifyTransaction)
	transactions.Post("/reject", r.escrowHandler.RejectTransaction)
	transactions.Post("/:id/settle", r.escrowHandler.SettleTransaction)
	transactions.Get("/:id", r.escrowHandler.GetTransaction)
	transactions.Get("/:id/receipt", r.escrowHandler.GetReceipt)

	pumps := api.Group("/pumps")
	pumps.Get("/:id/transactions", r.escrowHandler.ListPumpTransactions)
	pumps.Get("/:id/pending", r.escrowHandler.GetPendingVerifications)
	pumps.Get("/:id/daily-sales", r.escrowHandler.GetDailySales)

	drivers := api.Group("/drivers")
	drivers.Get("/:id/transactions", r.escrowHandler.ListDriverTransactions)
	drivers.Get("/:id/wallet", r.walletHandler.GetDriverWalletBalance)

	wallets := api.Group("/wallets")
	wallets.Post("/topup", r.walletHandler.TopUpWallet)
	wallets.Get("/:id/statement", r.walletHandler.GetWalletStatement)

	owners := api.Group("/owners")
	owners.Get("/:id/wallet", r.walletHandler.GetPumpWalletBalance)
	owners.Get("/:id/settlements", r.payoutHandler.ListSettlements)
	owners.Get("/:id/settlements/summary", r.payoutHandler.GetSettlementSummary)

	settlements := api.Group("/settlements")
	settlements.Post("/", r.payoutHandler.RequestSettlement)
	settlements.Post("/process", r.payoutHandler.ProcessSettlement)

	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.Server.AllowedOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Requested-With",
			"X-Request-ID",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
		},
		MaxAge: 3600,
	}))

	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","status":${status},"latency":"${latency}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	r.app.Use(middleware.Metrics())

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// healthCheck reports service liveness
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: map[string]any{
			"status":    "ok",
			"timestamp": utils.UTCNow().Format(time.RFC3339),
		},
	})
}

// notFoundHandler handles unmatched routes
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "Endpoint not found",
		Error: dto.ErrorDetail{
			Code:    "NOT_FOUND",
			Details: c.Path(),
		},
	})
}

// errorHandler is the application-level Fiber error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fiberErr, ok := err.(*fiber.Error); ok {
		code = fiberErr.Code
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "Request failed",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
		},
	})
}

// Start begins listening on the given address
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the underlying Fiber application
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}
