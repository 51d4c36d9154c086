// Package router sets up the HTTP routing for the application.
package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
)

// maxMultipartMemory caps the in-memory part of receipt uploads.
const maxMultipartMemory = 8 << 20

// reportsPrefix is served without the server write deadline. Report batches
// answer with their tally only after every user was processed.
const reportsPrefix = "/api/v1/reports"

// Controllers groups the HTTP controllers served by the router. A nil
// controller leaves its route group unregistered.
type Controllers struct {
	Health  *controller.HealthController
	Auth    *controller.AuthController
	Expense *controller.ExpenseController
	Trip    *controller.TripController
	Budget  *controller.BudgetController
	Payment *controller.PaymentController
	Report  *controller.ReportController
}

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine          *gin.Engine
	controllers     Controllers
	authRateLimiter *middleware.RateLimiter
	authMiddleware  *middleware.AuthMiddleware
	cronSecret      string
	allowedOrigins  []string
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	controllers Controllers,
	authRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	cronSecret string,
	allowedOrigins []string,
) *Router {
	return &Router{
		controllers:     controllers,
		authRateLimiter: authRateLimiter,
		authMiddleware:  authMiddleware,
		cronSecret:      cronSecret,
		allowedOrigins:  allowedOrigins,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	r.engine.MaxMultipartMemory = maxMultipartMemory
	r.engine.Use(cors.New(r.corsConfig()))

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// Handler wraps the engine for http.Server. Report requests get their write
// deadline cleared so the tally reaches the caller however long the batch runs.
func Handler(engine http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, reportsPrefix) {
			err := http.NewResponseController(w).SetWriteDeadline(time.Time{})
			if err != nil && !errors.Is(err, http.ErrNotSupported) {
				slog.Warn("Failed to clear write deadline", "path", req.URL.Path, "error", err)
			}
		}
		engine.ServeHTTP(w, req)
	})
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(r.allowedOrigins) > 0 {
		cfg.AllowOrigins = r.allowedOrigins
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AddAllowMethods(http.MethodPatch)
	cfg.AddAllowHeaders("Authorization", middleware.CronSecretHeader)
	// Credentials cannot be combined with a wildcard origin.
	cfg.AllowCredentials = !cfg.AllowAllOrigins
	return cfg
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	if r.controllers.Health != nil {
		r.engine.GET("/health", r.controllers.Health.Check)
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	c := r.controllers

	// Auth routes. Credential endpoints share the per-IP limiter.
	if c.Auth != nil && r.authRateLimiter != nil && r.authMiddleware != nil {
		limited := r.authRateLimiter.Middleware()
		auth := v1.Group("/auth")
		{
			auth.POST("/register", limited, c.Auth.Register)
			auth.POST("/login", limited, c.Auth.Login)
			auth.POST("/forgot-password", limited, c.Auth.ForgotPassword)
			auth.POST("/reset-password", limited, c.Auth.ResetPassword)
			auth.POST("/logout", c.Auth.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), c.Auth.Me)
		}
	}

	if r.authMiddleware == nil {
		return
	}

	// Expense routes (require authentication)
	if c.Expense != nil {
		expenses := v1.Group("/expenses")
		expenses.Use(r.authMiddleware.Authenticate())
		{
			expenses.POST("", c.Expense.Create)
			expenses.GET("", c.Expense.List)
			expenses.GET("/statistics", c.Expense.Statistics)
			expenses.GET("/:id", c.Expense.Get)
			expenses.PUT("/:id", c.Expense.Update)
			expenses.DELETE("/:id", c.Expense.Delete)
			expenses.POST("/:id/receipt", c.Expense.UploadReceipt)
			expenses.DELETE("/:id/receipt", c.Expense.RemoveReceipt)
		}
	}

	// Trip routes (require authentication)
	if c.Trip != nil {
		trips := v1.Group("/trips")
		trips.Use(r.authMiddleware.Authenticate())
		{
			trips.POST("", c.Trip.Create)
			trips.GET("", c.Trip.List)
			trips.GET("/:id", c.Trip.Get)
			trips.PUT("/:id", c.Trip.Update)
			trips.DELETE("/:id", c.Trip.Delete)
			trips.GET("/:id/receipts", c.Trip.ListReceipts)
			trips.POST("/:id/receipts", c.Trip.UploadReceipt)
			trips.DELETE("/:id/receipts/:receiptId", c.Trip.DeleteReceipt)
		}
	}

	// Budget routes (require authentication)
	if c.Budget != nil {
		budgets := v1.Group("/budgets")
		budgets.Use(r.authMiddleware.Authenticate())
		{
			budgets.POST("", c.Budget.Create)
			budgets.GET("", c.Budget.List)
			budgets.GET("/:id", c.Budget.Get)
			budgets.PUT("/:id", c.Budget.Update)
			budgets.DELETE("/:id", c.Budget.Delete)
		}
	}

	// Payment routes. Orders and the supporter wall are open to guests.
	if c.Payment != nil {
		payments := v1.Group("/payments")
		{
			payments.POST("/create-order", r.authMiddleware.OptionalAuth(), c.Payment.CreateOrder)
			payments.POST("/verify-payment", c.Payment.Verify)
			payments.GET("/supporters", c.Payment.Supporters)
			payments.GET("", r.authMiddleware.Authenticate(), c.Payment.MyPayments)
		}
	}

	// Report routes. Cron triggers are guarded by the shared secret.
	if c.Report != nil {
		reports := v1.Group("/reports")
		{
			cron := reports.Group("/cron")
			cron.Use(middleware.CronSecret(r.cronSecret))
			{
				cron.POST("/simple-reports", c.Report.TriggerSimple)
				cron.POST("/transport-reports", c.Report.TriggerTransport)
			}
			reports.POST("/me", r.authMiddleware.Authenticate(), c.Report.SendMine)
		}
	}
}
