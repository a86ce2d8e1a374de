package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/salesdesk/crm-api/internal/api/handler"
	"github.com/salesdesk/crm-api/internal/api/middleware"
	"github.com/salesdesk/crm-api/internal/core/policy"
	"github.com/salesdesk/crm-api/internal/core/ports"
	"github.com/salesdesk/crm-api/internal/infrastructure/http/handlers"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Leads      *handler.LeadHandler
	Deals      *handler.DealHandler
	Activities *handler.ActivityHandler
	Accounts   *handler.AccountHandler
	Contacts   *handler.ContactHandler
	Users      *handler.UserHandler
	Dashboard  *handler.DashboardHandler
	Reports    *handler.ReportHandler
	Health     *handlers.HealthHandler
	Readiness  *handlers.ReadinessHandler
}

// RouterConfig carries the transport settings of the router.
type RouterConfig struct {
	CORSAllowOrigins []string
	AuthRateLimitRPS float64
	AuthRateBurst    int
	Swagger          bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig, h Handlers, authenticator ports.Authenticator, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.CORSAllowOrigins,
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, handler.HeaderIdempotencyKey},
		ExposeHeaders: []string{echo.HeaderXRequestID, handler.HeaderReplayed},
	}))
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", h.Health.Liveness)
	e.GET("/health/ready", h.Readiness.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	if cfg.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := e.Group("/api")
	authenticated := middleware.Auth(authenticator)

	// --- Auth routes ---
	auth := api.Group("/auth")
	if limiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateBurst); limiter != nil {
		auth.Use(limiter.Middleware())
	}
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/me", h.Auth.Me, authenticated)

	// --- Records ---
	leads := api.Group("/leads", authenticated)
	leads.GET("", h.Leads.List, middleware.Permit(policy.KindLeads, policy.ActionList))
	leads.POST("", h.Leads.Create, middleware.Permit(policy.KindLeads, policy.ActionCreate))
	leads.GET("/:id", h.Leads.Get)
	leads.PUT("/:id", h.Leads.Update)
	leads.DELETE("/:id", h.Leads.Delete)
	leads.POST("/:id/convert", h.Leads.Convert)

	deals := api.Group("/deals", authenticated)
	deals.GET("/pipeline/summary", h.Deals.PipelineSummary, middleware.Permit(policy.KindDeals, policy.ActionList))
	deals.GET("", h.Deals.List, middleware.Permit(policy.KindDeals, policy.ActionList))
	deals.POST("", h.Deals.Create, middleware.Permit(policy.KindDeals, policy.ActionCreate))
	deals.GET("/:id", h.Deals.Get)
	deals.PUT("/:id", h.Deals.Update)
	deals.DELETE("/:id", h.Deals.Delete)

	activities := api.Group("/activities", authenticated)
	activities.GET("/upcoming/reminders", h.Activities.UpcomingReminders, middleware.Permit(policy.KindActivities, policy.ActionList))
	activities.GET("", h.Activities.List, middleware.Permit(policy.KindActivities, policy.ActionList))
	activities.POST("", h.Activities.Create, middleware.Permit(policy.KindActivities, policy.ActionCreate))
	activities.GET("/:id", h.Activities.Get)
	activities.PUT("/:id", h.Activities.Update)
	activities.DELETE("/:id", h.Activities.Delete)

	accounts := api.Group("/accounts", authenticated)
	accounts.GET("", h.Accounts.List, middleware.Permit(policy.KindAccounts, policy.ActionList))
	accounts.POST("", h.Accounts.Create, middleware.Permit(policy.KindAccounts, policy.ActionCreate))
	accounts.GET("/:id", h.Accounts.Get)
	accounts.PUT("/:id", h.Accounts.Update)
	accounts.DELETE("/:id", h.Accounts.Delete)

	contacts := api.Group("/contacts", authenticated)
	contacts.GET("", h.Contacts.List, middleware.Permit(policy.KindContacts, policy.ActionList))
	contacts.POST("", h.Contacts.Create, middleware.Permit(policy.KindContacts, policy.ActionCreate))
	contacts.GET("/:id", h.Contacts.Get)
	contacts.PUT("/:id", h.Contacts.Update)
	contacts.DELETE("/:id", h.Contacts.Delete, middleware.Permit(policy.KindContacts, policy.ActionDelete))

	// --- Users ---
	users := api.Group("/users", authenticated)
	users.GET("", h.Users.List, middleware.Permit(policy.KindUsers, policy.ActionList))
	users.POST("", h.Users.Create)
	users.GET("/:id", h.Users.Get, middleware.Permit(policy.KindUsers, policy.ActionRead))
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)

	// --- Dashboard and reports ---
	dashboard := api.Group("/dashboard", authenticated, middleware.Permit(policy.KindDashboard, policy.ActionRead))
	dashboard.GET("/stats", h.Dashboard.Stats)
	dashboard.GET("/pipeline", h.Dashboard.Pipeline)
	dashboard.GET("/lead-sources", h.Dashboard.LeadSources)

	reports := api.Group("/reports", authenticated, middleware.Permit(policy.KindReports, policy.ActionReport))
	reports.GET("/sales-performance", h.Reports.SalesPerformance)
	reports.GET("/lead-conversion", h.Reports.LeadConversion)
	reports.GET("/deal-pipeline", h.Reports.DealPipeline)
	reports.GET("/user-productivity", h.Reports.UserProductivity)

	return e
}

// requestLogger emits one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = log.Warn()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
