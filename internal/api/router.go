package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/api/handler"
	"github.com/payments-portal/portal/internal/api/middleware"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/pkg/config"
)

// uploadBodyLimit leaves room for the multipart envelope around a 5 MB file.
const uploadBodyLimit = "6M"

// Deps are the collaborators the portal routes need.
type Deps struct {
	Routes   config.RoutesConfig
	Sessions ports.SessionService
	Payments ports.PaymentsGateway
	Renderer echo.Renderer
	Checks   map[string]handler.Check
	Log      zerolog.Logger
	// Registry receives the HTTP server metrics and backs /metrics. It
	// defaults to the prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = d.Renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Sessions, d.Routes)
	paymentsHandler := handler.NewPaymentsHandler(d.Sessions, d.Payments, d.Log.With().Str("handler", "payments").Logger())
	adminHandler := handler.NewAdminHandler(d.Sessions, d.Payments, d.Log.With().Str("handler", "admin").Logger())

	requireUser := middleware.Protect(middleware.AuthenticatedGuard{LoginPath: d.Routes.LoginPath}, d.Sessions)
	requireAdmin := middleware.Protect(middleware.AdminGuard{
		LoginPath:    d.Routes.LoginPath,
		NonAdminHome: d.Routes.NonAdminHome,
	}, d.Sessions)

	// --- Public pages ---
	e.GET(d.Routes.LoginPath, authHandler.LoginPage)
	e.POST(d.Routes.LoginPath, authHandler.Login)
	e.GET("/register", authHandler.RegisterPage)
	e.POST("/register", authHandler.Register)
	e.POST("/logout", authHandler.Logout)

	// --- Signed-in users ---
	e.GET("/user/home", paymentsHandler.MyPayments, requireUser)

	// --- Admins ---
	e.GET("/", adminHandler.UploadPage, requireAdmin)
	admin := e.Group("/admin", requireAdmin)
	admin.GET("/upload", adminHandler.UploadPage)
	admin.POST("/upload", adminHandler.Upload, echomiddleware.BodyLimit(uploadBodyLimit))
	admin.GET("/upload/sample.csv", adminHandler.SampleCSV)
	admin.GET("/batches", adminHandler.Batches)
	admin.GET("/batches/:id", adminHandler.Batch)

	// --- Health probes and metrics (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	// Any other path shows the sign-in page.
	e.RouteNotFound("/*", authHandler.LoginPage)

	return e
}

// requestLogger feeds echo's request log into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
