// Package devbackend is a local stand-in for the payments backend. It speaks
// the REST contract the portal consumes under /api, issues HS256 tokens and
// keeps its ledger in memory.
package devbackend

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/payments-portal/portal/internal/api/handler"
	"github.com/payments-portal/portal/internal/api/middleware"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
	_ "github.com/payments-portal/portal/internal/devbackend/docs"
)

// uploadBodyLimit leaves room for the multipart envelope around a 5 MB file.
const uploadBodyLimit = "6M"

// Deps are the collaborators the backend routes need.
type Deps struct {
	Auth      ports.AuthService
	Ledger    ports.Ledger
	Intake    BatchIntake
	Queue     ports.ImportQueue
	JWTSecret string
	Checks    map[string]handler.Check
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = jsonErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	// --- Dependencies ---
	authHandler := NewAuthHandler(d.Auth)
	ledgerHandler := NewLedgerHandler(d.Ledger, d.Intake, d.Queue, d.Log.With().Str("handler", "ledger").Logger())
	bearer := middleware.BearerAuth(d.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// --- Payments ---
	api.GET("/my/payments", ledgerHandler.MyPayments, bearer)
	api.POST("/payments/upload", ledgerHandler.Upload, bearer, adminOnly, echomiddleware.BodyLimit(uploadBodyLimit))

	// --- Batches (admin) ---
	admin := api.Group("/admin", bearer, adminOnly)
	admin.GET("/batches", ledgerHandler.Batches)
	admin.GET("/batches/:id", ledgerHandler.Batch)

	// --- Docs and health probes (no auth required) ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}

// jsonErrorHandler answers every error with the {"message": ...} envelope
// the portal reads.
func jsonErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Server Error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		} else {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, messageResponse{Message: msg})
	}
}
