package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/payments-portal/portal/internal/api/metrics"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
)

// Outcome is what a guard wants done with a request.
type Outcome int

const (
	// Render lets the wrapped page handle the request.
	Render Outcome = iota
	// Loading shows a placeholder until the session is known.
	Loading
	// Redirect sends the browser to Decision.Target.
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is a guard's verdict for one session snapshot.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Guard decides access from a session snapshot alone. Implementations must
// not mutate anything.
type Guard interface {
	Name() string
	Decide(s domain.Session) Decision
}

// AuthenticatedGuard admits any signed-in user.
type AuthenticatedGuard struct {
	LoginPath string
}

func (AuthenticatedGuard) Name() string { return "authenticated" }

func (g AuthenticatedGuard) Decide(s domain.Session) Decision {
	switch {
	case s.State == domain.SessionHydrating:
		return Decision{Outcome: Loading}
	case !s.Authenticated():
		return Decision{Outcome: Redirect, Target: g.LoginPath}
	default:
		return Decision{Outcome: Render}
	}
}

// AdminGuard admits admins only. Signed-in non-admins are sent to their own
// home page rather than to the login page.
type AdminGuard struct {
	LoginPath    string
	NonAdminHome string
}

func (AdminGuard) Name() string { return "admin" }

func (g AdminGuard) Decide(s domain.Session) Decision {
	d := AuthenticatedGuard{LoginPath: g.LoginPath}.Decide(s)
	if d.Outcome != Render {
		return d
	}
	if !s.User.IsAdmin() {
		return Decision{Outcome: Redirect, Target: g.NonAdminHome}
	}
	return d
}

// loadingPage refreshes itself until the session has been restored.
const loadingPage = `<!doctype html>
<html lang="en"><head><meta charset="utf-8"><meta http-equiv="refresh" content="1">
<title>Loading</title></head>
<body><p class="loading">Loading…</p></body></html>`

// Protect runs guard against the current session before every request.
func Protect(guard Guard, sessions ports.SessionView) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := guard.Decide(sessions.Snapshot())
			metrics.GuardDecisionsTotal.WithLabelValues(guard.Name(), d.Outcome.String()).Inc()

			switch d.Outcome {
			case Loading:
				c.Response().Header().Set("Cache-Control", "no-store")
				return c.HTML(http.StatusOK, loadingPage)
			case Redirect:
				c.Response().Header().Set("Cache-Control", "no-store")
				return c.Redirect(http.StatusSeeOther, d.Target)
			default:
				return next(c)
			}
		}
	}
}
