package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/payments-portal/portal/internal/api/view"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
)

// page starts a view.Page for the current session.
func page(sessions ports.SessionView, title string) view.Page {
	return view.Page{Title: title, User: sessions.Snapshot().User}
}

// render writes a page and marks it uncacheable; every page depends on the
// session.
func render(c echo.Context, code int, name string, p view.Page) error {
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Render(code, name, p)
}

// backendMessage returns the backend's own message when it sent one.
func backendMessage(err error, fallback string) string {
	var be *domain.BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

// backendStatus picks the status for a page whose backend call failed.
func backendStatus(err error) int {
	var be *domain.BackendError
	if errors.As(err, &be) && be.StatusCode == http.StatusUnauthorized {
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}
