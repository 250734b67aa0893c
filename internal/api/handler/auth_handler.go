package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/payments-portal/portal/internal/api/view"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/pkg/config"
)

const registeredNotice = "Your account has been registered successfully."

// AuthHandler serves the login, registration and logout pages.
type AuthHandler struct {
	sessions ports.SessionService
	routes   config.RoutesConfig
}

func NewAuthHandler(sessions ports.SessionService, routes config.RoutesConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, routes: routes}
}

type loginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Name     string `form:"name"     validate:"required,max=255"`
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// LoginPage renders the sign-in form. It is also the fallback for unknown
// routes.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	p := page(h.sessions, "Sign in")
	if c.QueryParam("registered") != "" {
		p.Notice = registeredNotice
	}
	return render(c, http.StatusOK, view.PageLogin, p)
}

// Login signs the operator in and sends admins to the upload page and
// everyone else to their payments.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.loginFailed(c, http.StatusBadRequest, form, "Invalid form submission.")
	}
	if err := c.Validate(&form); err != nil {
		return h.loginFailed(c, http.StatusUnprocessableEntity, form, err.Error())
	}

	user, err := h.sessions.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			return h.loginFailed(c, http.StatusUnauthorized, form, authErr.Message)
		}
		return err
	}

	target := h.routes.NonAdminHome
	if user.IsAdmin() {
		target = h.routes.AdminHome
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func (h *AuthHandler) loginFailed(c echo.Context, code int, form loginForm, msg string) error {
	p := page(h.sessions, "Sign in")
	p.Error = msg
	p.Data = loginForm{Email: form.Email}
	return render(c, code, view.PageLogin, p)
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return render(c, http.StatusOK, view.PageRegister, page(h.sessions, "Create Account"))
}

// Register creates the account and sends the operator to the login page.
// No session is started.
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return h.registerFailed(c, http.StatusBadRequest, form, "Invalid form submission.")
	}
	if err := c.Validate(&form); err != nil {
		return h.registerFailed(c, http.StatusUnprocessableEntity, form, err.Error())
	}

	err := h.sessions.Register(c.Request().Context(), ports.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			return h.registerFailed(c, http.StatusUnprocessableEntity, form, authErr.Message)
		}
		return err
	}

	return c.Redirect(http.StatusSeeOther, h.routes.LoginPath+"?registered=1")
}

func (h *AuthHandler) registerFailed(c echo.Context, code int, form registerForm, msg string) error {
	p := page(h.sessions, "Create Account")
	p.Error = msg
	p.Data = registerForm{Name: form.Name, Email: form.Email}
	return render(c, code, view.PageRegister, p)
}

// Logout always ends on the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, h.routes.LoginPath)
}
