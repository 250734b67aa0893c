package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/payments-portal/portal/internal/core/domain"
)

// RequireRole admits requests whose BearerAuth role is one of roles.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(domain.Role)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"message": "This action is unauthorized."})
			}
			return next(c)
		}
	}
}
