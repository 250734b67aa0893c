package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/api/middleware"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/service"
	"github.com/payments-portal/portal/internal/infrastructure/credstore"
)

// hydratedFrom builds a session manager over a store holding the given
// record (or nothing) and runs hydration.
func hydratedFrom(t *testing.T, token string, user *domain.User) *service.SessionManager {
	t.Helper()
	store := credstore.NewMemoryStore()
	if user != nil {
		if err := store.Save(t.Context(), token, *user); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	m := service.NewSessionManager(nil, store, zerolog.Nop())
	m.Hydrate(t.Context())
	return m
}

func serve(t *testing.T, g middleware.Guard, m *service.SessionManager) (int, string, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	rendered := false
	h := middleware.Protect(g, m)(func(c echo.Context) error {
		rendered = true
		return c.String(http.StatusOK, "wrapped")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec.Code, rec.Header().Get(echo.HeaderLocation), rendered
}

var (
	authGuard  = middleware.AuthenticatedGuard{LoginPath: "/login"}
	adminGuard = middleware.AdminGuard{LoginPath: "/login", NonAdminHome: "/user/home"}
)

func TestScenario_StoredUserCredential(t *testing.T) {
	m := hydratedFrom(t, "abc", &domain.User{ID: 1, Name: "A", Email: "a@x.com", Role: domain.RoleUser})

	if _, _, rendered := serve(t, authGuard, m); !rendered {
		t.Fatalf("authenticated guard should render for a stored user")
	}
	code, loc, rendered := serve(t, adminGuard, m)
	if rendered || code != http.StatusSeeOther || loc != "/user/home" {
		t.Fatalf("admin guard: expected redirect to /user/home, got %d %q rendered=%v", code, loc, rendered)
	}
}

func TestScenario_StoredAdminCredential(t *testing.T) {
	m := hydratedFrom(t, "xyz", &domain.User{ID: 9, Name: "Root", Email: "root@x.com", Role: domain.RoleAdmin})

	if _, _, rendered := serve(t, adminGuard, m); !rendered {
		t.Fatalf("admin guard should render for a stored admin")
	}
}

func TestScenario_NoStoredCredential(t *testing.T) {
	m := hydratedFrom(t, "", nil)

	for name, g := range map[string]middleware.Guard{"authenticated": authGuard, "admin": adminGuard} {
		code, loc, rendered := serve(t, g, m)
		if rendered || code != http.StatusSeeOther || loc != "/login" {
			t.Fatalf("%s guard: expected redirect to /login, got %d %q rendered=%v", name, code, loc, rendered)
		}
	}
}

func TestScenario_BeforeHydration(t *testing.T) {
	m := service.NewSessionManager(nil, credstore.NewMemoryStore(), zerolog.Nop())

	code, loc, rendered := serve(t, adminGuard, m)
	if rendered || code != http.StatusOK || loc != "" {
		t.Fatalf("expected the loading placeholder, got %d %q rendered=%v", code, loc, rendered)
	}
}
