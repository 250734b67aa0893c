package handler

import (
	"context"
	"io"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/payments-portal/portal/internal/api/view"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/pkg/config"
)

var testRoutes = config.RoutesConfig{LoginPath: "/login", NonAdminHome: "/user/home", AdminHome: "/admin/upload"}

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := view.New("Payments Portal")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = NewValidator()
	return e
}

type stubSessions struct {
	snapshot   domain.Session
	loginFn    func(ctx context.Context, email, password string) (domain.User, error)
	registerFn func(ctx context.Context, in ports.RegisterInput) error
	loggedOut  bool
}

func (s *stubSessions) Snapshot() domain.Session { return s.snapshot }

func (s *stubSessions) Login(ctx context.Context, email, password string) (domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubSessions) Register(ctx context.Context, in ports.RegisterInput) error {
	return s.registerFn(ctx, in)
}

func (s *stubSessions) Logout(context.Context) { s.loggedOut = true }

type stubPayments struct {
	myPaymentsFn func(ctx context.Context) ([]domain.Payment, error)
	batchesFn    func(ctx context.Context) ([]domain.Batch, error)
	batchFn      func(ctx context.Context, id int64) (*domain.BatchDetail, error)
	uploadFn     func(ctx context.Context, filename string, file io.Reader) error
}

func (s *stubPayments) MyPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.myPaymentsFn(ctx)
}

func (s *stubPayments) Batches(ctx context.Context) ([]domain.Batch, error) {
	if s.batchesFn == nil {
		return []domain.Batch{}, nil
	}
	return s.batchesFn(ctx)
}

func (s *stubPayments) Batch(ctx context.Context, id int64) (*domain.BatchDetail, error) {
	return s.batchFn(ctx, id)
}

func (s *stubPayments) UploadBatch(ctx context.Context, filename string, file io.Reader) error {
	return s.uploadFn(ctx, filename, file)
}

var (
	adminSession = domain.Session{
		State: domain.SessionAuthenticated,
		Token: "T1",
		User:  &domain.User{ID: 1, Name: "Admin", Email: "a@x.com", Role: domain.RoleAdmin},
	}
	userSession = domain.Session{
		State: domain.SessionAuthenticated,
		Token: "T2",
		User:  &domain.User{ID: 2, Name: "User", Email: "u@x.com", Role: domain.RoleUser},
	}
)
