package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/api/metrics"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
)

const (
	loginFailedMessage    = "Login failed"
	registerFailedMessage = "Something went wrong."
)

// SessionManager owns the portal session. It is the only component that
// mutates session state; route guards and the request client only read it.
//
// The state starts as Hydrating and leaves it exactly once, either through
// Hydrate or through an earlier Login/Logout.
type SessionManager struct {
	gateway ports.AuthGateway
	store   ports.CredentialStore
	log     zerolog.Logger

	// writeMu serialises mutations so that the store and memory always
	// agree on the last writer. It is held across store I/O but never
	// across backend calls.
	writeMu sync.Mutex

	mu    sync.RWMutex
	state domain.SessionState
	user  *domain.User
	token string

	hydrateOnce sync.Once
	hydrated    chan struct{}
}

// NewSessionManager returns a manager in the Hydrating state.
func NewSessionManager(gateway ports.AuthGateway, store ports.CredentialStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		gateway:  gateway,
		store:    store,
		log:      log,
		state:    domain.SessionHydrating,
		hydrated: make(chan struct{}),
	}
}

// Hydrate rebuilds the in-memory session from the credential store. It runs
// once; later calls return immediately. It never fails: anything short of a
// valid token and user pair leaves the session unauthenticated.
func (m *SessionManager) Hydrate(ctx context.Context) {
	m.hydrateOnce.Do(func() {
		defer close(m.hydrated)

		m.writeMu.Lock()
		defer m.writeMu.Unlock()

		token, user, ok := m.store.Load(ctx)

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state != domain.SessionHydrating {
			// A login or logout completed first and already wrote the store.
			return
		}
		if !ok {
			m.setUnauthenticatedLocked()
			m.log.Info().Msg("no stored credential, session unauthenticated")
			return
		}
		m.setAuthenticatedLocked(token, user)
		m.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("session restored from credential store")
	})
}

// Hydrated returns a channel that is closed once Hydrate has completed.
func (m *SessionManager) Hydrated() <-chan struct{} {
	return m.hydrated
}

// Snapshot returns a copy of the current session.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := domain.Session{State: m.state, Token: m.token}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// CurrentToken is queried by the request client before every call. It
// returns "" when no session is established.
func (m *SessionManager) CurrentToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Login authenticates against the backend, persists the credential, and
// only then switches the session to Authenticated. On any failure the
// session and the stored credential are left exactly as they were.
func (m *SessionManager) Login(ctx context.Context, email, password string) (domain.User, error) {
	// 1. Ask the backend; no lock is held while the call is in flight.
	res, err := m.gateway.Login(ctx, email, password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failed").Inc()
		m.log.Warn().Err(err).Str("email", email).Msg("login rejected")
		return domain.User{}, authFailure("login", loginFailedMessage, err)
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	// 2. Persist before touching memory so a failed write changes nothing.
	if err := m.store.Save(ctx, res.Token, res.User); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failed").Inc()
		m.log.Error().Err(err).Msg("failed to persist credential")
		return domain.User{}, authFailure("login", loginFailedMessage, fmt.Errorf("persist credential: %w", err))
	}

	// 3. Commit the new session; the request client picks the token up on
	// its next call.
	m.mu.Lock()
	m.setAuthenticatedLocked(res.Token, res.User)
	m.mu.Unlock()

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	m.log.Info().Int64("user_id", res.User.ID).Str("role", string(res.User.Role)).Msg("login succeeded")
	return res.User, nil
}

// Register creates an account. It never establishes a session: the caller
// is expected to send the user to the login page afterwards.
func (m *SessionManager) Register(ctx context.Context, in ports.RegisterInput) error {
	if err := m.gateway.Register(ctx, in); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failed").Inc()
		m.log.Warn().Err(err).Str("email", in.Email).Msg("registration rejected")
		return authFailure("register", registerFailedMessage, err)
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	m.log.Info().Str("email", in.Email).Msg("account registered")
	return nil
}

// Logout drops the session, the stored credential, and the request
// client's credential. It always succeeds; a store that cannot be cleared
// is logged and left for the next logout or login to overwrite.
func (m *SessionManager) Logout(ctx context.Context) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	var userID int64
	if m.user != nil {
		userID = m.user.ID
	}
	m.setUnauthenticatedLocked()
	m.mu.Unlock()

	// The page request may already be cancelled; clearing must still happen.
	if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
		m.log.Error().Err(err).Msg("failed to clear credential store")
	}
	m.log.Info().Int64("user_id", userID).Msg("logged out")
}

func (m *SessionManager) setAuthenticatedLocked(token string, user domain.User) {
	u := user
	m.user = &u
	m.token = token
	m.state = domain.SessionAuthenticated
	metrics.SessionTransitionsTotal.WithLabelValues(domain.SessionAuthenticated.String()).Inc()
}

func (m *SessionManager) setUnauthenticatedLocked() {
	m.user = nil
	m.token = ""
	m.state = domain.SessionUnauthenticated
	metrics.SessionTransitionsTotal.WithLabelValues(domain.SessionUnauthenticated.String()).Inc()
}

// authFailure prefers the backend's own message and falls back to a generic
// one for transport and decoding failures.
func authFailure(op, fallback string, err error) *domain.AuthError {
	msg := fallback
	var be *domain.BackendError
	if errors.As(err, &be) && be.Message != "" {
		msg = be.Message
	}
	return &domain.AuthError{Op: op, Message: msg, Err: err}
}
