package domain

// SessionState is the lifecycle position of the portal session.
type SessionState int

const (
	// SessionHydrating is the initial state, held until the credential
	// store has been read once.
	SessionHydrating SessionState = iota
	SessionUnauthenticated
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionHydrating:
		return "hydrating"
	case SessionUnauthenticated:
		return "unauthenticated"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is a point-in-time copy of the session. User and Token are either
// both set (Authenticated) or both empty.
type Session struct {
	State SessionState
	User  *User
	Token string
}

// Authenticated reports whether the snapshot holds a logged-in user.
func (s Session) Authenticated() bool {
	return s.State == SessionAuthenticated && s.User != nil && s.Token != ""
}
