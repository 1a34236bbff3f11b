package domain

// Session is the authenticated identity currently active in the dashboard.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Valid reports whether the session carries an id and a recognised role.
func (s Session) Valid() bool {
	return s.ID != "" && s.Role.Valid()
}

// AuthStatus is the coarse lifecycle state of the auth state machine.
type AuthStatus string

const (
	AuthStatusInitializing    AuthStatus = "initializing"
	AuthStatusAuthenticated   AuthStatus = "authenticated"
	AuthStatusUnauthenticated AuthStatus = "unauthenticated"
)

// AuthState is a point-in-time snapshot of who is logged in.
type AuthState struct {
	Session *Session
	Loading bool
	Error   string

	initialized bool
}

// NewAuthState returns a state marked as restored from storage.
func NewAuthState(session *Session, loading bool, errMsg string) AuthState {
	return AuthState{Session: session, Loading: loading, Error: errMsg, initialized: true}
}

// IsAuthenticated is derived from the presence of a session.
func (s AuthState) IsAuthenticated() bool {
	return s.Session != nil
}

// Status maps the snapshot onto the auth state machine.
func (s AuthState) Status() AuthStatus {
	switch {
	case !s.initialized:
		return AuthStatusInitializing
	case s.Session != nil:
		return AuthStatusAuthenticated
	default:
		return AuthStatusUnauthenticated
	}
}

// WithoutSession returns a copy of the snapshot with the session dropped.
func (s AuthState) WithoutSession() AuthState {
	s.Session = nil
	return s
}
