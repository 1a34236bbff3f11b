package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-dashboard/internal/auth"
	"github.com/spec-kit/crm-dashboard/internal/domain"
	"github.com/spec-kit/crm-dashboard/internal/events"
	"github.com/spec-kit/crm-dashboard/internal/observability"
	"github.com/spec-kit/crm-dashboard/internal/repository"
	apperrors "github.com/spec-kit/crm-dashboard/pkg/util"
)

var (
	// ErrValidation marks a login attempt with an empty email or password.
	ErrValidation = errors.New("email and password are required")
	// ErrLoginInProgress marks a login rejected because another one is pending.
	ErrLoginInProgress = errors.New("login already in progress")
)

const (
	msgValidation         = "Email and password are required"
	msgInvalidCredentials = "Invalid email for the selected role"
	msgLoginFailed        = "Unable to sign in right now"
)

// Listener is called with the new snapshot after every state change.
type Listener func(domain.AuthState)

// SessionManagerDeps bundles collaborators of the session manager.
type SessionManagerDeps struct {
	Store    repository.SessionStore
	Verifier auth.Verifier
	Events   events.Dispatcher
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// SessionManager is the single owner of who is logged in. It is the only
// writer of the session store.
type SessionManager struct {
	store    repository.SessionStore
	verifier auth.Verifier
	events   events.Dispatcher
	metrics  *observability.Metrics
	logger   *zap.Logger

	initOnce sync.Once

	// storeMu is taken before mu, never after.
	storeMu sync.Mutex

	mu          sync.Mutex
	session     *domain.Session
	loading     bool
	errMsg      string
	initialized bool
	cancelLogin context.CancelFunc

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewSessionManager builds a manager in the initializing state. Call Init to restore the persisted session.
func NewSessionManager(deps SessionManagerDeps) *SessionManager {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		store:     deps.Store,
		verifier:  deps.Verifier,
		events:    deps.Events,
		metrics:   deps.Metrics,
		logger:    logger,
		loading:   true,
		listeners: make(map[int]Listener),
	}
}

// Init restores the persisted session. Only the first call has any effect.
func (m *SessionManager) Init(ctx context.Context) {
	m.initOnce.Do(func() {
		restored := m.store.Load(ctx)

		m.mu.Lock()
		m.session = restored
		m.loading = false
		m.initialized = true
		snap := m.snapshotLocked()
		m.mu.Unlock()

		m.logger.Info("session restored",
			zap.String("status", string(snap.Status())),
		)
		m.notify(snap)
		m.changed(ctx, domain.AuthStatusInitializing, snap, "restore")
	})
}

// State returns a copy of the current auth state.
func (m *SessionManager) State() domain.AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn for state changes and returns a func that removes it.
func (m *SessionManager) Subscribe(fn Listener) func() {
	m.lmu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.lmu.Unlock()

	return func() {
		m.lmu.Lock()
		delete(m.listeners, id)
		m.lmu.Unlock()
	}
}

// Login verifies the credentials for role and, on success, persists and
// activates the resulting session. Only one login may be pending at a
// time; a second call is rejected. Validation and credential failures are
// recorded in the state error as well as returned. If ctx is cancelled,
// or Logout runs while verification is pending, the attempt is abandoned
// without touching the session or the error.
func (m *SessionManager) Login(ctx context.Context, email, password string, role domain.Role) (domain.Session, error) {
	m.Init(ctx)

	email = strings.TrimSpace(email)

	m.mu.Lock()
	if m.cancelLogin != nil {
		m.mu.Unlock()
		m.metrics.RecordLogin(apperrors.CodeLoginInProgress)
		return domain.Session{}, apperrors.NewLoginInProgress(ErrLoginInProgress)
	}

	if email == "" || password == "" {
		m.errMsg = msgValidation
		snap := m.snapshotLocked()
		m.mu.Unlock()

		m.notify(snap)
		m.failed(ctx, email, role, apperrors.CodeValidation)
		return domain.Session{}, apperrors.NewDomainError(apperrors.CodeValidation, msgValidation,
			http.StatusBadRequest, map[string]any{"email": email != "", "password": password != ""}).Wrap(ErrValidation)
	}

	loginCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.cancelLogin = cancel
	m.loading = true
	m.errMsg = ""
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	started := time.Now()
	session, verifyErr := m.verifier.Verify(loginCtx, email, password, role)

	// Store writes are serialized by storeMu and never run under mu.
	saved := false
	releaseStore := func() {}
	if verifyErr == nil && loginCtx.Err() == nil {
		m.storeMu.Lock()
		releaseStore = m.storeMu.Unlock
		if err := m.store.Save(ctx, session); err != nil {
			m.logger.Warn("persist session failed; continuing with in-memory session", zap.Error(err))
		} else {
			saved = true
		}
	}

	m.mu.Lock()
	m.cancelLogin = nil
	m.loading = false
	from := m.snapshotLocked().Status()

	if err := loginCtx.Err(); err != nil {
		snap = m.snapshotLocked()
		m.mu.Unlock()
		if saved {
			m.restoreStore(ctx, snap.Session)
		}
		releaseStore()
		m.notify(snap)
		m.logger.Info("login abandoned", zap.String("role", string(role)), zap.Error(err))
		return domain.Session{}, err
	}

	var result error
	switch {
	case verifyErr == nil:
		active := session
		m.session = &active
		m.errMsg = ""
	case errors.Is(verifyErr, auth.ErrInvalidCredentials):
		m.errMsg = msgInvalidCredentials
		result = apperrors.NewInvalidCredentials(msgInvalidCredentials, verifyErr)
	default:
		m.errMsg = msgLoginFailed
		result = apperrors.NewInternalError(verifyErr)
	}
	snap = m.snapshotLocked()
	m.mu.Unlock()
	releaseStore()

	m.notify(snap)
	if result != nil {
		m.failed(ctx, email, role, apperrors.ToDomainError(result).Code)
		if apperrors.ToDomainError(result).HTTPStatus >= 500 {
			m.logger.Error("login verification failed", zap.String("role", string(role)), zap.Error(verifyErr))
		}
		return domain.Session{}, result
	}

	m.metrics.RecordLogin("success")
	m.logger.Info("login succeeded",
		zap.String("session_id", session.ID),
		zap.String("role", string(session.Role)),
		zap.Duration("elapsed", time.Since(started)),
	)
	m.changed(ctx, from, snap, "login")
	return session, nil
}

// Logout clears the persisted and active session. It never fails and is
// idempotent. A pending login is cancelled.
func (m *SessionManager) Logout(ctx context.Context) {
	m.Init(ctx)

	m.mu.Lock()
	if m.cancelLogin != nil {
		m.cancelLogin()
	}
	m.mu.Unlock()

	m.storeMu.Lock()
	m.mu.Lock()
	from := m.snapshotLocked().Status()
	dirty := m.session != nil || m.errMsg != ""
	m.session = nil
	m.errMsg = ""
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("clear persisted session failed", zap.Error(err))
	}
	m.storeMu.Unlock()

	if !dirty {
		return
	}
	m.notify(snap)
	m.changed(ctx, from, snap, "logout")
}

// restoreStore rewrites the persisted record to match the in-memory session
// after a login that saved but was abandoned. Caller holds storeMu.
func (m *SessionManager) restoreStore(ctx context.Context, current *domain.Session) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if current != nil {
		err = m.store.Save(ctx, *current)
	} else {
		err = m.store.Clear(ctx)
	}
	if err != nil {
		m.logger.Warn("restore persisted session failed", zap.Error(err))
	}
}

func (m *SessionManager) snapshotLocked() domain.AuthState {
	var session *domain.Session
	if m.session != nil {
		cp := *m.session
		session = &cp
	}
	if !m.initialized {
		return domain.AuthState{Session: session, Loading: m.loading, Error: m.errMsg}
	}
	return domain.NewAuthState(session, m.loading, m.errMsg)
}

func (m *SessionManager) notify(snap domain.AuthState) {
	m.lmu.Lock()
	listeners := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.lmu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (m *SessionManager) changed(ctx context.Context, from domain.AuthStatus, snap domain.AuthState, reason string) {
	payload := events.SessionChangedPayload{From: from, To: snap.Status(), Reason: reason}
	if snap.Session != nil {
		payload.SessionID = snap.Session.ID
		payload.Role = snap.Session.Role
	}
	m.publish(ctx, events.EventSessionChanged, payload)
}

func (m *SessionManager) failed(ctx context.Context, email string, role domain.Role, code string) {
	m.metrics.RecordLogin(code)
	m.publish(ctx, events.EventLoginFailed, events.LoginFailedPayload{Email: email, Role: role, Code: code})
}

func (m *SessionManager) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if m.events == nil {
		return
	}
	_ = m.events.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
