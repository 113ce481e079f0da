package session

import (
	"context"
	"sync"

	"studio/auth"
)

// State of the session. It starts Unknown and resolves to exactly one
// of Authenticated or Anonymous once the authenticator reports the
// current identity; it may flip between those two afterwards but never
// returns to Unknown.
type State string

const (
	StateUnknown       State = "unknown"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Messages shown for coded authentication failures.
var loginMessages = map[string]string{
	auth.CodeUserNotFound:      "No account found with this email",
	auth.CodeWrongPassword:     "Incorrect password",
	auth.CodeInvalidEmail:      "Invalid email address",
	auth.CodeTooManyRequests:   "Too many failed attempts. Please try again later",
	auth.CodeInvalidCredential: "Invalid email or password",
}

var passwordMessages = map[string]string{
	auth.CodeNoCurrentUser:       "No user logged in",
	auth.CodeRequiresRecentLogin: "Please log out and log back in before changing your password",
}

// Manager owns the authenticator subscription and exposes the current
// identity to the rest of the application. Construct with NewManager
// and release with Close.
type Manager struct {
	authn auth.Authenticator

	mu    sync.RWMutex
	state State
	user  *auth.User

	resolved     chan struct{}
	resolvedOnce sync.Once
	unsubscribe  func()
}

// NewManager subscribes to the authenticator. The subscription's
// immediate first callback resolves the Unknown state before NewManager
// returns for in-process authenticators.
func NewManager(authn auth.Authenticator) *Manager {
	m := &Manager{
		authn:    authn,
		state:    StateUnknown,
		resolved: make(chan struct{}),
	}
	m.unsubscribe = authn.Subscribe(m.onAuthChange)
	return m
}

func (m *Manager) onAuthChange(user *auth.User) {
	m.mu.Lock()
	m.user = user
	if user != nil {
		m.state = StateAuthenticated
	} else {
		m.state = StateAnonymous
	}
	m.mu.Unlock()

	m.resolvedOnce.Do(func() { close(m.resolved) })
}

// Close drops the authenticator subscription.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentUser returns the authenticated identity, or nil.
func (m *Manager) CurrentUser() *auth.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// IsAuthenticated reports whether an identity is present. Guards must
// also check Resolved: false here may still mean Unknown.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// Resolved is closed once the initial Unknown state has been decided.
// Protected surfaces must not render before this.
func (m *Manager) Resolved() <-chan struct{} {
	return m.resolved
}

// Login authenticates with email and password. Coded provider failures
// come back with the fixed user-facing message for their code; anything
// else keeps the provider's own message.
func (m *Manager) Login(ctx context.Context, email, password string) (*auth.User, error) {
	user, err := m.authn.SignIn(ctx, email, password)
	if err != nil {
		return nil, mapError(err, loginMessages)
	}
	return user, nil
}

// Logout signs the current identity out.
func (m *Manager) Logout(ctx context.Context) error {
	return m.authn.SignOut(ctx)
}

// ResetPassword asks the authenticator to deliver a reset token.
func (m *Manager) ResetPassword(ctx context.Context, email string) error {
	return m.authn.SendPasswordReset(ctx, email)
}

// ConfirmPasswordReset exchanges a delivered reset token for a new
// password.
func (m *Manager) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return m.authn.ConfirmPasswordReset(ctx, token, newPassword)
}

// UpdatePassword changes the signed-in account's password. Fails with
// "No user logged in" when anonymous and with a distinct
// re-authentication message when the session is stale.
func (m *Manager) UpdatePassword(ctx context.Context, newPassword string) error {
	if err := m.authn.UpdatePassword(ctx, newPassword); err != nil {
		return mapError(err, passwordMessages)
	}
	return nil
}

func mapError(err error, messages map[string]string) error {
	code := auth.Code(err)
	if msg, ok := messages[code]; ok {
		return &auth.CodedError{Code: code, Message: msg}
	}
	return err
}
