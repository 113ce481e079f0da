package auth

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"studio/docstore"
	"studio/types"
)

const resetCollection = "passwordResets"

// Defaults for throttling and recency checks.
const (
	DefaultMaxFailedAttempts = 5
	DefaultFailureWindow     = 15 * time.Minute
	DefaultRecentLoginWindow = 30 * time.Minute
	DefaultResetTokenTTL     = time.Hour
)

// Config tunes the document-store backed authenticator. Zero values
// fall back to the defaults above.
type Config struct {
	MaxFailedAttempts int
	FailureWindow     time.Duration
	RecentLoginWindow time.Duration
	ResetTokenTTL     time.Duration
}

// Service implements Authenticator on top of the document store: one
// user document per account, bcrypt password hashes, reset tokens in
// their own collection. It also tracks the signed-in identity for the
// process and fans identity changes out to subscribers.
type Service struct {
	store  docstore.Store
	mailer Mailer
	cfg    Config

	mu         sync.Mutex
	current    *User
	signedInAt time.Time
	failures   map[string]*failureWindow
	subs       map[int]func(*User)
	nextSub    int
}

type failureWindow struct {
	count int
	since time.Time
}

// NewService creates an authenticator over the given store.
func NewService(store docstore.Store, mailer Mailer, cfg Config) *Service {
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = DefaultMaxFailedAttempts
	}
	if cfg.FailureWindow <= 0 {
		cfg.FailureWindow = DefaultFailureWindow
	}
	if cfg.RecentLoginWindow <= 0 {
		cfg.RecentLoginWindow = DefaultRecentLoginWindow
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = DefaultResetTokenTTL
	}
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &Service{
		store:    store,
		mailer:   mailer,
		cfg:      cfg,
		failures: make(map[string]*failureWindow),
		subs:     make(map[int]func(*User)),
	}
}

// CreateUser registers a new account. Used to bootstrap the studio
// admin; there is no public sign-up.
func (s *Service) CreateUser(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return "", &CodedError{Code: CodeInvalidEmail, Message: "Invalid email address"}
	}
	if existing, err := s.findUser(ctx, email); err != nil {
		return "", err
	} else if existing != nil {
		return "", fmt.Errorf("account %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.Create(ctx, types.CollectionUsers, docstore.Document{
		"email":        email,
		"passwordHash": string(hash),
	})
}

// HasUsers reports whether any account exists yet.
func (s *Service) HasUsers(ctx context.Context) (bool, error) {
	docs, err := s.store.List(ctx, types.CollectionUsers, docstore.Order{Field: "email"})
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, &CodedError{Code: CodeInvalidEmail, Message: "Invalid email address"}
	}
	if s.throttled(email) {
		return nil, &CodedError{Code: CodeTooManyRequests, Message: "Too many failed attempts"}
	}

	doc, err := s.findUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		s.recordFailure(email)
		return nil, &CodedError{Code: CodeUserNotFound, Message: "No account found"}
	}

	hash, _ := doc["passwordHash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		s.recordFailure(email)
		return nil, &CodedError{Code: CodeWrongPassword, Message: "Wrong password"}
	}

	id, _ := doc[docstore.FieldID].(string)
	now := time.Now().UTC()
	if err := s.store.Update(ctx, types.CollectionUsers, id, docstore.Document{
		"lastLoginAt": docstore.Stamp(now),
	}); err != nil {
		// Login still succeeds; the stamp is informational.
		log.Printf("failed to record last login for %s: %v", email, err)
	}

	user := &User{ID: id, Email: email, LastLoginAt: now}

	s.mu.Lock()
	delete(s.failures, email)
	s.current = user
	s.signedInAt = now
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, user)
	return user, nil
}

func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.signedInAt = time.Time{}
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, nil)
	return nil
}

func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	doc, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}
	if doc == nil {
		return &CodedError{Code: CodeUserNotFound, Message: "No account found"}
	}

	token := uuid.NewString()
	expires := time.Now().UTC().Add(s.cfg.ResetTokenTTL)
	if err := s.store.Set(ctx, resetCollection, token, docstore.Document{
		"email":     email,
		"expiresAt": docstore.Stamp(expires),
	}); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return s.mailer.SendPasswordReset(ctx, email, token)
}

func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	doc, err := s.store.Get(ctx, resetCollection, token)
	if err == docstore.ErrNotFound {
		return &CodedError{Code: CodeInvalidCredential, Message: "Invalid or expired reset token"}
	}
	if err != nil {
		return err
	}

	expiresAt, _ := doc["expiresAt"].(string)
	if expiresAt < docstore.Stamp(time.Now()) {
		_ = s.store.Delete(ctx, resetCollection, token)
		return &CodedError{Code: CodeInvalidCredential, Message: "Invalid or expired reset token"}
	}

	email, _ := doc["email"].(string)
	if err := s.setPassword(ctx, email, newPassword); err != nil {
		return err
	}
	return s.store.Delete(ctx, resetCollection, token)
}

func (s *Service) UpdatePassword(ctx context.Context, newPassword string) error {
	s.mu.Lock()
	current := s.current
	signedInAt := s.signedInAt
	s.mu.Unlock()

	if current == nil {
		return &CodedError{Code: CodeNoCurrentUser, Message: "No user logged in"}
	}
	if time.Since(signedInAt) > s.cfg.RecentLoginWindow {
		return &CodedError{Code: CodeRequiresRecentLogin, Message: "Credential too old, sign in again"}
	}
	return s.setPassword(ctx, current.Email, newPassword)
}

func (s *Service) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) Subscribe(fn func(*User)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := s.current
	s.mu.Unlock()

	// First call happens immediately with the current identity.
	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Service) setPassword(ctx context.Context, email, newPassword string) error {
	doc, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}
	if doc == nil {
		return &CodedError{Code: CodeUserNotFound, Message: "No account found"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	id, _ := doc[docstore.FieldID].(string)
	return s.store.Update(ctx, types.CollectionUsers, id, docstore.Document{
		"passwordHash": string(hash),
	})
}

// findUser scans the users collection for the address. The collection
// holds a handful of accounts at most, so a scan is fine.
func (s *Service) findUser(ctx context.Context, email string) (docstore.Document, error) {
	docs, err := s.store.List(ctx, types.CollectionUsers, docstore.Order{Field: "email"})
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	for _, doc := range docs {
		if addr, _ := doc["email"].(string); addr == email {
			return doc, nil
		}
	}
	return nil, nil
}

func (s *Service) throttled(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.failures[email]
	if !ok {
		return false
	}
	if time.Since(w.since) > s.cfg.FailureWindow {
		delete(s.failures, email)
		return false
	}
	return w.count >= s.cfg.MaxFailedAttempts
}

func (s *Service) recordFailure(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.failures[email]
	if !ok || time.Since(w.since) > s.cfg.FailureWindow {
		s.failures[email] = &failureWindow{count: 1, since: time.Now()}
		return
	}
	w.count++
}

// snapshotSubs must be called with s.mu held.
func (s *Service) snapshotSubs() []func(*User) {
	out := make([]func(*User), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(*User), user *User) {
	for _, fn := range subs {
		fn(user)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".") && !strings.ContainsAny(email, " \t")
}
