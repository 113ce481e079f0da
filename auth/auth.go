package auth

import (
	"context"
	"errors"
	"time"
)

// Provider error codes. The session layer maps these to the messages
// shown to the person logging in.
const (
	CodeUserNotFound        = "auth/user-not-found"
	CodeWrongPassword       = "auth/wrong-password"
	CodeInvalidEmail        = "auth/invalid-email"
	CodeTooManyRequests     = "auth/too-many-requests"
	CodeInvalidCredential   = "auth/invalid-credential"
	CodeRequiresRecentLogin = "auth/requires-recent-login"
	CodeNoCurrentUser       = "auth/no-current-user"
)

// CodedError is an authentication failure carrying a machine code the
// caller can branch on.
type CodedError struct {
	Code    string
	Message string
}

func (e *CodedError) Error() string { return e.Message }

// Code extracts the error code from err, or "" when err carries none.
func Code(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// User is the authenticated identity exposed to the application.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}

// Authenticator is the authentication collaborator. Subscribe invokes
// the callback once immediately with the current identity (nil when
// anonymous) and again on every change.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	UpdatePassword(ctx context.Context, newPassword string) error
	CurrentUser() *User
	Subscribe(fn func(*User)) (unsubscribe func())
}
