package auth

import (
	"context"
	"log"
)

// Mailer delivers password reset tokens. The default implementation
// only logs them; wire a real provider in production.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes the reset token to the process log instead of
// sending mail. Useful for local development.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	log.Printf("password reset requested for %s, token: %s", email, token)
	return nil
}
