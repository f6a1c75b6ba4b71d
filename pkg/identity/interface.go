package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAccountNotFound    = errors.New("account not found")
	ErrWeakPassword       = errors.New("password is too weak")
)

// Session is the verified identity behind a request.
type Session struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

type Account struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

type Token struct {
	UID       string    `json:"uid"`
	IDToken   string    `json:"id_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Provider is the identity service the rest of the system authenticates
// against.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Account, error)
	SignIn(ctx context.Context, email, password string) (*Token, error)
	VerifyToken(ctx context.Context, idToken string) (*Session, error)
	SendVerificationEmail(ctx context.Context, uid string) error
	ConfirmEmail(ctx context.Context, code string) error
	Reload(ctx context.Context, uid string) (*Session, error)
	Reauthenticate(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context, uid string) error
	DeleteAccount(ctx context.Context, uid string) error
}
