package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"easyride/pkg/mailer"
)

const (
	purposeAccess      = "access"
	purposeVerifyEmail = "verify_email"
)

type LocalConfig struct {
	Secret            string
	AccessTokenTTL    time.Duration
	VerificationTTL   time.Duration
	PasswordMinLength int
	// VerificationURL is the page that receives ?code=<token>.
	VerificationURL string
}

type tokenClaims struct {
	Email      string `json:"email"`
	Purpose    string `json:"purpose"`
	Generation int    `json:"gen"`
	jwt.RegisteredClaims
}

// LocalProvider keeps bcrypt credentials in the database and issues HS256
// tokens. Signing out bumps the credential's token generation so older
// tokens stop verifying.
type LocalProvider struct {
	store  CredentialStore
	mailer mailer.Mailer
	config LocalConfig
	now    func() time.Time
}

func NewLocalProvider(store CredentialStore, m mailer.Mailer, config LocalConfig) *LocalProvider {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = 24 * time.Hour
	}
	if config.VerificationTTL == 0 {
		config.VerificationTTL = 48 * time.Hour
	}
	return &LocalProvider{store: store, mailer: m, config: config, now: time.Now}
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < p.config.PasswordMinLength {
		return nil, ErrWeakPassword
	}

	if _, err := p.store.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	credential := &Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    p.now().UTC(),
	}
	if err := p.store.Create(ctx, credential); err != nil {
		return nil, err
	}

	return &Account{UID: credential.ID, Email: credential.Email}, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Token, error) {
	credential, err := p.checkPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	expiresAt := p.now().Add(p.config.AccessTokenTTL)
	signed, err := p.sign(credential, purposeAccess, expiresAt)
	if err != nil {
		return nil, err
	}

	return &Token{UID: credential.ID, IDToken: signed, ExpiresAt: expiresAt}, nil
}

func (p *LocalProvider) VerifyToken(ctx context.Context, idToken string) (*Session, error) {
	claims, err := p.parse(idToken, purposeAccess)
	if err != nil {
		return nil, err
	}

	credential, err := p.store.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if credential.TokenGeneration != claims.Generation {
		return nil, ErrInvalidToken
	}

	return sessionFor(credential), nil
}

func (p *LocalProvider) SendVerificationEmail(ctx context.Context, uid string) error {
	credential, err := p.store.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	if credential.EmailVerified {
		return nil
	}

	code, err := p.sign(credential, purposeVerifyEmail, p.now().Add(p.config.VerificationTTL))
	if err != nil {
		return err
	}

	link := p.config.VerificationURL + "?code=" + url.QueryEscape(code)
	return p.mailer.Send(ctx, mailer.VerificationEmail(credential.Email, link))
}

func (p *LocalProvider) ConfirmEmail(ctx context.Context, code string) error {
	claims, err := p.parse(code, purposeVerifyEmail)
	if err != nil {
		return err
	}

	credential, err := p.store.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if !strings.EqualFold(credential.Email, claims.Email) {
		return ErrInvalidToken
	}

	return p.store.MarkEmailVerified(ctx, credential.ID, p.now().UTC())
}

func (p *LocalProvider) Reload(ctx context.Context, uid string) (*Session, error) {
	credential, err := p.store.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return sessionFor(credential), nil
}

func (p *LocalProvider) Reauthenticate(ctx context.Context, email, password string) (string, error) {
	credential, err := p.checkPassword(ctx, email, password)
	if err != nil {
		return "", err
	}
	return credential.ID, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, uid string) error {
	return p.store.IncrementTokenGeneration(ctx, uid)
}

func (p *LocalProvider) DeleteAccount(ctx context.Context, uid string) error {
	return p.store.Delete(ctx, uid)
}

func (p *LocalProvider) checkPassword(ctx context.Context, email, password string) (*Credential, error) {
	credential, err := p.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return credential, nil
}

func (p *LocalProvider) sign(credential *Credential, purpose string, expiresAt time.Time) (string, error) {
	claims := tokenClaims{
		Email:      credential.Email,
		Purpose:    purpose,
		Generation: credential.TokenGeneration,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   credential.ID,
			IssuedAt:  jwt.NewNumericDate(p.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (p *LocalProvider) parse(raw, purpose string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(p.config.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func sessionFor(credential *Credential) *Session {
	return &Session{
		UID:           credential.ID,
		Email:         credential.Email,
		EmailVerified: credential.EmailVerified,
	}
}
