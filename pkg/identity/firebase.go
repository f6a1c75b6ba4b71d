package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"easyride/pkg/mailer"
)

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	APIKey          string
	ContinueURL     string
	RESTEndpoint    string
}

// NewFirebaseApp initializes the Firebase app shared by identity and push.
func NewFirebaseApp(ctx context.Context, config *FirebaseConfig) (*firebase.App, error) {
	var appConfig *firebase.Config
	if config.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: config.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, option.WithCredentialsFile(config.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

// FirebaseProvider uses the Admin SDK for everything it offers and the
// Identity Toolkit REST API for password checks, which the Admin SDK
// cannot do.
type FirebaseProvider struct {
	client     *auth.Client
	mailer     mailer.Mailer
	config     *FirebaseConfig
	httpClient *http.Client
}

func NewFirebaseProvider(ctx context.Context, app *firebase.App, m mailer.Mailer, config *FirebaseConfig) (*FirebaseProvider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	return &FirebaseProvider{
		client: client,
		mailer: m,
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (f *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*Account, error) {
	params := (&auth.UserToCreate{}).
		Email(strings.TrimSpace(email)).
		Password(password).
		EmailVerified(false)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &Account{UID: user.UID, Email: user.Email, EmailVerified: user.EmailVerified}, nil
}

func (f *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Token, error) {
	resp, err := f.signInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	expiresIn, _ := strconv.Atoi(resp.ExpiresIn)
	return &Token{
		UID:       resp.LocalID,
		IDToken:   resp.IDToken,
		ExpiresAt: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

// VerifyToken trusts the email_verified claim only when it is true. ID
// tokens issued before the user clicked the link still say false, so
// those are re-checked against the user record.
func (f *FirebaseProvider) VerifyToken(ctx context.Context, idToken string) (*Session, error) {
	token, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	session := &Session{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		session.Email = email
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok && verified {
		session.EmailVerified = true
		return session, nil
	}

	return f.Reload(ctx, token.UID)
}

func (f *FirebaseProvider) SendVerificationEmail(ctx context.Context, uid string) error {
	user, err := f.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to get account: %w", err)
	}
	if user.EmailVerified {
		return nil
	}

	link, err := f.client.EmailVerificationLinkWithSettings(ctx, user.Email, &auth.ActionCodeSettings{
		URL: f.config.ContinueURL,
	})
	if err != nil {
		return fmt.Errorf("failed to generate verification link: %w", err)
	}

	return f.mailer.Send(ctx, mailer.VerificationEmail(user.Email, link))
}

// ConfirmEmail applies an out-of-band code from a verification link.
func (f *FirebaseProvider) ConfirmEmail(ctx context.Context, code string) error {
	var out struct {
		Email string `json:"email"`
	}
	return f.callREST(ctx, "accounts:update", map[string]interface{}{"oobCode": code}, &out)
}

func (f *FirebaseProvider) Reload(ctx context.Context, uid string) (*Session, error) {
	user, err := f.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &Session{UID: user.UID, Email: user.Email, EmailVerified: user.EmailVerified}, nil
}

func (f *FirebaseProvider) Reauthenticate(ctx context.Context, email, password string) (string, error) {
	resp, err := f.signInWithPassword(ctx, email, password)
	if err != nil {
		return "", err
	}
	return resp.LocalID, nil
}

func (f *FirebaseProvider) SignOut(ctx context.Context, uid string) error {
	if err := f.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}

func (f *FirebaseProvider) DeleteAccount(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

type signInResponse struct {
	IDToken   string `json:"idToken"`
	LocalID   string `json:"localId"`
	Email     string `json:"email"`
	ExpiresIn string `json:"expiresIn"`
}

type restErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *FirebaseProvider) signInWithPassword(ctx context.Context, email, password string) (*signInResponse, error) {
	var resp signInResponse
	err := f.callREST(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             strings.TrimSpace(email),
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (f *FirebaseProvider) callREST(ctx context.Context, method string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", strings.TrimRight(f.config.RESTEndpoint, "/"), method, url.QueryEscape(f.config.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call identity service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var restErr restErrorResponse
		_ = json.Unmarshal(data, &restErr)
		return mapRESTError(restErr.Error.Message, resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}

func mapRESTError(message string, status int) error {
	// Messages look like "INVALID_PASSWORD" or "WEAK_PASSWORD : Password should be ..."
	code := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "INVALID_EMAIL":
		return ErrInvalidCredentials
	case "INVALID_OOB_CODE", "EXPIRED_OOB_CODE":
		return ErrInvalidToken
	case "EMAIL_EXISTS":
		return ErrEmailInUse
	case "WEAK_PASSWORD":
		return ErrWeakPassword
	}
	return fmt.Errorf("identity service error (status %d): %s", status, message)
}
