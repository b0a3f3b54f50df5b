package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonata/internal/models"
	"github.com/desertthunder/sonata/internal/shared"
)

// AuthService logs listeners and contributors in and out.
type AuthService struct {
	api    *APIService
	logger *log.Logger
}

// NewAuthService creates an auth client over api.
func NewAuthService(api *APIService, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthService{api: api, logger: logger}
}

// Login exchanges credentials for a session token for role.
func (a *AuthService) Login(ctx context.Context, role string, creds models.Credentials) (*models.Session, error) {
	role, err := shared.ParseRole(role)
	if err != nil {
		return nil, err
	}

	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, invalidForm("Email and password are required.")
	}

	return a.submit(ctx, "/auth/"+role+"/login", creds)
}

// Register creates an account for role and returns its first session.
func (a *AuthService) Register(ctx context.Context, role string, reg models.Registration) (*models.Session, error) {
	role, err := shared.ParseRole(role)
	if err != nil {
		return nil, err
	}

	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	switch {
	case reg.Name == "" || reg.Email == "" || reg.Password == "":
		return nil, invalidForm("Name, email and password are required.")
	case !validEmail(reg.Email):
		return nil, invalidForm("Please enter a valid email address.")
	case reg.PasswordConfirmation != "" && reg.PasswordConfirmation != reg.Password:
		return nil, invalidForm("Passwords do not match.")
	}
	if reg.PasswordConfirmation == "" {
		reg.PasswordConfirmation = reg.Password
	}

	return a.submit(ctx, "/auth/"+role+"/register", reg)
}

// Logout revokes token on the server. The local copy is the caller's to delete.
func (a *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return shared.ErrNotAuthenticated
	}

	resp, err := a.api.WithToken(token).Post(ctx, "/auth/logout", []byte("{}"))
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return newFormError(resp, nil)
	}
	return nil
}

func (a *AuthService) submit(ctx context.Context, path string, body any) (*models.Session, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := a.api.Post(ctx, path, data)
	if err != nil || !resp.OK() {
		fe := newFormError(resp, err)
		a.logger.Warn("auth request failed", "path", path, "status", fe.StatusCode, "error", fe.Err)
		return nil, fe
	}

	session, err := decodeData[models.Session](resp)
	if err != nil || session.Token == "" {
		a.logger.Warn("auth response missing token", "path", path)
		return nil, &FormError{StatusCode: resp.StatusCode, Message: GenericFormMessage, Err: shared.ErrAuthFailed}
	}
	return session, nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
