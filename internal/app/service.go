package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/edusphere/backend/internal/models"
	"github.com/edusphere/backend/internal/scope"
	"github.com/edusphere/backend/internal/store"
)

// ErrInvalidCredentials is the single failure for both unknown email
// and wrong password, so login responses never leak which accounts
// exist.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials")

// dummyHash is compared against when the email is unknown, to keep the
// failure path timing close to the wrong-password path.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("edusphere-dummy"), bcrypt.DefaultCost)

type Service struct {
	Config   *Config
	Store    store.EntityStore
	Sessions *Sessions
	Scope    *scope.Scoper
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	sessions, err := NewSessions(config)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to init sessions: %w", err)
	}

	return &Service{
		Config:   config,
		Store:    st,
		Sessions: sessions,
		Scope:    scope.NewScoper(st),
	}, nil
}

// Login resolves credentials to an account and issues a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Account, string, error) {
	account, err := s.Store.GetAccountByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.Sessions.Create(ctx, account)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}
	return account, token, nil
}

// Logout deletes the session behind the token; unknown tokens are a
// no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.Sessions.Delete(ctx, token)
}

// BearerToken extracts the session token from the configured header.
func (s *Service) BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get(s.Config.Auth.TokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization header format")
	}
	return strings.TrimPrefix(authHeader, "Bearer "), nil
}

// AuthorizeActor verifies the request's session covers the claimed
// actor: the session account must be the actor, or an admin. With auth
// disabled the claimed actor is trusted as-is.
func (s *Service) AuthorizeActor(r *http.Request, actor scope.Actor) error {
	if !s.Sessions.Enabled() {
		return nil
	}

	token, err := s.BearerToken(r)
	if err != nil {
		return err
	}

	session, err := s.Sessions.Get(r.Context(), token)
	if err != nil {
		return err
	}

	if session.Role == models.RoleAdmin {
		return nil
	}
	if session.AccountID != actor.ID || session.Role != actor.Role {
		return scope.ErrForbidden
	}
	return nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("sessions: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}

// SetPassword hashes and stores a new password on the account model.
func SetPassword(account *models.Account, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	return nil
}
