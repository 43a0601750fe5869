// Package auth bridges upstream account operations with the gateway's
// own sessions and tokens.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grocerlane/gateway/internal/upstream"
	"github.com/grocerlane/gateway/internal/validate"
	pkgauth "github.com/grocerlane/gateway/pkg/auth"
	"github.com/grocerlane/gateway/pkg/auth/session"
	"github.com/grocerlane/gateway/pkg/config"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/grocerlane/gateway/pkg/logger"
)

// Sessions is the slice of the session manager the service uses.
type Sessions interface {
	Create(ctx context.Context, rec session.Record) (string, error)
	Get(ctx context.Context, sessionID string) (*session.Record, error)
	Update(ctx context.Context, sessionID string, rec session.Record) error
	Revoke(ctx context.Context, sessionID string) error
}

// LoginResult carries the minted token alongside the session snapshot.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	SessionID string
	Account   session.Record
}

// Service owns sign in, sign up and profile maintenance.
type Service interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Register(ctx context.Context, input upstream.RegisterInput) (*session.Record, error)
	Logout(ctx context.Context, sessionID string, userID int64) error
	Profile(ctx context.Context, sessionID string) (*session.Record, error)
	UpdateProfile(ctx context.Context, sessionID string, userID int64, update upstream.ProfileUpdate) (*session.Record, error)
	ChangePassword(ctx context.Context, userID int64, change upstream.PasswordChange) error
	Deactivate(ctx context.Context, sessionID string, userID int64) (*session.Record, error)
	Restore(ctx context.Context, sessionID string, userID int64, password string) (*session.Record, error)
}

type service struct {
	backend  upstream.Backend
	sessions Sessions
	jwt      config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the upstream account API to the session store.
func NewService(backend upstream.Backend, sessions Sessions, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("auth service requires an upstream backend")
	}
	if sessions == nil {
		return nil, fmt.Errorf("auth service requires a session manager")
	}
	if logg == nil {
		return nil, fmt.Errorf("auth service requires a logger")
	}
	return &service{
		backend:  backend,
		sessions: sessions,
		jwt:      jwtCfg,
		logg:     logg,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Login verifies the credential upstream, opens a session and mints the
// access token that points at it.
func (s *service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identifier and password are required")
	}

	account, err := s.backend.Login(ctx, upstream.Credentials{Identifier: identifier, Password: password})
	if err != nil {
		return nil, err
	}

	rec := recordFromAccount(account)
	sessionID, err := s.sessions.Create(ctx, rec)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "opening session")
	}

	now := s.now()
	token, err := pkgauth.MintAccessToken(s.jwt, now, pkgauth.AccessTokenPayload{
		UserID:    account.ID,
		Role:      account.Role,
		SessionID: sessionID,
	})
	if err != nil {
		if revokeErr := s.sessions.Revoke(ctx, sessionID); revokeErr != nil {
			s.logg.Warn(ctx, "revoking session after failed token mint")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwt.AccessTokenTTL()),
		SessionID: sessionID,
		Account:   rec,
	}, nil
}

// Register creates the account upstream. The caller signs in separately.
func (s *service) Register(ctx context.Context, input upstream.RegisterInput) (*session.Record, error) {
	var problems []string
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !validate.Email(input.Email) {
		problems = append(problems, "email is invalid")
	}
	if input.ContactNumber != "" && !validate.ContactNumber(input.ContactNumber) {
		problems = append(problems, "contact number must contain ten digits")
	}
	problems = append(problems, validate.Password(input.Password)...)
	if len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "registration rejected").WithDetails(problems)
	}

	account, err := s.backend.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	rec := recordFromAccount(account)
	return &rec, nil
}

// Logout revokes the session. The upstream call is best effort.
func (s *service) Logout(ctx context.Context, sessionID string, userID int64) error {
	if err := s.backend.Logout(ctx, userID); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "upstream logout failed")
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoking session")
	}
	return nil
}

func (s *service) Profile(ctx context.Context, sessionID string) (*session.Record, error) {
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if err == session.ErrSessionNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading session")
	}
	return rec, nil
}

func (s *service) UpdateProfile(ctx context.Context, sessionID string, userID int64, update upstream.ProfileUpdate) (*session.Record, error) {
	var problems []string
	if update.Email != nil && !validate.Email(*update.Email) {
		problems = append(problems, "email is invalid")
	}
	if update.ContactNumber != nil && !validate.ContactNumber(*update.ContactNumber) {
		problems = append(problems, "contact number must contain ten digits")
	}
	if len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile update rejected").WithDetails(problems)
	}

	account, err := s.backend.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}
	return s.refreshSession(ctx, sessionID, account)
}

func (s *service) ChangePassword(ctx context.Context, userID int64, change upstream.PasswordChange) error {
	if change.OldPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "old password is required")
	}
	if problems := validate.Password(change.NewPassword); len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password rejected").WithDetails(problems)
	}

	if _, err := s.backend.ChangePassword(ctx, userID, change); err != nil {
		return err
	}
	return nil
}

func (s *service) Deactivate(ctx context.Context, sessionID string, userID int64) (*session.Record, error) {
	account, err := s.backend.Deactivate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.refreshSession(ctx, sessionID, account)
}

func (s *service) Restore(ctx context.Context, sessionID string, userID int64, password string) (*session.Record, error) {
	if password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	account, err := s.backend.Restore(ctx, userID, password)
	if err != nil {
		return nil, err
	}
	return s.refreshSession(ctx, sessionID, account)
}

func (s *service) refreshSession(ctx context.Context, sessionID string, account *upstream.Account) (*session.Record, error) {
	rec := recordFromAccount(account)
	if err := s.sessions.Update(ctx, sessionID, rec); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refreshing session")
	}
	return &rec, nil
}

func recordFromAccount(account *upstream.Account) session.Record {
	return session.Record{
		UserID:        account.ID,
		Name:          account.Name,
		Email:         account.Email,
		ContactNumber: account.ContactNumber,
		Address:       account.Address,
		Role:          account.Role,
		Status:        account.Status,
	}
}
