package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dojo.app/platform/common/logger"
	"dojo.app/platform/internal/auth"
	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/store"
)

// Session is what a successful login or registration hands back to the client.
type Session struct {
	Token        string
	User         *model.User
	Organization *model.Organization
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Me(ctx context.Context, userID int64) (*model.User, *model.Organization, error)
	IssueToken(user *model.User) (string, error)
}

type authService struct {
	users  store.UserStore
	orgs   store.OrganizationStore
	hasher auth.PasswordHasher
	issuer *auth.TokenIssuer
	now    func() time.Time
}

func NewAuthService(
	users store.UserStore,
	orgs store.OrganizationStore,
	hasher auth.PasswordHasher,
	issuer *auth.TokenIssuer,
	now func() time.Time,
) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{
		users:  users,
		orgs:   orgs,
		hasher: hasher,
		issuer: issuer,
		now:    now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(user.ID)})

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("updating last login: %w", err)
	}
	user.LastLogin = &now

	org, err := s.organizationOf(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user logged in", "role", user.Role)

	return &Session{Token: token, User: user, Organization: org}, nil
}

func (s *authService) Me(ctx context.Context, userID int64) (*model.User, *model.Organization, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("getting user: %w", err)
	}

	org, err := s.organizationOf(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, org, nil
}

func (s *authService) IssueToken(user *model.User) (string, error) {
	token, err := s.issuer.Issue(auth.ClaimsForUser(user))
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}
	return token, nil
}

// organizationOf returns nil for platform users without an organization.
func (s *authService) organizationOf(ctx context.Context, user *model.User) (*model.Organization, error) {
	if user.OrganizationID == nil {
		return nil, nil
	}
	org, err := s.orgs.GetByID(ctx, *user.OrganizationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting organization: %w", err)
	}
	return org, nil
}
