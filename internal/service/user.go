package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hpnchanel/todoapi/internal/auth"
	"github.com/hpnchanel/todoapi/internal/cache"
	"github.com/hpnchanel/todoapi/internal/metrics"
	"github.com/hpnchanel/todoapi/internal/model"
	"github.com/hpnchanel/todoapi/internal/repository"
)

// UserRepository persists users and their active tokens.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	AddUserToken(ctx context.Context, userID string, token model.Token) error
	RemoveUserToken(ctx context.Context, userID, token string) error
}

// SessionCache remembers which user a token hash resolved to.
// GetSession returns cache.ErrSessionRevoked for a revoked token, and
// SetSession must not overwrite an existing entry.
type SessionCache interface {
	GetSession(ctx context.Context, tokenHash string) (*model.User, error)
	SetSession(ctx context.Context, tokenHash string, user *model.User) error
	RevokeSession(ctx context.Context, tokenHash string) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenService issues and verifies signed tokens.
type TokenService interface {
	Issue(userID, purpose string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// Auth failure reasons reported to metrics.
const (
	reasonInvalidToken = "invalid_token"
	reasonWrongPurpose = "wrong_purpose"
	reasonUnknownUser  = "unknown_user"
	reasonRevoked      = "revoked"
)

// UserService handles accounts and their token lifecycle.
type UserService struct {
	repo      UserRepository
	sessions  SessionCache
	hasher    PasswordHasher
	tokens    TokenService
	logger    *slog.Logger
	metrics   metrics.Recorder
	now       func() time.Time
	dummyHash string
}

// NewUserService creates a new UserService. sessions may be nil to disable
// session caching.
func NewUserService(
	repo UserRepository,
	sessions SessionCache,
	hasher PasswordHasher,
	tokens TokenService,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	// Verified against when an email is unknown so both login failures cost the same.
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		logger.Warn("failed to prepare dummy password hash", "error", err)
	}

	return &UserService{
		repo:      repo,
		sessions:  sessions,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		metrics:   recorder,
		now:       time.Now,
		dummyHash: dummyHash,
	}
}

// Create registers a new user.
func (s *UserService) Create(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           model.NewID(),
		Email:        email,
		PasswordHash: hash,
		Tokens:       []model.Token{},
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	s.metrics.IncUserSignup()
	return user, nil
}

// FindByCredentials returns the user owning email if password matches.
// An unknown email and a wrong password both yield ErrAuth.
func (s *UserService) FindByCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			if s.dummyHash != "" {
				_, _ = s.hasher.Verify(password, s.dummyHash)
			}
			return nil, ErrAuth
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash unusable", "user_id", user.ID, "error", err)
		return nil, ErrAuth
	}
	if !ok {
		return nil, ErrAuth
	}

	return user, nil
}

// FindByToken resolves an auth token to its user. The token must verify,
// carry the auth purpose and still be in the user's active collection.
func (s *UserService) FindByToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		s.metrics.IncAuthFailure(reasonInvalidToken)
		return nil, ErrAuth
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.metrics.IncAuthFailure(reasonInvalidToken)
		return nil, ErrAuth
	}
	if claims.Access != auth.PurposeAuth {
		s.metrics.IncAuthFailure(reasonWrongPurpose)
		return nil, ErrAuth
	}

	key := auth.QuickHash(token)

	if s.sessions != nil {
		cached, err := s.sessions.GetSession(ctx, key)
		switch {
		case errors.Is(err, cache.ErrSessionRevoked):
			s.metrics.IncAuthFailure(reasonRevoked)
			return nil, ErrAuth
		case err != nil:
			s.logger.Warn("session cache lookup failed", "error", err)
		case cached != nil && cached.ID == claims.UserID:
			s.metrics.IncSessionCacheHit()
			return cached, nil
		default:
			s.metrics.IncSessionCacheMiss()
		}
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncAuthFailure(reasonUnknownUser)
			return nil, ErrAuth
		}
		return nil, err
	}

	if !user.HasToken(auth.PurposeAuth, token) {
		s.metrics.IncAuthFailure(reasonRevoked)
		return nil, ErrAuth
	}

	if s.sessions != nil {
		if err := s.sessions.SetSession(ctx, key, user); err != nil {
			s.logger.Warn("session cache store failed", "user_id", user.ID, "error", err)
		}
	}

	return user, nil
}

// AddToken appends token to the user's active collection.
func (s *UserService) AddToken(ctx context.Context, user *model.User, token string) error {
	entry := model.Token{Access: auth.PurposeAuth, Token: token}
	if err := s.repo.AddUserToken(ctx, user.ID, entry); err != nil {
		return err
	}

	if !user.HasToken(entry.Access, entry.Token) {
		user.Tokens = append(user.Tokens, entry)
	}
	return nil
}

// RemoveToken drops token from the user's active collection and marks its
// cached session revoked. Removing an absent token is not an error.
func (s *UserService) RemoveToken(ctx context.Context, user *model.User, token string) error {
	if err := s.repo.RemoveUserToken(ctx, user.ID, token); err != nil {
		return err
	}

	kept := user.Tokens[:0]
	for _, t := range user.Tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	user.Tokens = kept

	if s.sessions != nil {
		if err := s.sessions.RevokeSession(ctx, auth.QuickHash(token)); err != nil {
			return fmt.Errorf("revoke session: %w", err)
		}
	}
	return nil
}

// GenerateAuthToken issues a new auth token and records it on the user.
func (s *UserService) GenerateAuthToken(ctx context.Context, user *model.User) (string, error) {
	token, err := s.tokens.Issue(user.ID, auth.PurposeAuth)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	if err := s.AddToken(ctx, user, token); err != nil {
		return "", err
	}
	return token, nil
}

// Signup creates a user and logs them in.
func (s *UserService) Signup(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.Create(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.GenerateAuthToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks credentials and issues a fresh auth token.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		s.metrics.IncLogin(metrics.StatusFailed)
		return nil, "", err
	}

	token, err := s.GenerateAuthToken(ctx, user)
	if err != nil {
		s.metrics.IncLogin(metrics.StatusFailed)
		return nil, "", err
	}

	s.metrics.IncLogin(metrics.StatusSuccess)
	return user, token, nil
}

// Logout revokes the token the request was authenticated with.
func (s *UserService) Logout(ctx context.Context, user *model.User, token string) error {
	if err := s.RemoveToken(ctx, user, token); err != nil {
		return err
	}
	s.metrics.IncLogout()
	return nil
}
