package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/store"
)

var (
	// ErrInvalidCredentials signals a wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals the password doesn't meet requirements.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
	// ErrEmailTaken signals an account already exists for the email.
	ErrEmailTaken = errors.New("auth: an account with this email already exists")
)

// Identity is the authenticated identity as observed by this application.
type Identity struct {
	UserID string
	Email  string
}

// Service is the identity provider: it issues, validates, and revokes
// sessions backed by the users and revoked_tokens tables.
type Service struct {
	db     *sql.DB
	secret string
}

// NewService creates a new identity service.
func NewService(db *sql.DB, secret string) *Service {
	return &Service{db: db, secret: secret}
}

// SignUp creates a new account.
func (s *Service) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("auth: email is required")
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	existing, err := store.GetUserByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.DeletedAt == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := store.CreateUser(ctx, s.db, email, string(hash))
	if err != nil {
		return nil, err
	}

	return &Identity{UserID: user.ID, Email: user.Email}, nil
}

// SignIn authenticates a user and returns a session token with the identity.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := store.GetUserByEmail(ctx, s.db, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || user.DeletedAt != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.secret, user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("auth: generate token: %w", err)
	}

	return token, &Identity{UserID: user.ID, Email: user.Email}, nil
}

// SignOut revokes the session token. Revocation takes effect on the next
// session check anywhere the token is presented.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := ValidateToken(s.secret, token)
	if err != nil {
		// Already unusable, nothing to revoke.
		return nil
	}

	expiresAt := time.Now().Add(TokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return store.RevokeToken(ctx, s.db, claims.ID, expiresAt)
}

// CurrentSession resolves a token to its identity. A missing, invalid, or
// revoked token yields no session rather than an error; only store failures
// are reported.
func (s *Service) CurrentSession(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := ValidateToken(s.secret, token)
	if err != nil {
		return nil, nil
	}

	if claims.ID != "" {
		revoked, err := store.IsTokenRevoked(ctx, s.db, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, nil
		}
	}

	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
