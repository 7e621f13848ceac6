// Package auth handles faculty account claiming and session management.
// A faculty member claims their scraped profile with a short-lived signup
// token, then authenticates with username/password for a JWT access token
// and an opaque refresh token stored server-side as a hash.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
	"github.com/CDurepos/scholarsphere-sub000/pkg/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrAlreadyClaimed     = errors.New("profile already claimed")
	ErrInvalidSession     = errors.New("session is invalid or expired")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type Service struct {
	store            *sqlite.Client
	tokens           *token.Manager
	refreshExpire    time.Duration
	rememberMeExpire time.Duration
}

func NewService(store *sqlite.Client, tokens *token.Manager, refreshExpireDays, rememberMeExpireDays int) *Service {
	if refreshExpireDays <= 0 {
		refreshExpireDays = 7
	}
	if rememberMeExpireDays <= 0 {
		rememberMeExpireDays = 30
	}
	return &Service{
		store:            store,
		tokens:           tokens,
		refreshExpire:    time.Duration(refreshExpireDays) * 24 * time.Hour,
		rememberMeExpire: time.Duration(rememberMeExpireDays) * 24 * time.Hour,
	}
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IssueSignupToken mints the short-lived token a faculty member uses to
// claim their scraped profile. The profile must exist and be unclaimed.
func (s *Service) IssueSignupToken(ctx context.Context, facultyID string) (string, error) {
	if _, err := s.store.GetFacultyRecord(ctx, s.store.DB(), facultyID); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return "", sqlite.ErrNotFound
		}
		return "", err
	}

	claimed, err := s.store.CredentialsExist(ctx, facultyID)
	if err != nil {
		return "", err
	}
	if claimed {
		return "", ErrAlreadyClaimed
	}

	return s.tokens.GenerateSignupToken(facultyID)
}

// Register claims a profile: the signup token must name the same faculty
// member, the username must be free, and the profile must not already have
// credentials.
func (s *Service) Register(ctx context.Context, facultyID, signupToken, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}

	if _, err := s.tokens.VerifySignupToken(signupToken, facultyID); err != nil {
		return err
	}

	taken, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	claimed, err := s.store.CredentialsExist(ctx, facultyID)
	if err != nil {
		return err
	}
	if claimed {
		return ErrAlreadyClaimed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.store.WithTx(ctx, func(q sqlite.DBTX) error {
		return s.store.InsertCredentials(ctx, q, &models.Credentials{
			FacultyID:    facultyID,
			Username:     username,
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		})
	})
	if err != nil {
		return err
	}

	logger.Info("Faculty profile claimed",
		zap.String("faculty_id", facultyID),
		zap.String("username", username),
	)
	return nil
}

// Login verifies a password and issues a token pair. rememberMe stretches
// the refresh session lifetime.
func (s *Service) Login(ctx context.Context, username, password string, rememberMe bool) (*TokenPair, error) {
	creds, err := s.store.GetCredentialsByUsername(ctx, username)
	if errors.Is(err, sqlite.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, creds.FacultyID, rememberMe)
}

// Refresh rotates a refresh token: the presented token's session is
// revoked and a fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	session, err := s.store.GetActiveSessionByTokenHash(ctx, hashToken(refreshToken))
	if errors.Is(err, sqlite.ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(q sqlite.DBTX) error {
		_, err := s.store.RevokeSessionByTokenHash(ctx, q, session.TokenHash)
		return err
	})
	if err != nil {
		return nil, err
	}

	rememberMe := session.ExpiresAt.Sub(session.CreatedAt) > s.refreshExpire
	return s.issuePair(ctx, session.FacultyID, rememberMe)
}

// Logout revokes the session behind a refresh token. Unknown tokens are
// not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.store.WithTx(ctx, func(q sqlite.DBTX) error {
		_, err := s.store.RevokeSessionByTokenHash(ctx, q, hashToken(refreshToken))
		return err
	})
}

// VerifyAccess validates an access token and returns the faculty
// identifier it names.
func (s *Service) VerifyAccess(accessToken string) (string, error) {
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != token.TypeAccess {
		return "", token.ErrInvalidToken
	}
	return claims.FacultyID, nil
}

func (s *Service) issuePair(ctx context.Context, facultyID string, rememberMe bool) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(facultyID)
	if err != nil {
		return nil, err
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}

	lifetime := s.refreshExpire
	if rememberMe {
		lifetime = s.rememberMeExpire
	}
	now := time.Now()

	err = s.store.WithTx(ctx, func(q sqlite.DBTX) error {
		return s.store.InsertSession(ctx, q, &models.Session{
			SessionID: uuid.New().String(),
			FacultyID: facultyID,
			TokenHash: hashToken(refresh),
			ExpiresAt: now.Add(lifetime),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Only the hash of a refresh token touches the database.
func hashToken(t string) string {
	sum := sha256.Sum256([]byte(t))
	return hex.EncodeToString(sum[:])
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
