// Package token generates and verifies the JSON Web Tokens used by the API.
//
// Two token types exist: "access" tokens issued on login, and short-lived
// "signup" tokens issued when a user claims an existing scraped faculty
// record so they can finish their profile before credentials exist.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeAccess = "access"
	TypeSignup = "signup"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	FacultyID string `json:"faculty_id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

type Manager struct {
	secretKey []byte
	accessDur time.Duration
	signupDur time.Duration
}

func NewManager(secret string, accessExpireMin, signupExpireMin int) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		accessDur: time.Duration(accessExpireMin) * time.Minute,
		signupDur: time.Duration(signupExpireMin) * time.Minute,
	}
}

func (m *Manager) GenerateAccessToken(facultyID string) (string, error) {
	return m.generate(facultyID, TypeAccess, m.accessDur)
}

// GenerateSignupToken issues a token scoped to one faculty record. It lets
// the holder update that profile during signup but nothing else.
func (m *Manager) GenerateSignupToken(facultyID string) (string, error) {
	return m.generate(facultyID, TypeSignup, m.signupDur)
}

func (m *Manager) generate(facultyID, tokenType string, dur time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		FacultyID: facultyID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(dur)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secretKey)
}

// Verify parses and validates a token string and returns its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifySignupToken checks that the token is a signup token bound to the
// expected faculty record.
func (m *Manager) VerifySignupToken(tokenString, expectedFacultyID string) (*Claims, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TypeSignup {
		return nil, fmt.Errorf("%w: expected signup token", ErrInvalidToken)
	}
	if claims.FacultyID != expectedFacultyID {
		return nil, fmt.Errorf("%w: token not issued for this faculty record", ErrInvalidToken)
	}
	return claims, nil
}
