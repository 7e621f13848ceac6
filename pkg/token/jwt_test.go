package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", 30, 15)

	tokenString, err := m.GenerateAccessToken("f1")
	require.NoError(t, err)

	claims, err := m.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "f1", claims.FacultyID)
	assert.Equal(t, TypeAccess, claims.TokenType)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := NewManager("test-secret", 30, 15)
	other := NewManager("other-secret", 30, 15)

	tokenString, err := m.GenerateAccessToken("f1")
	require.NoError(t, err)

	_, err = other.Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -1, 15)

	tokenString, err := m.GenerateAccessToken("f1")
	require.NoError(t, err)

	_, err = m.Verify(tokenString)
	assert.Error(t, err)
}

func TestSignupTokenBoundToFaculty(t *testing.T) {
	m := NewManager("test-secret", 30, 15)

	tokenString, err := m.GenerateSignupToken("f1")
	require.NoError(t, err)

	claims, err := m.VerifySignupToken(tokenString, "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", claims.FacultyID)

	_, err = m.VerifySignupToken(tokenString, "f2")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignupVerifyRejectsAccessToken(t *testing.T) {
	m := NewManager("test-secret", 30, 15)

	tokenString, err := m.GenerateAccessToken("f1")
	require.NoError(t, err)

	_, err = m.VerifySignupToken(tokenString, "f1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
