package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
	"github.com/CDurepos/scholarsphere-sub000/pkg/token"
)

func newTestService(t *testing.T) (*Service, *sqlite.Client) {
	t.Helper()

	store, err := sqlite.NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema())

	tokens := token.NewManager("test-secret", 30, 15)
	return NewService(store, tokens, 7, 30), store
}

func seedFaculty(t *testing.T, store *sqlite.Client, id string) {
	t.Helper()
	err := store.InsertFaculty(context.Background(), store.DB(), &models.Faculty{
		FacultyID: id,
		FirstName: "Ada",
		LastName:  "Lovelace",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func claimProfile(t *testing.T, svc *Service, facultyID, username, password string) {
	t.Helper()
	ctx := context.Background()

	signupToken, err := svc.IssueSignupToken(ctx, facultyID)
	require.NoError(t, err)
	require.NoError(t, svc.Register(ctx, facultyID, signupToken, username, password))
}

func TestRegisterAndLogin(t *testing.T) {
	svc, store := newTestService(t)
	seedFaculty(t, store, "f1")
	claimProfile(t, svc, "f1", "ada", "correct horse battery")

	pair, err := svc.Login(context.Background(), "ada", "correct horse battery", false)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	facultyID, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "f1", facultyID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, store := newTestService(t)
	seedFaculty(t, store, "f1")
	claimProfile(t, svc, "f1", "ada", "correct horse battery")

	_, err := svc.Login(context.Background(), "ada", "wrong", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "wrong", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsSecondClaim(t *testing.T) {
	svc, store := newTestService(t)
	seedFaculty(t, store, "f1")
	claimProfile(t, svc, "f1", "ada", "correct horse battery")

	_, err := svc.IssueSignupToken(context.Background(), "f1")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestRegisterRejectsTokenForOtherProfile(t *testing.T) {
	svc, store := newTestService(t)
	seedFaculty(t, store, "f1")
	seedFaculty(t, store, "f2")

	signupToken, err := svc.IssueSignupToken(context.Background(), "f1")
	require.NoError(t, err)

	err = svc.Register(context.Background(), "f2", signupToken, "alan", "correct horse battery")
	assert.Error(t, err)
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	svc, store := newTestService(t)
	seedFaculty(t, store, "f1")
	seedFaculty(t, store, "f2")
	claimProfile(t, svc, "f1", "ada", "correct horse battery")

	signupToken, err := svc.IssueSignupToken(context.Background(), "f2")
	require.NoError(t, err)

	err = svc.Register(context.Background(), "f2", signupToken, "ada", "another password")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, store := newTestService(t)
	seedFaculty(t, store, "f1")

	signupToken, err := svc.IssueSignupToken(context.Background(), "f1")
	require.NoError(t, err)

	err = svc.Register(context.Background(), "f1", signupToken, "ada", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, store := newTestService(t)
	seedFaculty(t, store, "f1")
	claimProfile(t, svc, "f1", "ada", "correct horse battery")
	ctx := context.Background()

	pair, err := svc.Login(ctx, "ada", "correct horse battery", false)
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old refresh token is dead after rotation.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, store := newTestService(t)
	seedFaculty(t, store, "f1")
	claimProfile(t, svc, "f1", "ada", "correct horse battery")
	ctx := context.Background()

	pair, err := svc.Login(ctx, "ada", "correct horse battery", false)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
