package keywords

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
)

type fakeExtractor struct {
	keywords []string
	err      error
	calls    int
}

func (f *fakeExtractor) ExtractKeywords(ctx context.Context, biography string) ([]string, error) {
	f.calls++
	return f.keywords, f.err
}

func newTestStore(t *testing.T) *sqlite.Client {
	t.Helper()

	c, err := sqlite.NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.InitSchema())
	return c
}

func seedFacultyWithBiography(t *testing.T, store *sqlite.Client, id, biography string) {
	t.Helper()
	err := store.InsertFaculty(context.Background(), store.DB(), &models.Faculty{
		FacultyID: id,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Biography: biography,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func countAudit(t *testing.T, store *sqlite.Client, facultyID string) int {
	t.Helper()
	count, err := store.CountGenerationsSince(context.Background(), store.DB(), facultyID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	return count
}

func TestGenerateStoresKeywords(t *testing.T) {
	store := newTestStore(t)
	seedFacultyWithBiography(t, store, "f1", "Studies symbolic computation and early programming.")

	extractor := &fakeExtractor{keywords: []string{"symbolic computation", "programming history"}}
	svc := NewService(store, extractor, 3)

	generated, err := svc.Generate(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, []string{"symbolic computation", "programming history"}, generated)
	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, 1, countAudit(t, store, "f1"))

	sets, err := store.BatchFacultyKeywords(context.Background(), []string{"f1"})
	require.NoError(t, err)
	assert.Contains(t, sets["f1"], "symbolic computation")
	assert.Contains(t, sets["f1"], "programming history")
}

func TestGenerateHourlyBudget(t *testing.T) {
	store := newTestStore(t)
	seedFacultyWithBiography(t, store, "f1", "A long and storied research career.")

	extractor := &fakeExtractor{keywords: []string{"research"}}
	svc := NewService(store, extractor, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Generate(ctx, "f1")
		require.NoError(t, err, "attempt %d should be within budget", i+1)
	}

	_, err := svc.Generate(ctx, "f1")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 3, extractor.calls, "a rejected attempt must not reach the model")
	assert.Equal(t, 3, countAudit(t, store, "f1"), "a rejected attempt must not write an audit row")
}

func TestGenerateBudgetIsPerFaculty(t *testing.T) {
	store := newTestStore(t)
	seedFacultyWithBiography(t, store, "f1", "First biography.")
	seedFacultyWithBiography(t, store, "f2", "Second biography.")

	extractor := &fakeExtractor{keywords: []string{"research"}}
	svc := NewService(store, extractor, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Generate(ctx, "f1")
		require.NoError(t, err)
	}
	_, err := svc.Generate(ctx, "f1")
	require.ErrorIs(t, err, ErrRateLimited)

	_, err = svc.Generate(ctx, "f2")
	assert.NoError(t, err, "one member's exhaustion must not block another")
}

func TestGenerateExtractionFailureRollsBackAudit(t *testing.T) {
	store := newTestStore(t)
	seedFacultyWithBiography(t, store, "f1", "A biography.")

	extractor := &fakeExtractor{err: errors.New("model unavailable")}
	svc := NewService(store, extractor, 3)

	_, err := svc.Generate(context.Background(), "f1")
	require.Error(t, err)
	assert.Zero(t, countAudit(t, store, "f1"), "failed attempts must not consume budget")
}

func TestGenerateEmptyResultRollsBackAudit(t *testing.T) {
	store := newTestStore(t)
	seedFacultyWithBiography(t, store, "f1", "A biography.")

	extractor := &fakeExtractor{keywords: nil}
	svc := NewService(store, extractor, 3)

	_, err := svc.Generate(context.Background(), "f1")
	require.Error(t, err)
	assert.Zero(t, countAudit(t, store, "f1"))

	// The failure must not have linked anything either.
	sets, err := store.BatchFacultyKeywords(context.Background(), []string{"f1"})
	require.NoError(t, err)
	assert.Empty(t, sets["f1"])
}

func TestGenerateNoBiography(t *testing.T) {
	store := newTestStore(t)
	seedFacultyWithBiography(t, store, "f1", "")

	extractor := &fakeExtractor{keywords: []string{"unused"}}
	svc := NewService(store, extractor, 3)

	_, err := svc.Generate(context.Background(), "f1")
	assert.ErrorIs(t, err, ErrNoBiography)
	assert.Zero(t, extractor.calls)
	assert.Zero(t, countAudit(t, store, "f1"))
}

func TestGenerateUnknownFaculty(t *testing.T) {
	store := newTestStore(t)

	svc := NewService(store, &fakeExtractor{keywords: []string{"unused"}}, 3)

	_, err := svc.Generate(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
