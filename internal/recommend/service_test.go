package recommend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.Client) {
	t.Helper()

	store, err := sqlite.NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema())

	return NewService(store), store
}

func seed(t *testing.T, store *sqlite.Client, id, firstName, lastName, department string) {
	t.Helper()
	ctx := context.Background()

	err := store.InsertFaculty(ctx, store.DB(), &models.Faculty{
		FacultyID: id,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, store.ReplaceDepartments(ctx, store.DB(), id, []string{department}))
}

func TestRecommendRefreshesAndRanks(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "f1", "Ada", "Lovelace", "Computer Science")
	seed(t, store, "f2", "Alan", "Turing", "Computer Science")
	seed(t, store, "f3", "Grace", "Hopper", "History")

	recs, err := svc.Recommend(ctx, Filters{ForFacultyID: "f1"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "f2", recs[0].FacultyID)
	assert.Equal(t, 1, recs[0].Score)
}

func TestRecommendIsRepeatable(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "f1", "Ada", "Lovelace", "Computer Science")
	seed(t, store, "f2", "Alan", "Turing", "Computer Science")

	first, err := svc.Recommend(ctx, Filters{ForFacultyID: "f1"})
	require.NoError(t, err)
	second, err := svc.Recommend(ctx, Filters{ForFacultyID: "f1"})
	require.NoError(t, err)

	assert.Equal(t, first, second, "recomputing on unchanged data must not change scores")
}

func TestRecommendAppliesFilters(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "f1", "Ada", "Lovelace", "Computer Science")
	seed(t, store, "f2", "Alan", "Turing", "Computer Science")
	seed(t, store, "f3", "Grace", "Hopper", "Computer Science")

	recs, err := svc.Recommend(ctx, Filters{ForFacultyID: "f1", LastName: "Turing"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "f2", recs[0].FacultyID)
}
