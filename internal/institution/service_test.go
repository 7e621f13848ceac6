package institution

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
)

const referenceJSON = `[
	{"name": "University of Maine", "city": "Orono", "state": "ME", "country": "USA", "type": "public"},
	{"name": "Bowdoin College", "city": "Brunswick", "state": "ME", "country": "USA", "type": "private"}
]`

func newTestService(t *testing.T) (*Service, *sqlite.Client) {
	t.Helper()

	dir := t.TempDir()

	store, err := sqlite.NewClient(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema())

	refPath := filepath.Join(dir, "institutions.json")
	require.NoError(t, os.WriteFile(refPath, []byte(referenceJSON), 0o644))

	return NewService(store, refPath), store
}

func TestGetOrCreateFromReference(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.GetOrCreate(ctx, store.DB(), "University of Maine")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var city, instType string
	err = store.DB().QueryRow(
		`SELECT city, type FROM institution WHERE institution_id = ?`, id,
	).Scan(&city, &instType)
	require.NoError(t, err)
	assert.Equal(t, "Orono", city)
	assert.Equal(t, "public", instType)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, store.DB(), "Bowdoin College")
	require.NoError(t, err)

	second, err := svc.GetOrCreate(ctx, store.DB(), "Bowdoin College")
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated resolution must reuse the existing row")
}

func TestGetOrCreateUnknownInstitution(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.GetOrCreate(ctx, store.DB(), "Unlisted Institute")
	require.NoError(t, err)

	var name string
	var city any
	err = store.DB().QueryRow(
		`SELECT name, city FROM institution WHERE institution_id = ?`, id,
	).Scan(&name, &city)
	require.NoError(t, err)
	assert.Equal(t, "Unlisted Institute", name)
	assert.Nil(t, city, "unknown institutions get a bare row")
}

func TestGetOrCreateEmptyName(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.GetOrCreate(context.Background(), store.DB(), "  ")
	assert.Error(t, err)
}

func TestKnownNamesSorted(t *testing.T) {
	svc, _ := newTestService(t)

	names, err := svc.KnownNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Bowdoin College", "University of Maine"}, names)
}
