package ingestion

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CDurepos/scholarsphere-sub000/internal/faculty"
	"github.com/CDurepos/scholarsphere-sub000/internal/institution"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
)

const profileHTML = `<html>
<head><title>Dr. Ada Lovelace | Mathematics</title></head>
<body>
<nav>Home About</nav>
<h1>Dr. Ada Lovelace</h1>
<p>Dr. Ada Lovelace is a professor of mathematics whose research focuses on
symbolic computation, early programming methods, and the theory of the
analytical engine. She has published extensively on computational thinking.</p>
<p>Contact: ada.lovelace@example.edu or (207) 555-0147.</p>
<script>console.log("tracking")</script>
<footer>Copyright</footer>
</body>
</html>`

func newTestProcessor(t *testing.T) (*Processor, *faculty.Service) {
	t.Helper()

	dir := t.TempDir()
	store, err := sqlite.NewClient(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema())

	institutions := institution.NewService(store, filepath.Join(dir, "missing.json"))
	facultyService := faculty.NewService(store, institutions)
	return NewProcessor(facultyService), facultyService
}

func TestProcessDerivesFieldsFromHTML(t *testing.T) {
	p, facultyService := newTestProcessor(t)

	facultyID, err := p.Process(context.Background(), ScrapedProfile{
		SourceURL: "https://example.edu/faculty/lovelace",
		HTML:      profileHTML,
	})
	require.NoError(t, err)

	profile, err := facultyService.Get(context.Background(), facultyID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ada", profile.FirstName)
	assert.Equal(t, "Lovelace", profile.LastName)
	assert.Contains(t, profile.Biography, "symbolic computation")
	assert.NotContains(t, profile.Biography, "tracking", "script content must be stripped")
	assert.Contains(t, profile.Emails, "ada.lovelace@example.edu")
	assert.Contains(t, profile.Phones, "(207) 555-0147")
	assert.Equal(t, "https://example.edu/faculty/lovelace", profile.ScrapedFrom)
}

func TestProcessPrefersStructuredFields(t *testing.T) {
	p, facultyService := newTestProcessor(t)

	facultyID, err := p.Process(context.Background(), ScrapedProfile{
		SourceURL: "https://example.edu/faculty/lovelace",
		HTML:      profileHTML,
		FirstName: "Ada",
		LastName:  "King",
		Emails:    []string{"override@example.edu"},
	})
	require.NoError(t, err)

	profile, err := facultyService.Get(context.Background(), facultyID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.Equal(t, "King", profile.LastName)
	assert.Equal(t, []string{"override@example.edu"}, profile.Emails,
		"scraper-provided fields win over HTML-derived ones")
}

func TestProcessRejectsNamelessProfile(t *testing.T) {
	p, _ := newTestProcessor(t)

	_, err := p.Process(context.Background(), ScrapedProfile{
		SourceURL: "https://example.edu/faculty/unknown",
		HTML:      "<html><body><p>No name here.</p></body></html>",
	})
	assert.ErrorIs(t, err, ErrNoName)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Ada Lovelace")
	assert.Equal(t, "Ada", first)
	assert.Equal(t, "Lovelace", last)

	first, last = splitName("Mary Jane Watson")
	assert.Equal(t, "Mary Jane", first)
	assert.Equal(t, "Watson", last)

	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)
}
