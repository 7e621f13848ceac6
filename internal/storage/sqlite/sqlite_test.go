package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.InitSchema())
	return c
}

func seedFaculty(t *testing.T, c *Client, id, firstName, lastName string) {
	t.Helper()
	err := c.InsertFaculty(context.Background(), c.DB(), &models.Faculty{
		FacultyID: id,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func seedDepartment(t *testing.T, c *Client, facultyID, department string) {
	t.Helper()
	_, err := c.DB().Exec(
		`INSERT INTO faculty_department (faculty_id, department_name) VALUES (?, ?)`,
		facultyID, department,
	)
	require.NoError(t, err)
}

func seedResearchKeyword(t *testing.T, c *Client, facultyID, keyword string) {
	t.Helper()
	ctx := context.Background()
	id, err := c.EnsureKeyword(ctx, c.DB(), keyword)
	require.NoError(t, err)
	require.NoError(t, c.LinkResearchKeyword(ctx, c.DB(), facultyID, id))
}
