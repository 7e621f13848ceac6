package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAllScans(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.ScanSharedDepartments(ctx))
	require.NoError(t, c.ScanSharedInstitutions(ctx))
	require.NoError(t, c.ScanSharedGrants(ctx))
	require.NoError(t, c.ScanSharedGrantKeywords(ctx))
	require.NoError(t, c.ScanSharedPublicationKeywords(ctx))
	require.NoError(t, c.ScanSharedResearchKeywords(ctx))
}

func TestScanSharedDepartments(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	seedFaculty(t, c, "f1", "Ada", "Lovelace")
	seedFaculty(t, c, "f2", "Alan", "Turing")
	seedFaculty(t, c, "f3", "Grace", "Hopper")
	seedDepartment(t, c, "f1", "Computer Science")
	seedDepartment(t, c, "f2", "Computer Science")
	seedDepartment(t, c, "f3", "Mathematics")

	require.NoError(t, c.ScanSharedDepartments(ctx))

	score, err := c.GetAffinityScore(ctx, "f1", "f2", SignalSharedDepartment)
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	// Counters are symmetric: both ordered pairs exist.
	score, err = c.GetAffinityScore(ctx, "f2", "f1", SignalSharedDepartment)
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	score, err = c.GetAffinityScore(ctx, "f1", "f3", SignalSharedDepartment)
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestScansAreIdempotent(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	seedFaculty(t, c, "f1", "Ada", "Lovelace")
	seedFaculty(t, c, "f2", "Alan", "Turing")
	seedDepartment(t, c, "f1", "Computer Science")
	seedDepartment(t, c, "f2", "Computer Science")
	seedResearchKeyword(t, c, "f1", "cryptography")
	seedResearchKeyword(t, c, "f2", "cryptography")
	seedResearchKeyword(t, c, "f1", "computability")
	seedResearchKeyword(t, c, "f2", "computability")

	runAllScans(t, c)
	runAllScans(t, c)
	runAllScans(t, c)

	score, err := c.GetAffinityScore(ctx, "f1", "f2", SignalSharedDepartment)
	require.NoError(t, err)
	assert.Equal(t, 1, score, "repeated scans must not inflate scores")

	score, err = c.GetAffinityScore(ctx, "f1", "f2", SignalSharedResearchKeyword)
	require.NoError(t, err)
	assert.Equal(t, 2, score)
}

func TestScanCountsMultipleSharedKeywords(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	seedFaculty(t, c, "f1", "Ada", "Lovelace")
	seedFaculty(t, c, "f2", "Alan", "Turing")
	seedResearchKeyword(t, c, "f1", "cryptography")
	seedResearchKeyword(t, c, "f2", "cryptography")
	seedResearchKeyword(t, c, "f1", "logic")
	seedResearchKeyword(t, c, "f2", "logic")
	seedResearchKeyword(t, c, "f1", "music")

	require.NoError(t, c.ScanSharedResearchKeywords(ctx))

	score, err := c.GetAffinityScore(ctx, "f1", "f2", SignalSharedResearchKeyword)
	require.NoError(t, err)
	assert.Equal(t, 2, score)
}

func TestReadRecommendationsRankedBySummedScore(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	seedFaculty(t, c, "f1", "Ada", "Lovelace")
	seedFaculty(t, c, "f2", "Alan", "Turing")
	seedFaculty(t, c, "f3", "Grace", "Hopper")

	// f1-f3 share a department and two research keywords; f1-f2 only a
	// department. Totals sum across signals: f3 scores 3, f2 scores 1.
	seedDepartment(t, c, "f1", "Computer Science")
	seedDepartment(t, c, "f2", "Computer Science")
	seedDepartment(t, c, "f3", "Computer Science")
	seedResearchKeyword(t, c, "f1", "compilers")
	seedResearchKeyword(t, c, "f3", "compilers")
	seedResearchKeyword(t, c, "f1", "languages")
	seedResearchKeyword(t, c, "f3", "languages")

	runAllScans(t, c)

	recs, err := c.ReadRecommendations(ctx, RecommendationQuery{ForFacultyID: "f1"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "f3", recs[0].FacultyID)
	assert.Equal(t, 3, recs[0].Score)
	assert.Equal(t, "f2", recs[1].FacultyID)
	assert.Equal(t, 1, recs[1].Score)
}

func TestReadRecommendationsStableTies(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	seedFaculty(t, c, "f1", "Ada", "Lovelace")
	seedFaculty(t, c, "f2", "Alan", "Turing")
	seedFaculty(t, c, "f3", "Grace", "Hopper")
	seedFaculty(t, c, "f4", "Edsger", "Dijkstra")

	// Equal totals; insertion order decides.
	for _, b := range []string{"f3", "f2", "f4"} {
		_, err := c.DB().Exec(
			`INSERT INTO faculty_affinity (faculty_a, faculty_b, signal, score) VALUES ('f1', ?, ?, 2)`,
			b, SignalSharedDepartment,
		)
		require.NoError(t, err)
	}

	recs, err := c.ReadRecommendations(ctx, RecommendationQuery{ForFacultyID: "f1"})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "f3", recs[0].FacultyID)
	assert.Equal(t, "f2", recs[1].FacultyID)
	assert.Equal(t, "f4", recs[2].FacultyID)
}

func TestReadRecommendationsFilters(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	seedFaculty(t, c, "f1", "Ada", "Lovelace")
	seedFaculty(t, c, "f2", "Alan", "Turing")
	seedFaculty(t, c, "f3", "Grace", "Hopper")
	seedDepartment(t, c, "f2", "Computer Science")
	seedDepartment(t, c, "f3", "Mathematics")

	for _, b := range []string{"f2", "f3"} {
		_, err := c.DB().Exec(
			`INSERT INTO faculty_affinity (faculty_a, faculty_b, signal, score) VALUES ('f1', ?, ?, 1)`,
			b, SignalSharedInstitution,
		)
		require.NoError(t, err)
	}

	recs, err := c.ReadRecommendations(ctx, RecommendationQuery{
		ForFacultyID: "f1",
		Department:   "Computer",
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "f2", recs[0].FacultyID)

	recs, err = c.ReadRecommendations(ctx, RecommendationQuery{
		ForFacultyID: "f1",
		LastName:     "Hopper",
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "f3", recs[0].FacultyID)
}
