package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
)

// Affinity signal names. One faculty_affinity row exists per ordered pair
// per signal, so each scan can recompute its own contribution without
// touching the others.
const (
	SignalSharedDepartment         = "shared_department"
	SignalSharedInstitution        = "shared_institution"
	SignalSharedGrant              = "shared_grant"
	SignalSharedGrantKeyword       = "shared_grant_keyword"
	SignalSharedPublicationKeyword = "shared_publication_keyword"
	SignalSharedResearchKeyword    = "shared_research_keyword"
)

// upsertAffinity writes one signal's pairwise counts. The SELECT produces
// (faculty_a, faculty_b, count) for every ordered pair qualifying under the
// signal's join condition; the upsert overwrites that signal's previous
// score, so re-running a scan on an unchanged dataset is a no-op rather
// than a doubling. Each scan is a single autocommitted statement outside
// any unit of work; failures propagate to the caller.
func (c *Client) upsertAffinity(ctx context.Context, signal, pairSelect string) error {
	query := fmt.Sprintf(`
		INSERT INTO faculty_affinity (faculty_a, faculty_b, signal, score)
		%s
		ON CONFLICT(faculty_a, faculty_b, signal) DO UPDATE SET score = excluded.score
	`, pairSelect)

	if _, err := c.db.ExecContext(ctx, query, signal); err != nil {
		return fmt.Errorf("affinity scan %s failed: %w", signal, err)
	}
	return nil
}

// ScanSharedDepartments scores every ordered pair of faculty members that
// appear in a department of the same name, one point per shared department.
func (c *Client) ScanSharedDepartments(ctx context.Context) error {
	return c.upsertAffinity(ctx, SignalSharedDepartment, `
		SELECT a.faculty_id, b.faculty_id, ?, COUNT(*)
		FROM faculty_department a
		JOIN faculty_department b
			ON b.department_name = a.department_name AND b.faculty_id <> a.faculty_id
		GROUP BY a.faculty_id, b.faculty_id
	`)
}

// ScanSharedInstitutions scores pairs affiliated with the same institution.
func (c *Client) ScanSharedInstitutions(ctx context.Context) error {
	return c.upsertAffinity(ctx, SignalSharedInstitution, `
		SELECT a.faculty_id, b.faculty_id, ?, COUNT(*)
		FROM faculty_works_at_institution a
		JOIN faculty_works_at_institution b
			ON b.institution_id = a.institution_id AND b.faculty_id <> a.faculty_id
		GROUP BY a.faculty_id, b.faculty_id
	`)
}

// ScanSharedGrants scores co-investigators, one point per shared grant.
func (c *Client) ScanSharedGrants(ctx context.Context) error {
	return c.upsertAffinity(ctx, SignalSharedGrant, `
		SELECT a.faculty_id, b.faculty_id, ?, COUNT(*)
		FROM grant_awarded_to_faculty a
		JOIN grant_awarded_to_faculty b
			ON b.grant_id = a.grant_id AND b.faculty_id <> a.faculty_id
		GROUP BY a.faculty_id, b.faculty_id
	`)
}

// ScanSharedGrantKeywords scores pairs whose grants are tagged with the
// same keyword, one point per distinct shared keyword.
func (c *Client) ScanSharedGrantKeywords(ctx context.Context) error {
	return c.upsertAffinity(ctx, SignalSharedGrantKeyword, `
		SELECT fa.faculty_id, fb.faculty_id, ?, COUNT(DISTINCT ka.keyword_id)
		FROM grant_awarded_to_faculty fa
		JOIN grant_keyword ka ON ka.grant_id = fa.grant_id
		JOIN grant_keyword kb ON kb.keyword_id = ka.keyword_id
		JOIN grant_awarded_to_faculty fb
			ON fb.grant_id = kb.grant_id AND fb.faculty_id <> fa.faculty_id
		GROUP BY fa.faculty_id, fb.faculty_id
	`)
}

// ScanSharedPublicationKeywords scores pairs whose publications are tagged
// with the same keyword, one point per distinct shared keyword.
func (c *Client) ScanSharedPublicationKeywords(ctx context.Context) error {
	return c.upsertAffinity(ctx, SignalSharedPublicationKeyword, `
		SELECT fa.faculty_id, fb.faculty_id, ?, COUNT(DISTINCT ka.keyword_id)
		FROM publication_authored_by_faculty fa
		JOIN publication_keyword ka ON ka.publication_id = fa.publication_id
		JOIN publication_keyword kb ON kb.keyword_id = ka.keyword_id
		JOIN publication_authored_by_faculty fb
			ON fb.publication_id = kb.publication_id AND fb.faculty_id <> fa.faculty_id
		GROUP BY fa.faculty_id, fb.faculty_id
	`)
}

// ScanSharedResearchKeywords scores pairs with overlapping research
// keyword sets, one point per shared keyword.
func (c *Client) ScanSharedResearchKeywords(ctx context.Context) error {
	return c.upsertAffinity(ctx, SignalSharedResearchKeyword, `
		SELECT a.faculty_id, b.faculty_id, ?, COUNT(*)
		FROM faculty_researches_keyword a
		JOIN faculty_researches_keyword b
			ON b.keyword_id = a.keyword_id AND b.faculty_id <> a.faculty_id
		GROUP BY a.faculty_id, b.faculty_id
	`)
}

// GetAffinityScore reads one signal's score for an ordered pair. Missing
// rows read as zero.
func (c *Client) GetAffinityScore(ctx context.Context, facultyA, facultyB, signal string) (int, error) {
	var score int
	err := c.db.QueryRowContext(
		ctx,
		`SELECT COALESCE(SUM(score), 0) FROM faculty_affinity WHERE faculty_a = ? AND faculty_b = ? AND signal = ?`,
		facultyA, facultyB, signal,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("failed to read affinity score: %w", err)
	}
	return score, nil
}

// RecommendationQuery restricts a ranked affinity read. Zero-value fields
// are not applied; an entirely zero query returns the whole ranked table.
type RecommendationQuery struct {
	ForFacultyID string
	FirstName    string
	LastName     string
	Department   string
	Institution  string
}

// ReadRecommendations returns faculty joined to their summed affinity
// scores, descending by total with insertion order breaking ties.
func (c *Client) ReadRecommendations(ctx context.Context, q RecommendationQuery) ([]models.Recommendation, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT fa.faculty_b, f.first_name, COALESCE(f.last_name, ''), COALESCE(f.biography, ''),
			COALESCE((
				SELECT d.department_name FROM faculty_department d
				WHERE d.faculty_id = f.faculty_id ORDER BY d.department_name LIMIT 1
			), ''),
			COALESCE((
				SELECT i.name FROM faculty_works_at_institution w
				JOIN institution i ON i.institution_id = w.institution_id
				WHERE w.faculty_id = f.faculty_id ORDER BY w.start_date DESC LIMIT 1
			), ''),
			SUM(fa.score) AS total
		FROM faculty_affinity fa
		JOIN faculty f ON f.faculty_id = fa.faculty_b
		WHERE fa.score > 0
	`)

	var args []interface{}
	if q.ForFacultyID != "" {
		sb.WriteString(` AND fa.faculty_a = ?`)
		args = append(args, q.ForFacultyID)
	}
	if q.FirstName != "" {
		sb.WriteString(` AND f.first_name LIKE ?`)
		args = append(args, "%"+q.FirstName+"%")
	}
	if q.LastName != "" {
		sb.WriteString(` AND f.last_name LIKE ?`)
		args = append(args, "%"+q.LastName+"%")
	}
	if q.Department != "" {
		sb.WriteString(` AND EXISTS (
			SELECT 1 FROM faculty_department d
			WHERE d.faculty_id = f.faculty_id AND d.department_name LIKE ?
		)`)
		args = append(args, "%"+q.Department+"%")
	}
	if q.Institution != "" {
		sb.WriteString(` AND EXISTS (
			SELECT 1 FROM faculty_works_at_institution w
			JOIN institution i ON i.institution_id = w.institution_id
			WHERE w.faculty_id = f.faculty_id AND i.name LIKE ?
		)`)
		args = append(args, "%"+q.Institution+"%")
	}

	sb.WriteString(`
		GROUP BY fa.faculty_a, fa.faculty_b
		ORDER BY total DESC, MIN(fa.rowid) ASC
	`)

	rows, err := c.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read recommendations: %w", err)
	}
	defer rows.Close()

	var recs []models.Recommendation
	for rows.Next() {
		var r models.Recommendation
		if err := rows.Scan(
			&r.FacultyID,
			&r.FirstName,
			&r.LastName,
			&r.Biography,
			&r.DepartmentName,
			&r.InstitutionName,
			&r.Score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
