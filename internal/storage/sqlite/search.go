package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
)

// SearchFilters carries the recognized faculty-search fields. Matching is
// OR across the fields that are set: a row qualifies if any set field
// partially matches, which lets callers pass one term in every field to
// search "anywhere".
type SearchFilters struct {
	FirstName   string
	LastName    string
	Department  string
	Institution string
}

func (f SearchFilters) empty() bool {
	return f.FirstName == "" && f.LastName == "" && f.Department == "" && f.Institution == ""
}

func (c *Client) SearchFaculty(ctx context.Context, filters SearchFilters) ([]models.SearchResult, error) {
	if filters.empty() {
		return nil, nil
	}

	var conds []string
	var args []interface{}
	if filters.FirstName != "" {
		conds = append(conds, `f.first_name LIKE ?`)
		args = append(args, "%"+filters.FirstName+"%")
	}
	if filters.LastName != "" {
		conds = append(conds, `f.last_name LIKE ?`)
		args = append(args, "%"+filters.LastName+"%")
	}
	if filters.Department != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM faculty_department d
			WHERE d.faculty_id = f.faculty_id AND d.department_name LIKE ?
		)`)
		args = append(args, "%"+filters.Department+"%")
	}
	if filters.Institution != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM faculty_works_at_institution w
			JOIN institution i ON i.institution_id = w.institution_id
			WHERE w.faculty_id = f.faculty_id AND i.name LIKE ?
		)`)
		args = append(args, "%"+filters.Institution+"%")
	}

	query := fmt.Sprintf(`
		SELECT f.faculty_id, f.first_name, COALESCE(f.last_name, ''), COALESCE(f.biography, ''),
			COALESCE((
				SELECT d.department_name FROM faculty_department d
				WHERE d.faculty_id = f.faculty_id ORDER BY d.department_name LIMIT 1
			), ''),
			COALESCE((
				SELECT i.name FROM faculty_works_at_institution w
				JOIN institution i ON i.institution_id = w.institution_id
				WHERE w.faculty_id = f.faculty_id ORDER BY w.start_date DESC LIMIT 1
			), '')
		FROM faculty f
		WHERE %s
		ORDER BY f.last_name, f.first_name, f.faculty_id
	`, strings.Join(conds, " OR "))

	return c.querySearchResults(ctx, query, args...)
}

// SearchFacultyByKeywords matches faculty whose combined keyword set
// (research, publication, grant) intersects the given lowercase terms,
// ordered by how many terms matched.
func (c *Client) SearchFacultyByKeywords(ctx context.Context, terms []string) ([]models.SearchResult, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(terms)), ",")
	query := fmt.Sprintf(`
		SELECT f.faculty_id, f.first_name, COALESCE(f.last_name, ''), COALESCE(f.biography, ''),
			COALESCE((
				SELECT d.department_name FROM faculty_department d
				WHERE d.faculty_id = f.faculty_id ORDER BY d.department_name LIMIT 1
			), ''),
			COALESCE((
				SELECT i.name FROM faculty_works_at_institution w
				JOIN institution i ON i.institution_id = w.institution_id
				WHERE w.faculty_id = f.faculty_id ORDER BY w.start_date DESC LIMIT 1
			), '')
		FROM faculty f
		JOIN (
			SELECT fk.faculty_id, COUNT(DISTINCT fk.name) AS matches
			FROM (
				SELECT frk.faculty_id, LOWER(k.name) AS name
				FROM faculty_researches_keyword frk
				JOIN keyword k ON k.keyword_id = frk.keyword_id
				UNION
				SELECT paf.faculty_id, LOWER(k.name)
				FROM publication_authored_by_faculty paf
				JOIN publication_keyword pk ON pk.publication_id = paf.publication_id
				JOIN keyword k ON k.keyword_id = pk.keyword_id
				UNION
				SELECT gaf.faculty_id, LOWER(k.name)
				FROM grant_awarded_to_faculty gaf
				JOIN grant_keyword gk ON gk.grant_id = gaf.grant_id
				JOIN keyword k ON k.keyword_id = gk.keyword_id
			) fk
			WHERE fk.name IN (%s)
			GROUP BY fk.faculty_id
		) m ON m.faculty_id = f.faculty_id
		ORDER BY m.matches DESC, f.last_name, f.first_name
	`, placeholders)

	args := make([]interface{}, len(terms))
	for i, t := range terms {
		args[i] = t
	}

	return c.querySearchResults(ctx, query, args...)
}

func (c *Client) querySearchResults(ctx context.Context, query string, args ...interface{}) ([]models.SearchResult, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("faculty search failed: %w", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(
			&r.FacultyID,
			&r.FirstName,
			&r.LastName,
			&r.Biography,
			&r.DepartmentName,
			&r.InstitutionName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
