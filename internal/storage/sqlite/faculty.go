package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
)

// nullString maps empty/whitespace strings to NULL so optional profile
// fields are stored the same way regardless of how the caller sent them.
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func (c *Client) InsertFaculty(ctx context.Context, q DBTX, f *models.Faculty) error {
	query := `
		INSERT INTO faculty (faculty_id, first_name, last_name, biography, orcid,
			google_scholar_url, research_gate_url, scraped_from, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(
		ctx,
		query,
		f.FacultyID,
		f.FirstName,
		nullString(f.LastName),
		nullString(f.Biography),
		nullString(f.ORCID),
		nullString(f.GoogleScholarURL),
		nullString(f.ResearchGateURL),
		nullString(f.ScrapedFrom),
		f.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert faculty: %w", err)
	}
	return nil
}

func (c *Client) UpdateFaculty(ctx context.Context, q DBTX, f *models.Faculty) error {
	query := `
		UPDATE faculty
		SET first_name = ?, last_name = ?, biography = ?, orcid = ?,
			google_scholar_url = ?, research_gate_url = ?
		WHERE faculty_id = ?
	`

	res, err := q.ExecContext(
		ctx,
		query,
		f.FirstName,
		nullString(f.LastName),
		nullString(f.Biography),
		nullString(f.ORCID),
		nullString(f.GoogleScholarURL),
		nullString(f.ResearchGateURL),
		f.FacultyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update faculty: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetFacultyRecord reads only the base faculty row.
func (c *Client) GetFacultyRecord(ctx context.Context, q DBTX, facultyID string) (*models.Faculty, error) {
	query := `
		SELECT faculty_id, first_name, last_name, biography, orcid,
			google_scholar_url, research_gate_url, scraped_from, created_at
		FROM faculty WHERE faculty_id = ?
	`

	var f models.Faculty
	var lastName, biography, orcid, scholar, gate, scrapedFrom sql.NullString
	var createdAt int64

	err := q.QueryRowContext(ctx, query, facultyID).Scan(
		&f.FacultyID,
		&f.FirstName,
		&lastName,
		&biography,
		&orcid,
		&scholar,
		&gate,
		&scrapedFrom,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get faculty: %w", err)
	}

	f.LastName = lastName.String
	f.Biography = biography.String
	f.ORCID = orcid.String
	f.GoogleScholarURL = scholar.String
	f.ResearchGateURL = gate.String
	f.ScrapedFrom = scrapedFrom.String
	f.CreatedAt = time.Unix(createdAt, 0)

	return &f, nil
}

// GetFacultyProfile reads the base row plus every multi-valued attribute set
// and the most recent institution affiliation.
func (c *Client) GetFacultyProfile(ctx context.Context, q DBTX, facultyID string) (*models.FacultyProfile, error) {
	f, err := c.GetFacultyRecord(ctx, q, facultyID)
	if err != nil {
		return nil, err
	}

	profile := &models.FacultyProfile{Faculty: *f}

	attrs := []struct {
		query string
		dst   *[]string
	}{
		{`SELECT email FROM faculty_email WHERE faculty_id = ? ORDER BY email`, &profile.Emails},
		{`SELECT phone_num FROM faculty_phone WHERE faculty_id = ? ORDER BY phone_num`, &profile.Phones},
		{`SELECT department_name FROM faculty_department WHERE faculty_id = ? ORDER BY department_name`, &profile.Departments},
		{`SELECT title FROM faculty_title WHERE faculty_id = ? ORDER BY title`, &profile.Titles},
	}
	for _, attr := range attrs {
		values, err := c.readStrings(ctx, q, attr.query, facultyID)
		if err != nil {
			return nil, err
		}
		*attr.dst = values
	}

	name, err := c.CurrentInstitutionName(ctx, q, facultyID)
	if err != nil {
		return nil, err
	}
	profile.InstitutionName = name

	return profile, nil
}

func (c *Client) readStrings(ctx context.Context, q DBTX, query string, args ...interface{}) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attribute set: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan attribute: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// replaceSet implements the replace-all semantics for multi-valued
// attributes: delete the whole set, then re-insert the provided values.
// Blank entries are dropped rather than stored.
func (c *Client) replaceSet(ctx context.Context, q DBTX, table, column, facultyID string, values []string) error {
	if _, err := q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE faculty_id = ?`, table), facultyID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	insert := fmt.Sprintf(`INSERT OR IGNORE INTO %s (faculty_id, %s) VALUES (?, ?)`, table, column)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, err := q.ExecContext(ctx, insert, facultyID, v); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

func (c *Client) ReplaceEmails(ctx context.Context, q DBTX, facultyID string, emails []string) error {
	return c.replaceSet(ctx, q, "faculty_email", "email", facultyID, emails)
}

func (c *Client) ReplacePhones(ctx context.Context, q DBTX, facultyID string, phones []string) error {
	return c.replaceSet(ctx, q, "faculty_phone", "phone_num", facultyID, phones)
}

func (c *Client) ReplaceDepartments(ctx context.Context, q DBTX, facultyID string, departments []string) error {
	return c.replaceSet(ctx, q, "faculty_department", "department_name", facultyID, departments)
}

func (c *Client) ReplaceTitles(ctx context.Context, q DBTX, facultyID string, titles []string) error {
	return c.replaceSet(ctx, q, "faculty_title", "title", facultyID, titles)
}

func (c *Client) LinkFacultyInstitution(ctx context.Context, q DBTX, facultyID, institutionID string, startDate time.Time) error {
	query := `
		INSERT INTO faculty_works_at_institution (faculty_id, institution_id, start_date, end_date)
		VALUES (?, ?, ?, NULL)
	`
	_, err := q.ExecContext(ctx, query, facultyID, institutionID, startDate.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("failed to link faculty to institution: %w", err)
	}
	return nil
}

func (c *Client) FacultyInstitutionLinkExists(ctx context.Context, q DBTX, facultyID, institutionID string) (bool, error) {
	var count int
	err := q.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM faculty_works_at_institution WHERE faculty_id = ? AND institution_id = ?`,
		facultyID, institutionID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check institution link: %w", err)
	}
	return count > 0, nil
}

// CurrentInstitutionName returns the name of the most recently started
// affiliation, or "" when the faculty member has none.
func (c *Client) CurrentInstitutionName(ctx context.Context, q DBTX, facultyID string) (string, error) {
	query := `
		SELECT i.name
		FROM faculty_works_at_institution w
		JOIN institution i ON i.institution_id = w.institution_id
		WHERE w.faculty_id = ?
		ORDER BY w.start_date DESC
		LIMIT 1
	`

	var name string
	err := q.QueryRowContext(ctx, query, facultyID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get current institution: %w", err)
	}
	return name, nil
}
