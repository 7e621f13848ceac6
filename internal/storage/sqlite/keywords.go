package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
)

// CountGenerationsSince counts committed generation-audit rows for a
// faculty member with timestamps inside the trailing window. Rolled-back
// rows never exist here, so failed generations do not consume budget.
func (c *Client) CountGenerationsSince(ctx context.Context, q DBTX, facultyID string, since time.Time) (int, error) {
	var count int
	err := q.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM keyword_generation WHERE faculty_id = ? AND created_at >= ?`,
		facultyID, since.Unix(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count keyword generations: %w", err)
	}
	return count, nil
}

func (c *Client) InsertGeneration(ctx context.Context, q DBTX, rec *models.GenerationRecord) error {
	_, err := q.ExecContext(
		ctx,
		`INSERT INTO keyword_generation (generation_id, faculty_id, created_at) VALUES (?, ?, ?)`,
		rec.GenerationID, rec.FacultyID, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation record: %w", err)
	}
	return nil
}

// GetBiography returns the biography text for one faculty member.
// ErrNotFound means the faculty row itself is missing; an existing row with
// a NULL biography returns "".
func (c *Client) GetBiography(ctx context.Context, q DBTX, facultyID string) (string, error) {
	var biography sql.NullString
	err := q.QueryRowContext(
		ctx,
		`SELECT biography FROM faculty WHERE faculty_id = ?`,
		facultyID,
	).Scan(&biography)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get biography: %w", err)
	}
	return biography.String, nil
}

// EnsureKeyword returns the identifier for a keyword name, creating the row
// on first reference. Names are stored as given; comparisons elsewhere
// lowercase them.
func (c *Client) EnsureKeyword(ctx context.Context, q DBTX, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("keyword name is empty")
	}

	var id string
	err := q.QueryRowContext(ctx, `SELECT keyword_id FROM keyword WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to look up keyword: %w", err)
	}

	id = uuid.New().String()
	if _, err := q.ExecContext(ctx, `INSERT INTO keyword (keyword_id, name) VALUES (?, ?)`, id, name); err != nil {
		return "", fmt.Errorf("failed to insert keyword: %w", err)
	}
	return id, nil
}

func (c *Client) LinkResearchKeyword(ctx context.Context, q DBTX, facultyID, keywordID string) error {
	_, err := q.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO faculty_researches_keyword (faculty_id, keyword_id) VALUES (?, ?)`,
		facultyID, keywordID,
	)
	if err != nil {
		return fmt.Errorf("failed to link research keyword: %w", err)
	}
	return nil
}

// BatchFacultyKeywords fetches the union keyword set (research, publication
// and grant keywords, lowercased) for every listed faculty member in one
// query, avoiding per-result lookups during reranking.
func (c *Client) BatchFacultyKeywords(ctx context.Context, facultyIDs []string) (map[string]map[string]struct{}, error) {
	result := make(map[string]map[string]struct{}, len(facultyIDs))
	if len(facultyIDs) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(facultyIDs)), ",")
	query := fmt.Sprintf(`
		SELECT frk.faculty_id, LOWER(k.name)
		FROM faculty_researches_keyword frk
		JOIN keyword k ON k.keyword_id = frk.keyword_id
		WHERE frk.faculty_id IN (%[1]s)
		UNION
		SELECT paf.faculty_id, LOWER(k.name)
		FROM publication_authored_by_faculty paf
		JOIN publication_keyword pk ON pk.publication_id = paf.publication_id
		JOIN keyword k ON k.keyword_id = pk.keyword_id
		WHERE paf.faculty_id IN (%[1]s)
		UNION
		SELECT gaf.faculty_id, LOWER(k.name)
		FROM grant_awarded_to_faculty gaf
		JOIN grant_keyword gk ON gk.grant_id = gaf.grant_id
		JOIN keyword k ON k.keyword_id = gk.keyword_id
		WHERE gaf.faculty_id IN (%[1]s)
	`, placeholders)

	args := make([]interface{}, 0, len(facultyIDs)*3)
	for i := 0; i < 3; i++ {
		for _, id := range facultyIDs {
			args = append(args, id)
		}
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-fetch faculty keywords: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var facultyID, name string
		if err := rows.Scan(&facultyID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan faculty keyword: %w", err)
		}
		set, ok := result[facultyID]
		if !ok {
			set = make(map[string]struct{})
			result[facultyID] = set
		}
		set[name] = struct{}{}
	}
	return result, rows.Err()
}

// SearchKeywordsByPrefix serves keyword autocomplete.
func (c *Client) SearchKeywordsByPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := c.db.QueryContext(
		ctx,
		`SELECT name FROM keyword WHERE name LIKE ? ORDER BY name LIMIT ?`,
		prefix+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search keywords: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
