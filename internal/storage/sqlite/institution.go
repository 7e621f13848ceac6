package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
)

// GetInstitutionIDByName resolves an institution by exact name match.
func (c *Client) GetInstitutionIDByName(ctx context.Context, q DBTX, name string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `SELECT institution_id FROM institution WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up institution: %w", err)
	}
	return id, nil
}

func (c *Client) InsertInstitution(ctx context.Context, q DBTX, inst *models.Institution) error {
	query := `
		INSERT INTO institution (institution_id, name, street_addr, city, state, country, zip, website_url, type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(
		ctx,
		query,
		inst.InstitutionID,
		inst.Name,
		nullString(inst.StreetAddr),
		nullString(inst.City),
		nullString(inst.State),
		nullString(inst.Country),
		nullString(inst.Zip),
		nullString(inst.WebsiteURL),
		nullString(inst.Type),
	)
	if err != nil {
		return fmt.Errorf("failed to insert institution: %w", err)
	}
	return nil
}
