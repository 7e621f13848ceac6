package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
)

func (c *Client) InsertCredentials(ctx context.Context, q DBTX, creds *models.Credentials) error {
	_, err := q.ExecContext(
		ctx,
		`INSERT INTO credentials (faculty_id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		creds.FacultyID, creds.Username, creds.PasswordHash, creds.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert credentials: %w", err)
	}
	return nil
}

func (c *Client) GetCredentialsByUsername(ctx context.Context, username string) (*models.Credentials, error) {
	var creds models.Credentials
	var createdAt int64
	err := c.db.QueryRowContext(
		ctx,
		`SELECT faculty_id, username, password_hash, created_at FROM credentials WHERE username = ?`,
		username,
	).Scan(&creds.FacultyID, &creds.Username, &creds.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	creds.CreatedAt = time.Unix(createdAt, 0)
	return &creds, nil
}

func (c *Client) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credentials WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

func (c *Client) CredentialsExist(ctx context.Context, facultyID string) (bool, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credentials WHERE faculty_id = ?`, facultyID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check credentials: %w", err)
	}
	return count > 0, nil
}

func (c *Client) InsertSession(ctx context.Context, q DBTX, s *models.Session) error {
	_, err := q.ExecContext(
		ctx,
		`INSERT INTO session (session_id, faculty_id, token_hash, expires_at, revoked, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		s.SessionID, s.FacultyID, s.TokenHash, s.ExpiresAt.Unix(), s.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetActiveSessionByTokenHash returns a session only when it is neither
// revoked nor expired.
func (c *Client) GetActiveSessionByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	var s models.Session
	var expiresAt, createdAt int64
	var revoked int
	err := c.db.QueryRowContext(
		ctx,
		`SELECT session_id, faculty_id, token_hash, expires_at, revoked, created_at
		 FROM session WHERE token_hash = ? AND revoked = 0 AND expires_at > ?`,
		tokenHash, time.Now().Unix(),
	).Scan(&s.SessionID, &s.FacultyID, &s.TokenHash, &expiresAt, &revoked, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	s.ExpiresAt = time.Unix(expiresAt, 0)
	s.Revoked = revoked != 0
	s.CreatedAt = time.Unix(createdAt, 0)
	return &s, nil
}

func (c *Client) RevokeSessionByTokenHash(ctx context.Context, q DBTX, tokenHash string) (int64, error) {
	res, err := q.ExecContext(ctx, `UPDATE session SET revoked = 1 WHERE token_hash = ? AND revoked = 0`, tokenHash)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke session: %w", err)
	}
	return res.RowsAffected()
}
