// Package sqlite implements the relational store behind faculty profiles,
// pairwise recommendation scores, and the keyword-generation audit log.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

// ErrNotFound is returned when a row lookup by identifier matches nothing.
var ErrNotFound = errors.New("record not found")

// DBTX is the statement-execution capability shared by *sql.DB and *sql.Tx.
// Store methods take it so the same query code runs standalone (autocommit)
// or inside a unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Client struct {
	db *sql.DB
}

// NewClient opens (or creates) the database. _txlock=immediate makes every
// transaction take the write lock up front, which serializes the
// rate-limit-check-then-audit-write sequence across concurrent requests.
func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// DB exposes the autocommit handle for read paths and the six global score
// scans, which run outside any unit of work.
func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS faculty (
		faculty_id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT,
		biography TEXT,
		orcid TEXT,
		google_scholar_url TEXT,
		research_gate_url TEXT,
		scraped_from TEXT,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS faculty_email (
		faculty_id TEXT NOT NULL,
		email TEXT NOT NULL,
		PRIMARY KEY (faculty_id, email),
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS faculty_phone (
		faculty_id TEXT NOT NULL,
		phone_num TEXT NOT NULL,
		PRIMARY KEY (faculty_id, phone_num),
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS faculty_department (
		faculty_id TEXT NOT NULL,
		department_name TEXT NOT NULL,
		PRIMARY KEY (faculty_id, department_name),
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_department_name ON faculty_department(department_name);

	CREATE TABLE IF NOT EXISTS faculty_title (
		faculty_id TEXT NOT NULL,
		title TEXT NOT NULL,
		PRIMARY KEY (faculty_id, title),
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS institution (
		institution_id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		street_addr TEXT,
		city TEXT,
		state TEXT,
		country TEXT,
		zip TEXT,
		website_url TEXT,
		type TEXT
	);

	CREATE TABLE IF NOT EXISTS faculty_works_at_institution (
		faculty_id TEXT NOT NULL,
		institution_id TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		PRIMARY KEY (faculty_id, institution_id),
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE,
		FOREIGN KEY (institution_id) REFERENCES institution(institution_id)
	);
	CREATE INDEX IF NOT EXISTS idx_works_at_institution ON faculty_works_at_institution(institution_id);

	CREATE TABLE IF NOT EXISTS keyword (
		keyword_id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS faculty_researches_keyword (
		faculty_id TEXT NOT NULL,
		keyword_id TEXT NOT NULL,
		PRIMARY KEY (faculty_id, keyword_id),
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE,
		FOREIGN KEY (keyword_id) REFERENCES keyword(keyword_id)
	);
	CREATE INDEX IF NOT EXISTS idx_researches_keyword ON faculty_researches_keyword(keyword_id);

	CREATE TABLE IF NOT EXISTS publication (
		publication_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		abstract TEXT,
		year INTEGER
	);

	CREATE TABLE IF NOT EXISTS publication_authored_by_faculty (
		publication_id TEXT NOT NULL,
		faculty_id TEXT NOT NULL,
		PRIMARY KEY (publication_id, faculty_id),
		FOREIGN KEY (publication_id) REFERENCES publication(publication_id) ON DELETE CASCADE,
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_authored_by_faculty ON publication_authored_by_faculty(faculty_id);

	CREATE TABLE IF NOT EXISTS publication_keyword (
		publication_id TEXT NOT NULL,
		keyword_id TEXT NOT NULL,
		PRIMARY KEY (publication_id, keyword_id),
		FOREIGN KEY (publication_id) REFERENCES publication(publication_id) ON DELETE CASCADE,
		FOREIGN KEY (keyword_id) REFERENCES keyword(keyword_id)
	);
	CREATE INDEX IF NOT EXISTS idx_publication_keyword ON publication_keyword(keyword_id);

	CREATE TABLE IF NOT EXISTS grant_award (
		grant_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		agency TEXT
	);

	CREATE TABLE IF NOT EXISTS grant_awarded_to_faculty (
		grant_id TEXT NOT NULL,
		faculty_id TEXT NOT NULL,
		PRIMARY KEY (grant_id, faculty_id),
		FOREIGN KEY (grant_id) REFERENCES grant_award(grant_id) ON DELETE CASCADE,
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_grant_faculty ON grant_awarded_to_faculty(faculty_id);

	CREATE TABLE IF NOT EXISTS grant_keyword (
		grant_id TEXT NOT NULL,
		keyword_id TEXT NOT NULL,
		PRIMARY KEY (grant_id, keyword_id),
		FOREIGN KEY (grant_id) REFERENCES grant_award(grant_id) ON DELETE CASCADE,
		FOREIGN KEY (keyword_id) REFERENCES keyword(keyword_id)
	);
	CREATE INDEX IF NOT EXISTS idx_grant_keyword ON grant_keyword(keyword_id);

	CREATE TABLE IF NOT EXISTS faculty_affinity (
		faculty_a TEXT NOT NULL,
		faculty_b TEXT NOT NULL,
		signal TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (faculty_a, faculty_b, signal),
		FOREIGN KEY (faculty_a) REFERENCES faculty(faculty_id) ON DELETE CASCADE,
		FOREIGN KEY (faculty_b) REFERENCES faculty(faculty_id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_affinity_a ON faculty_affinity(faculty_a);

	CREATE TABLE IF NOT EXISTS keyword_generation (
		generation_id TEXT PRIMARY KEY,
		faculty_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_generation_faculty ON keyword_generation(faculty_id, created_at);

	CREATE TABLE IF NOT EXISTS credentials (
		faculty_id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS session (
		session_id TEXT PRIMARY KEY,
		faculty_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at INTEGER NOT NULL,
		revoked INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (faculty_id) REFERENCES faculty(faculty_id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_session_faculty ON session(faculty_id);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}
