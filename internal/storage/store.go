package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/bundlesize/internal/model"
)

// DBFileName is the name of the database file inside the data directory.
const DBFileName = "bundlesize.db"

// Store provides SQLite-based storage for bundle-size reports.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// now returns the upload time of saved reports.
	now func() time.Time
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: upload a report first", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the path of the database file.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) createTables() error {
	schema := `
	-- seq orders uploads; id is the public identifier
	CREATE TABLE IF NOT EXISTS reports (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		branch TEXT NOT NULL,
		commit_sha TEXT,
		created_at TEXT NOT NULL,
		entry_count INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_branch ON reports(branch);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// StoredReport is a report together with its upload metadata.
type StoredReport struct {
	Metadata

	// Report is the uploaded report.
	Report model.Report
}

// Metadata describes a stored report without its entries.
type Metadata struct {
	// ID is the unique identifier of the stored report.
	ID string

	// Branch is the branch the report was measured on.
	Branch string

	// CommitSHA is the commit the report was measured at. It may be empty.
	CommitSHA string

	// CreatedAt is the upload time.
	CreatedAt time.Time

	// Entries is the number of entries in the report.
	Entries int
}

// Save stores report for branch and returns the new report ID.
func (s *Store) Save(ctx context.Context, branch, commitSHA string, report model.Report) (string, error) {
	if branch == "" {
		return "", ErrEmptyBranch
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	id := uuid.NewString()
	query := `
	INSERT INTO reports (id, branch, commit_sha, created_at, entry_count, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		id,
		branch,
		commitSHA,
		s.now().UTC().Format(time.RFC3339Nano),
		len(report),
		string(reportJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return id, nil
}

// Latest returns the most recently uploaded report of branch.
// It returns ErrReportNotFound when the branch has no reports.
func (s *Store) Latest(ctx context.Context, branch string) (*StoredReport, error) {
	query := `
	SELECT id, branch, commit_sha, created_at, entry_count, report_json FROM reports
	WHERE branch = ?
	ORDER BY seq DESC
	LIMIT 1
	`
	r, err := scanReport(s.db.QueryRowContext(ctx, query, branch))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest report of %s: %w", branch, err)
	}
	return r, nil
}

// Get returns the stored report with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*StoredReport, error) {
	query := `
	SELECT id, branch, commit_sha, created_at, entry_count, report_json FROM reports
	WHERE id = ?
	`
	r, err := scanReport(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	return r, nil
}

func scanReport(row *sql.Row) (*StoredReport, error) {
	var (
		r          StoredReport
		commitSHA  sql.NullString
		createdAt  string
		reportJSON string
	)
	err := row.Scan(&r.ID, &r.Branch, &commitSHA, &createdAt, &r.Entries, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	r.CommitSHA = commitSHA.String
	r.CreatedAt = parseTimestamp(createdAt)
	if err := json.Unmarshal([]byte(reportJSON), &r.Report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}

// History returns the metadata of all reports of branch, newest first.
func (s *Store) History(ctx context.Context, branch string) ([]Metadata, error) {
	query := `
	SELECT id, branch, commit_sha, created_at, entry_count
	FROM reports
	WHERE branch = ?
	ORDER BY seq DESC
	`

	rows, err := s.db.QueryContext(ctx, query, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to get report history: %w", err)
	}
	defer rows.Close()

	var results []Metadata
	for rows.Next() {
		var (
			meta      Metadata
			commitSHA sql.NullString
			createdAt string
		)
		if err := rows.Scan(&meta.ID, &meta.Branch, &commitSHA, &createdAt, &meta.Entries); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.CommitSHA = commitSHA.String
		meta.CreatedAt = parseTimestamp(createdAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// Branches returns the names of all branches with stored reports.
func (s *Store) Branches(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT branch FROM reports
	ORDER BY branch
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []string
	for rows.Next() {
		var branch string
		if err := rows.Scan(&branch); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, branch)
	}

	return branches, rows.Err()
}

// parseTimestamp parses a stored upload time.
// Unparseable values yield the zero time.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
