// Package fs provides the durable corpus store: accepted documents are
// kept verbatim on disk, one directory per assignment, with a SQLite
// hash ledger answering existence and listing queries.
package fs

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/veriscan-labs/veriscan-cli/internal/adapters/driven/storage/fs/migrations"
	"github.com/veriscan-labs/veriscan-cli/internal/core/domain"
	"github.com/veriscan-labs/veriscan-cli/internal/core/ports/driven"
	"github.com/veriscan-labs/veriscan-cli/internal/logger"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore persists accepted documents under
// dataDir/assignments/<assignment>/ and records their hashes in
// dataDir/corpus.db. The ledger row is written only after the document
// bytes are durably on disk; a failed ledger write removes the file so
// no partial state survives.
type CorpusStore struct {
	db      *sql.DB
	dataDir string
}

// NewCorpusStore opens (or creates) the corpus store at dataDir.
// If dataDir is empty, defaults to ~/.veriscan/data.
func NewCorpusStore(dataDir string) (*CorpusStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".veriscan", "data")
	}

	if err := os.MkdirAll(filepath.Join(dataDir, "assignments"), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")

	// WAL mode for better concurrency between assignments.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &CorpusStore{db: db, dataDir: dataDir}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the ledger database.
func (s *CorpusStore) Close() error {
	return s.db.Close()
}

// Exists reports whether the assignment corpus contains the hash.
func (s *CorpusStore) Exists(ctx context.Context, assignment, contentHash string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM corpus_entries
		WHERE assignment = ? AND content_hash = ?
	`, assignment, contentHash)

	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("querying ledger: %w", err)
	}
	return count > 0, nil
}

// List returns the corpus entries for an assignment in insertion order.
func (s *CorpusStore) List(ctx context.Context, assignment string) ([]domain.CorpusEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, content_hash, created_at
		FROM corpus_entries
		WHERE assignment = ?
		ORDER BY created_at, filename
	`, assignment)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var entries []domain.CorpusEntry
	for rows.Next() {
		var entry domain.CorpusEntry
		var createdAt sql.NullTime
		if err := rows.Scan(&entry.Filename, &entry.ContentHash, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		if createdAt.Valid {
			entry.CreatedAt = createdAt.Time
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Content returns the stored bytes of a corpus entry.
func (s *CorpusStore) Content(_ context.Context, assignment, filename string) ([]byte, error) {
	data, err := os.ReadFile(s.entryPath(assignment, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading corpus entry: %w", err)
	}
	return data, nil
}

// Insert writes the document bytes, then records the ledger row.
// Colliding filenames receive a " (n)" suffix before the extension;
// insertion never overwrites an existing entry.
func (s *CorpusStore) Insert(ctx context.Context, assignment, filename string, content []byte, contentHash string) (string, error) {
	exists, err := s.Exists(ctx, assignment, contentHash)
	if err != nil {
		return "", err
	}
	if exists {
		return "", domain.ErrDuplicateContent
	}

	dir := filepath.Join(s.dataDir, "assignments", sanitize(assignment))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating assignment directory: %w", err)
	}

	stored := sanitize(filename)
	path := filepath.Join(dir, stored)
	for i := 1; ; i++ {
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			break
		}
		ext := filepath.Ext(filename)
		stored = fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(sanitize(filename), ext), i, ext)
		path = filepath.Join(dir, stored)
	}

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("writing corpus entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO corpus_entries (assignment, filename, content_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, assignment, stored, contentHash, time.Now().UTC())
	if err != nil {
		// Undo the file write so acceptance is all-or-nothing.
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Warn("orphaned corpus file %s: %v", path, rmErr)
		}
		return "", fmt.Errorf("recording ledger entry: %w", err)
	}
	return stored, nil
}

func (s *CorpusStore) entryPath(assignment, filename string) string {
	return filepath.Join(s.dataDir, "assignments", sanitize(assignment), filepath.Base(filename))
}

// sanitize keeps stored names inside the assignment directory.
func sanitize(name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return "_"
	}
	return name
}

// migrate runs all pending migrations.
func (s *CorpusStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}
