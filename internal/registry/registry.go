// Package registry tracks trained artifacts (trigram models, word lists,
// generated datasets) in a local SQLite database so tools can resolve the
// latest version per language and verify files on disk.
package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Artifact kinds recorded in the registry.
const (
	KindTrigramModel = "trigram_model"
	KindWordList     = "word_list"
	KindDataset      = "dataset"
)

// Schema for the relayout artifact registry.
const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    kind        TEXT NOT NULL,
    lang        TEXT NOT NULL,
    version     INTEGER NOT NULL,
    path        TEXT NOT NULL,
    checksum    BLOB NOT NULL,
    size_bytes  INTEGER NOT NULL,
    item_count  INTEGER NOT NULL,
    created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_artifacts_kind_lang ON artifacts(kind, lang, created_at);
`

// Artifact is a single recorded training or generation output.
type Artifact struct {
	ID        int64
	Kind      string
	Lang      string
	Version   int
	Path      string
	Checksum  [ChecksumSize]byte
	SizeBytes int64
	// ItemCount is kind-specific: trigram count for models, word count for
	// word lists, row count for datasets.
	ItemCount int64
	CreatedAt int64
}

// Registry represents the SQLite artifact registry.
type Registry struct {
	db *sql.DB
}

// Open opens or creates the registry database at the given path.
func Open(path string) (*Registry, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create registry directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close closes the database connection.
func (r *Registry) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record inserts an artifact and returns its ID. The checksum and size are
// computed from the file at a.Path when the checksum is zero.
func (r *Registry) Record(a *Artifact) (int64, error) {
	if a.Checksum == ([ChecksumSize]byte{}) {
		sum, size, err := ChecksumFile(a.Path)
		if err != nil {
			return 0, err
		}
		a.Checksum = sum
		a.SizeBytes = size
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}

	result, err := r.db.Exec(`
		INSERT INTO artifacts (kind, lang, version, path, checksum, size_bytes, item_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Kind, a.Lang, a.Version, a.Path, a.Checksum[:], a.SizeBytes, a.ItemCount, a.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert artifact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}

	a.ID = id
	return id, nil
}

// Latest retrieves the most recently recorded artifact of a kind for a
// language, or nil when none exists.
func (r *Registry) Latest(kind, lang string) (*Artifact, error) {
	var a Artifact
	var checksum []byte

	err := r.db.QueryRow(`
		SELECT id, kind, lang, version, path, checksum, size_bytes, item_count, created_at
		FROM artifacts
		WHERE kind = ? AND lang = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, kind, lang,
	).Scan(&a.ID, &a.Kind, &a.Lang, &a.Version, &a.Path, &checksum, &a.SizeBytes, &a.ItemCount, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest artifact: %w", err)
	}

	copy(a.Checksum[:], checksum)
	return &a, nil
}

// List retrieves all artifacts of a kind ordered newest first. An empty kind
// lists everything.
func (r *Registry) List(kind string) ([]Artifact, error) {
	query := `
		SELECT id, kind, lang, version, path, checksum, size_bytes, item_count, created_at
		FROM artifacts`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	return scanArtifacts(rows)
}

// ListByLang retrieves all artifacts for a language ordered newest first.
func (r *Registry) ListByLang(lang string) ([]Artifact, error) {
	rows, err := r.db.Query(`
		SELECT id, kind, lang, version, path, checksum, size_bytes, item_count, created_at
		FROM artifacts
		WHERE lang = ?
		ORDER BY created_at DESC, id DESC`, lang,
	)
	if err != nil {
		return nil, fmt.Errorf("query artifacts by lang: %w", err)
	}
	defer rows.Close()

	return scanArtifacts(rows)
}

// scanArtifacts is a helper to scan artifact rows into a slice.
func scanArtifacts(rows *sql.Rows) ([]Artifact, error) {
	var artifacts []Artifact

	for rows.Next() {
		var a Artifact
		var checksum []byte

		if err := rows.Scan(&a.ID, &a.Kind, &a.Lang, &a.Version, &a.Path, &checksum, &a.SizeBytes, &a.ItemCount, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}

		copy(a.Checksum[:], checksum)
		artifacts = append(artifacts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}

	return artifacts, nil
}
