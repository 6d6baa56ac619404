package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/microblog-net/microblog/internal/store"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store keeps every document in a single table of JSON bodies and serves
// the named views as expression-indexed queries over json_extract.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by the schema_version table.
var migrations = []string{
	// Migration 1: documents table plus the view indexes
	`
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	doc TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(json_extract(doc, '$.type'));
CREATE INDEX IF NOT EXISTS idx_documents_date_created ON documents(json_extract(doc, '$.dateCreated'));
CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(json_extract(doc, '$.user'));
`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

// viewDef maps a named view to the documents it selects and the SQL
// expression producing the view key.
type viewDef struct {
	docType string
	keyExpr string
}

var views = map[string]viewDef{
	store.ViewPostsAll:    {docType: "post", keyExpr: "json_extract(doc, '$.dateCreated')"},
	store.ViewPostsByID:   {docType: "post", keyExpr: "id"},
	store.ViewUsersByID:   {docType: "user", keyExpr: "id"},
	store.ViewPostsByUser: {docType: "post", keyExpr: "json_extract(doc, '$.user')"},
}

func (s *Store) View(ctx context.Context, view string, opts store.ViewOpts) ([]store.Row, error) {
	def, ok := views[view]
	if !ok {
		return nil, fmt.Errorf("unknown view %q", view)
	}

	query := fmt.Sprintf(`SELECT id, %s, doc FROM documents WHERE json_extract(doc, '$.type') = ?`, def.keyExpr)
	args := []any{def.docType}
	if opts.Key != "" {
		query += fmt.Sprintf(` AND %s = ?`, def.keyExpr)
		args = append(args, opts.Key)
	}
	dir := "ASC"
	if opts.Descending {
		dir = "DESC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s, id %s`, def.keyExpr, dir, dir)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]store.Row, 0)
	for rows.Next() {
		var (
			id  string
			key sql.NullString
			doc []byte
		)
		if err := rows.Scan(&id, &key, &doc); err != nil {
			return nil, err
		}
		result = append(result, store.Row{ID: id, Key: key.String, Value: json.RawMessage(doc)})
	}
	return result, rows.Err()
}

func (s *Store) Save(ctx context.Context, key string, doc any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	if key == "" {
		key = uuid.NewString()
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO documents (id, doc, created_at) VALUES (?, ?, ?)
`, key, string(body), time.Now().Unix())
	if err != nil {
		if isConflict(err) {
			return "", store.ErrConflict
		}
		return "", err
	}
	return key, nil
}

func isConflict(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
