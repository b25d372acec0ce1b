package provider

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/fma-project/fma-go/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteProvider stores each root item as one row, the document YAML-
// encoded into a TEXT column — grounded on the teacher's db.Store.Open/
// openDB shape (WAL mode, file: URI with escaped paths), adapted from a
// typed sqlc query layer to this package's single items table. The schema
// is created if missing; an existing table is used as it is.
type SQLiteProvider struct {
	id          string
	displayName string
	writable    bool
	dbPath      string
	db          *sql.DB
	log         *log.Logger
}

// OpenSQLiteProvider opens or creates a SQLite database at dbPath.
func OpenSQLiteProvider(id, displayName, dbPath string, writable bool, logger *log.Logger) (*SQLiteProvider, error) {
	if logger == nil {
		logger = log.Default()
	}
	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteProvider{id: id, displayName: displayName, writable: writable, dbPath: dbPath, db: db, log: logger}, nil
}

func openSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	escapedPath := strings.ReplaceAll(dbPath, " ", "%20")
	connStr := "file:" + escapedPath
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return db, nil
}

func (p *SQLiteProvider) Close() error { return p.db.Close() }

func (p *SQLiteProvider) ID() string             { return p.id }
func (p *SQLiteProvider) DisplayName() string    { return p.displayName }
func (p *SQLiteProvider) IsWillingToWrite() bool { return p.writable }
func (p *SQLiteProvider) SupportsExport() bool   { return false }
func (p *SQLiteProvider) SupportsImport() bool   { return false }

func (p *SQLiteProvider) IsAbleToWrite() bool {
	if !p.writable {
		return false
	}
	return dirWritable(filepath.Dir(p.dbPath))
}

func (p *SQLiteProvider) ReadItems(ctx context.Context) ([]*model.Item, []string, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT id, doc FROM items ORDER BY id")
	if err != nil {
		return nil, nil, fmt.Errorf("provider %s: query items: %w", p.id, err)
	}
	defer rows.Close()

	var items []*model.Item
	var messages []string
	for rows.Next() {
		var id, docText string
		if err := rows.Scan(&id, &docText); err != nil {
			messages = append(messages, fmt.Sprintf("provider %s: scan row: %v", p.id, err))
			continue
		}
		var d itemDoc
		if err := yaml.Unmarshal([]byte(docText), &d); err != nil {
			messages = append(messages, fmt.Sprintf("provider %s: parse row %q: %v", p.id, id, err))
			continue
		}
		item := docToItem(&d, p.id, &messages)
		if item == nil {
			continue
		}
		if d.SchemaVersion > currentSchemaVersion {
			messages = append(messages, fmt.Sprintf("provider %s: item %q declares schema_version %d, newer than understood (%d); loaded best-effort", p.id, d.ID, d.SchemaVersion, currentSchemaVersion))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return items, messages, fmt.Errorf("provider %s: iterate rows: %w", p.id, err)
	}
	return items, messages, nil
}

func (p *SQLiteProvider) WriteItem(ctx context.Context, item *model.Item) (StatusCode, []string) {
	if !p.writable {
		return StatusReadOnly, []string{fmt.Sprintf("provider %s is not willing to write", p.id)}
	}
	d := itemToDoc(item)
	out, err := yaml.Marshal(d)
	if err != nil {
		return StatusIOError, []string{fmt.Sprintf("provider %s: marshal %q: %v", p.id, item.ID, err)}
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO items (id, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		item.ID, string(out), time.Now().UTC())
	if err != nil {
		return StatusIOError, []string{fmt.Sprintf("provider %s: write %q: %v", p.id, item.ID, err)}
	}
	return StatusOK, nil
}

func (p *SQLiteProvider) DeleteItem(ctx context.Context, item *model.Item) (StatusCode, []string) {
	if !p.writable {
		return StatusReadOnly, []string{fmt.Sprintf("provider %s is not willing to write", p.id)}
	}
	res, err := p.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", item.ID)
	if err != nil {
		return StatusIOError, []string{fmt.Sprintf("provider %s: delete %q: %v", p.id, item.ID, err)}
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return StatusNotFound, nil
	}
	return StatusOK, nil
}

func (p *SQLiteProvider) DuplicateProviderData(ctx context.Context, src, dst *model.Item) []string {
	return nil
}

// Watch polls the table's max(updated_at) every pollInterval; no
// fsnotify-equivalent is wired for a SQLite file (see DESIGN.md).
func (p *SQLiteProvider) Watch(ctx context.Context, notify func()) {
	const pollInterval = 2 * time.Second
	var lastSeen time.Time

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var latest sql.NullTime
			if err := p.db.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM items").Scan(&latest); err != nil {
				continue
			}
			if latest.Valid && latest.Time.After(lastSeen) {
				lastSeen = latest.Time
				notify()
			}
		}
	}
}
