// Package store persists the vault collections in a local SQLite database.
// Content and passwordCheck columns hold the JSON interchange shapes, so a
// row round-trips ciphertext byte-for-byte.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/promptvault/promptvault/pkg/crypto"
	"github.com/promptvault/promptvault/pkg/vault"
)

const (
	DBFileName = "promptvault.db"
	FileMode   = 0600
	DirMode    = 0700
)

// SQLite implements vault.Store on a single database file.
type SQLite struct {
	db *sql.DB
}

// Open creates or opens the database under dir and applies the schema.
func Open(dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return nil, fmt.Errorf("store: creating data dir: %w", err)
	}
	dbPath := filepath.Join(dir, DBFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := os.Chmod(dbPath, FileMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: restricting database permissions: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS prompts (
			id             INTEGER PRIMARY KEY,
			title          TEXT NOT NULL,
			body           TEXT NOT NULL,
			notes          TEXT NOT NULL,
			folder_id      INTEGER,
			tags           TEXT NOT NULL,
			is_favorite    INTEGER NOT NULL DEFAULT 0,
			is_locked      INTEGER NOT NULL DEFAULT 0,
			password_check TEXT,
			date_created   INTEGER NOT NULL,
			date_modified  INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("store: creating prompts table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS folders (
			id             INTEGER PRIMARY KEY,
			name           TEXT NOT NULL,
			is_locked      INTEGER NOT NULL DEFAULT 0,
			password_check TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("store: creating folders table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tags (
			name TEXT PRIMARY KEY
		)
	`)
	if err != nil {
		return fmt.Errorf("store: creating tags table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_prompts_folder ON prompts(folder_id)`)
	if err != nil {
		return fmt.Errorf("store: creating folder index: %w", err)
	}
	return nil
}

// ---- prompts ----

const promptColumns = `id, title, body, notes, folder_id, tags, is_favorite, is_locked, password_check, date_created, date_modified`

func (s *SQLite) GetAllPrompts() ([]*vault.Prompt, error) {
	rows, err := s.db.Query(`SELECT ` + promptColumns + ` FROM prompts`)
	if err != nil {
		return nil, fmt.Errorf("store: querying prompts: %w", err)
	}
	defer rows.Close()

	var out []*vault.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: reading prompts: %w", err)
	}
	return out, nil
}

func (s *SQLite) PutPrompt(p *vault.Prompt) error {
	args, err := promptArgs(p)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(upsertPromptSQL, args...)
	if err != nil {
		return fmt.Errorf("store: upserting prompt %d: %w", p.ID, err)
	}
	return nil
}

func (s *SQLite) BulkPutPrompts(ps []*vault.Prompt) error {
	if len(ps) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertPromptSQL)
	if err != nil {
		return fmt.Errorf("store: preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range ps {
		args, err := promptArgs(p)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("store: upserting prompt %d: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: committing prompts: %w", err)
	}
	return nil
}

func (s *SQLite) DeletePrompt(id int64) error {
	_, err := s.db.Exec(`DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: deleting prompt %d: %w", id, err)
	}
	return nil
}

func (s *SQLite) BulkDeletePrompts(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`DELETE FROM prompts WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("store: preparing delete: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			return fmt.Errorf("store: deleting prompt %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: committing deletes: %w", err)
	}
	return nil
}

const upsertPromptSQL = `
	INSERT INTO prompts (` + promptColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		body = excluded.body,
		notes = excluded.notes,
		folder_id = excluded.folder_id,
		tags = excluded.tags,
		is_favorite = excluded.is_favorite,
		is_locked = excluded.is_locked,
		password_check = excluded.password_check,
		date_created = excluded.date_created,
		date_modified = excluded.date_modified
`

func promptArgs(p *vault.Prompt) ([]any, error) {
	body, err := json.Marshal(p.Body)
	if err != nil {
		return nil, fmt.Errorf("store: encoding body of prompt %d: %w", p.ID, err)
	}
	notes, err := json.Marshal(p.Notes)
	if err != nil {
		return nil, fmt.Errorf("store: encoding notes of prompt %d: %w", p.ID, err)
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return nil, fmt.Errorf("store: encoding tags of prompt %d: %w", p.ID, err)
	}
	check, err := marshalCheck(p.PasswordCheck)
	if err != nil {
		return nil, fmt.Errorf("store: encoding password check of prompt %d: %w", p.ID, err)
	}
	var folderID any
	if p.FolderID != nil {
		folderID = *p.FolderID
	}
	return []any{
		p.ID, p.Title, string(body), string(notes), folderID, string(tags),
		p.IsFavorite, p.IsLocked, check, p.DateCreated, p.DateModified,
	}, nil
}

func scanPrompt(rows *sql.Rows) (*vault.Prompt, error) {
	var (
		p        vault.Prompt
		body     string
		notes    string
		folderID sql.NullInt64
		tags     string
		check    sql.NullString
	)
	err := rows.Scan(&p.ID, &p.Title, &body, &notes, &folderID, &tags,
		&p.IsFavorite, &p.IsLocked, &check, &p.DateCreated, &p.DateModified)
	if err != nil {
		return nil, fmt.Errorf("store: scanning prompt: %w", err)
	}
	if err := json.Unmarshal([]byte(body), &p.Body); err != nil {
		return nil, fmt.Errorf("store: decoding body of prompt %d: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(notes), &p.Notes); err != nil {
		return nil, fmt.Errorf("store: decoding notes of prompt %d: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("store: decoding tags of prompt %d: %w", p.ID, err)
	}
	if folderID.Valid {
		id := folderID.Int64
		p.FolderID = &id
	}
	p.PasswordCheck, err = unmarshalCheck(check)
	if err != nil {
		return nil, fmt.Errorf("store: decoding password check of prompt %d: %w", p.ID, err)
	}
	return &p, nil
}

// ---- folders ----

func (s *SQLite) GetAllFolders() ([]*vault.Folder, error) {
	rows, err := s.db.Query(`SELECT id, name, is_locked, password_check FROM folders`)
	if err != nil {
		return nil, fmt.Errorf("store: querying folders: %w", err)
	}
	defer rows.Close()

	var out []*vault.Folder
	for rows.Next() {
		var (
			f     vault.Folder
			check sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.IsLocked, &check); err != nil {
			return nil, fmt.Errorf("store: scanning folder: %w", err)
		}
		f.PasswordCheck, err = unmarshalCheck(check)
		if err != nil {
			return nil, fmt.Errorf("store: decoding password check of folder %d: %w", f.ID, err)
		}
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: reading folders: %w", err)
	}
	return out, nil
}

func (s *SQLite) PutFolder(f *vault.Folder) error {
	check, err := marshalCheck(f.PasswordCheck)
	if err != nil {
		return fmt.Errorf("store: encoding password check of folder %d: %w", f.ID, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO folders (id, name, is_locked, password_check)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_locked = excluded.is_locked,
			password_check = excluded.password_check
	`, f.ID, f.Name, f.IsLocked, check)
	if err != nil {
		return fmt.Errorf("store: upserting folder %d: %w", f.ID, err)
	}
	return nil
}

func (s *SQLite) DeleteFolder(id int64) error {
	_, err := s.db.Exec(`DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: deleting folder %d: %w", id, err)
	}
	return nil
}

// ---- tags ----

func (s *SQLite) GetAllTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: querying tags: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: scanning tag: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: reading tags: %w", err)
	}
	return out, nil
}

func (s *SQLite) PutTag(name string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO tags (name) VALUES (?)`, name)
	if err != nil {
		return fmt.Errorf("store: inserting tag %q: %w", name, err)
	}
	return nil
}

func (s *SQLite) DeleteTag(name string) error {
	_, err := s.db.Exec(`DELETE FROM tags WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("store: deleting tag %q: %w", name, err)
	}
	return nil
}

func marshalCheck(ct *crypto.Ciphertext) (any, error) {
	if ct == nil {
		return nil, nil
	}
	data, err := json.Marshal(ct)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalCheck(s sql.NullString) (*crypto.Ciphertext, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var ct crypto.Ciphertext
	if err := json.Unmarshal([]byte(s.String), &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}
