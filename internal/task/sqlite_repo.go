package task

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"taskodo/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    id   TEXT PRIMARY KEY,
    seq  INTEGER NOT NULL,
    line INTEGER NOT NULL,
    ord  INTEGER NOT NULL,
    body TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_seq ON tasks(seq);
`

// SQLitePersister stores one row per task. seq keeps board order; line and
// ord are copied out of the JSON body so the table can be queried directly.
type SQLitePersister struct {
	db *sql.DB
}

var _ Persister = (*SQLitePersister)(nil)

func OpenSQLitePersister(dbPath string) (*SQLitePersister, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLitePersister{db: db}, nil
}

// NewSQLiteRepo opens a Store backed by the SQLite file at dbPath.
func NewSQLiteRepo(dbPath string) (*Store, *SQLitePersister, error) {
	p, err := OpenSQLitePersister(dbPath)
	if err != nil {
		return nil, nil, err
	}
	s, err := NewStore(p)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	return s, p, nil
}

func (p *SQLitePersister) Close() error {
	return p.db.Close()
}

func (p *SQLitePersister) Load() ([]model.Task, error) {
	rows, err := p.db.Query(`SELECT body FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var t model.Task
		if err := json.Unmarshal([]byte(body), &t); err != nil {
			return nil, fmt.Errorf("decode task row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Save rewrites the table in one transaction.
func (p *SQLitePersister) Save(tasks []model.Task) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO tasks (id, seq, line, ord, body) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tasks {
		body, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(string(t.ID), i, int(t.Line), t.Order, string(body)); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}
