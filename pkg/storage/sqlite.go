package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteFile is the database file created inside the engine directory.
const SQLiteFile = "kvbind.sqlite"

type SQLiteEngine struct {
	db *sql.DB
	mu sync.Mutex
}

func OpenSQLite(dir string) (*SQLiteEngine, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, wrap("open", err)
	}
	// pragmas in the DSN apply to every pooled connection
	dsn := "file:" + filepath.Join(dir, SQLiteFile) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrap("open", err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS data (
		key TEXT PRIMARY KEY,
		value BLOB
	);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, wrap("init table", err)
	}

	return &SQLiteEngine{db: db}, nil
}

func (s *SQLiteEngine) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("INSERT OR REPLACE INTO data (key, value) VALUES (?, ?)", string(key), value)
	return wrap("set", err)
}

func (s *SQLiteEngine) Get(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.QueryRow("SELECT value FROM data WHERE key = ?", string(key)).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get", err)
	}
	if val == nil {
		val = []byte{}
	}
	return val, nil
}

func (s *SQLiteEngine) Close() error {
	return wrap("close", s.db.Close())
}
