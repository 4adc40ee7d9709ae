package main

import (
	"database/sql"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"
)

// Store is the key-value persistence abstraction behind the demo counters.
// The rock-paper-scissors matchmaker bumps games_played through it and the
// HTTP count endpoint reads it back.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Increment(key string, delta int64) (int64, error)
	Close() error
}

// SQLiteStore backs the Store interface with a single kv table
type SQLiteStore struct {
	conn *sql.DB
}

// OpenStore opens (or creates) the SQLite database
func OpenStore(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.conn.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Get returns the value for a key, empty string when absent
func (s *SQLiteStore) Get(key string) (string, error) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Set stores a value, overwriting any previous one
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.conn.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// Increment adds delta to a numeric key (creating it at delta) and returns
// the new value
func (s *SQLiteStore) Increment(key string, delta int64) (int64, error) {
	_, err := s.conn.Exec(`
		INSERT INTO kv (key, value) VALUES (?, CAST(? AS TEXT))
		ON CONFLICT(key) DO UPDATE SET value = CAST(CAST(value AS INTEGER) + ? AS TEXT)`,
		key, delta, delta,
	)
	if err != nil {
		return 0, err
	}
	raw, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

// MemStore is an in-memory Store for tests and for running without a
// database path
type MemStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (m *MemStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemStore) Increment(key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, _ := strconv.ParseInt(m.data[key], 10, 64)
	cur += delta
	m.data[key] = strconv.FormatInt(cur, 10)
	return cur, nil
}

func (m *MemStore) Close() error {
	return nil
}

// CounterValue reads a counter key, zero when absent or malformed
func CounterValue(s Store, key string) int64 {
	raw, err := s.Get(key)
	if err != nil {
		return 0
	}
	n, _ := strconv.ParseInt(raw, 10, 64)
	return n
}
