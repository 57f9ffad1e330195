// Package store keeps the monster catalog in a SQL database so it can be
// imported once and shared. Two backends are supported: a single-file
// SQLite database, and a Dolt repository that records every import as a
// commit.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/dolthub/driver"
	_ "modernc.org/sqlite"
)

// Backend names a database engine.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendDolt   Backend = "dolt"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// ParseBackend maps a config value to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendSQLite, BackendDolt:
		return Backend(s), nil
	default:
		return "", fmt.Errorf("%w: %q (expected sqlite or dolt)", ErrUnknownBackend, s)
	}
}

const (
	sqliteFile   = "catalog.db"
	doltRepoDir  = "catalog"
	doltDatabase = "monsterid"
)

// Store manages the catalog database inside a monsterid data directory.
type Store struct {
	db      *sql.DB
	dbPath  string
	backend Backend
}

// Open opens or creates the store in dir. It creates the directory if it
// doesn't exist and initializes the schema.
func Open(backend Backend, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	var (
		db     *sql.DB
		dbPath string
		err    error
	)
	switch backend {
	case BackendSQLite:
		dbPath = filepath.Join(dir, sqliteFile)
		db, err = openSQLite(dbPath)
	case BackendDolt:
		dbPath = filepath.Join(dir, doltRepoDir)
		db, err = openDolt(dbPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, dbPath: dbPath, backend: backend}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func openSQLite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return db, nil
}

func openDolt(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("create dolt directory: %w", err)
	}

	// First, connect without specifying database to create it if needed
	initDSN := fmt.Sprintf("file://%s?commitname=monsterid&commitemail=monsterid@local", dbPath)
	initDB, err := sql.Open("dolt", initDSN)
	if err != nil {
		return nil, fmt.Errorf("open dolt for init: %w", err)
	}

	_, err = initDB.Exec("CREATE DATABASE IF NOT EXISTS " + doltDatabase)
	if err != nil {
		initDB.Close()
		return nil, fmt.Errorf("create database: %w", err)
	}
	initDB.Close()

	dsn := fmt.Sprintf("file://%s?commitname=monsterid&commitemail=monsterid@local&database=%s", dbPath, doltDatabase)
	db, err := sql.Open("dolt", dsn)
	if err != nil {
		return nil, fmt.Errorf("open dolt db: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying database connection for advanced operations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file or repository path.
func (s *Store) Path() string {
	return s.dbPath
}

// Backend returns the engine the store was opened with.
func (s *Store) Backend() Backend {
	return s.backend
}
