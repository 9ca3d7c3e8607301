package profile

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"grimm.is/netdevd/internal/setting"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no profile has the requested UUID.
var ErrNotFound = errors.New("profile not found")

// Store is the profile store. Implementations hand out copies; mutating a
// returned profile has no effect until it is saved.
type Store interface {
	Get(uuid string) (*setting.Connection, error)
	List() ([]*setting.Connection, error)
	Save(c *setting.Connection) error
	Delete(uuid string) error
}

// SQLiteStore is a Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu     sync.Mutex
	closed bool
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the profile database at path.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases from splitting
	// across the pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			uuid TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			type TEXT NOT NULL,
			interface_name TEXT NOT NULL DEFAULT '',
			document BLOB NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_profiles_interface ON profiles(interface_name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the profile with the given UUID.
func (s *SQLiteStore) Get(uuid string) (*setting.Connection, error) {
	var raw []byte
	err := s.db.QueryRow("SELECT document FROM profiles WHERE uuid = ?", uuid).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", uuid, err)
	}
	return decodeRow(raw)
}

// List returns every stored profile ordered by ID.
func (s *SQLiteStore) List() ([]*setting.Connection, error) {
	rows, err := s.db.Query("SELECT document FROM profiles ORDER BY id, uuid")
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var out []*setting.Connection
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		c, err := decodeRow(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Save inserts or replaces a profile.
func (s *SQLiteStore) Save(c *setting.Connection) error {
	if c.Conn.UUID == "" {
		return fmt.Errorf("cannot save profile %q without a uuid", c.Conn.ID)
	}
	raw, err := json.Marshal(NewDocument(c))
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("store is closed")
	}

	_, err = s.db.Exec(`
		INSERT INTO profiles (uuid, id, type, interface_name, document, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET
			id = excluded.id,
			type = excluded.type,
			interface_name = excluded.interface_name,
			document = excluded.document,
			updated_at = excluded.updated_at`,
		c.Conn.UUID, c.Conn.ID, c.Type(), c.InterfaceName(), raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", c, err)
	}
	return nil
}

// Delete removes a profile.
func (s *SQLiteStore) Delete(uuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM profiles WHERE uuid = ?", uuid)
	if err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", uuid, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func decodeRow(raw []byte) (*setting.Connection, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("corrupt profile document: %w", err)
	}
	return doc.ToConnection()
}
