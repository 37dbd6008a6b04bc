// Package auth owns user accounts and the login handshake every link
// must complete before it is routed into a match.
package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var (
	// ErrUserExists rejects a registration for a taken username.
	ErrUserExists = errors.New("username already registered")
	// ErrUserNotFound rejects a login for an unknown username.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword rejects a login with a bad password.
	ErrWrongPassword = errors.New("wrong password")
	// ErrAlreadyLogged rejects a second concurrent login of one account.
	ErrAlreadyLogged = errors.New("user already logged in")
)

// Store persists user accounts in a sqlite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed initializes) the database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening users db: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS users (
	username      TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing users db: %w", err)
	}
	return &Store{db: db}, nil
}

// CreateUser registers a new account.
func (s *Store) CreateUser(username, passwordHash string) error {
	_, err := s.db.Exec(
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, time.Now().UTC(),
	)
	if err != nil {
		var taken bool
		err2 := s.db.QueryRow(`SELECT COUNT(*) > 0 FROM users WHERE username = ?`, username).Scan(&taken)
		if err2 == nil && taken {
			return ErrUserExists
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Authenticate checks a username/password-hash pair.
func (s *Store) Authenticate(username, passwordHash string) error {
	var stored string
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE username = ?`, username).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if stored != passwordHash {
		return ErrWrongPassword
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
