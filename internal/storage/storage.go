// Package storage persists Reddit OAuth state across restarts in a local
// sqlite database.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound marks a lookup miss, including entries dropped for expiry.
var ErrNotFound = errors.New("not found")

// Session is a linked Reddit account's token set.
type Session struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Store wraps the database handle. now is swapped in tests.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS oauth_states (
			state      TEXT PRIMARY KEY,
			user_id    INTEGER NOT NULL,
			chat_id    INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reddit_sessions (
			user_id       INTEGER PRIMARY KEY,
			access_token  TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at    INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// PutState records a pending OAuth round trip keyed by its state token.
func (s *Store) PutState(state string, userID, chatID int64, ttl time.Duration) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO oauth_states (state, user_id, chat_id, expires_at) VALUES (?, ?, ?, ?)`,
		state, userID, chatID, s.now().Add(ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("put state: %w", err)
	}
	return nil
}

// TakeState consumes a state token. Expiry is enforced here, on read:
// expired rows are deleted and reported as missing.
func (s *Store) TakeState(state string) (userID, chatID int64, err error) {
	var expiresAt int64
	row := s.db.QueryRow(
		`SELECT user_id, chat_id, expires_at FROM oauth_states WHERE state = ?`, state,
	)
	if err := row.Scan(&userID, &chatID, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, fmt.Errorf("take state: %w", err)
	}

	if _, err := s.db.Exec(`DELETE FROM oauth_states WHERE state = ?`, state); err != nil {
		return 0, 0, fmt.Errorf("consume state: %w", err)
	}
	if s.now().Unix() > expiresAt {
		return 0, 0, ErrNotFound
	}
	return userID, chatID, nil
}

// SaveSession upserts the token set for one Telegram user.
func (s *Store) SaveSession(sess Session) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO reddit_sessions (user_id, access_token, refresh_token, expires_at) VALUES (?, ?, ?, ?)`,
		sess.UserID, sess.AccessToken, sess.RefreshToken, sess.Expiry.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) Session(userID int64) (*Session, error) {
	sess := Session{UserID: userID}
	var expiresAt int64
	row := s.db.QueryRow(
		`SELECT access_token, refresh_token, expires_at FROM reddit_sessions WHERE user_id = ?`, userID,
	)
	if err := row.Scan(&sess.AccessToken, &sess.RefreshToken, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	sess.Expiry = time.Unix(expiresAt, 0)

	// A session with no refresh token cannot outlive its access token.
	// Expiry is enforced here, on read.
	if sess.RefreshToken == "" && s.now().After(sess.Expiry) {
		if err := s.DeleteSession(userID); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *Store) DeleteSession(userID int64) error {
	if _, err := s.db.Exec(`DELETE FROM reddit_sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
