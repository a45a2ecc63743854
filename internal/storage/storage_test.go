package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStateRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutState("abc123", 42, 99, 10*time.Minute); err != nil {
		t.Fatal(err)
	}
	userID, chatID, err := s.TakeState("abc123")
	if err != nil {
		t.Fatal(err)
	}
	if userID != 42 || chatID != 99 {
		t.Errorf("TakeState = (%d, %d), want (42, 99)", userID, chatID)
	}
}

func TestStateIsSingleUse(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutState("once", 1, 2, time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.TakeState("once"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.TakeState("once"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second take must miss, got %v", err)
	}
}

func TestStateExpiresOnRead(t *testing.T) {
	s := openTestStore(t)

	now := time.Unix(5000, 0)
	s.now = func() time.Time { return now }

	if err := s.PutState("stale", 1, 2, 10*time.Minute); err != nil {
		t.Fatal(err)
	}
	now = now.Add(11 * time.Minute)

	if _, _, err := s.TakeState("stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired state must miss, got %v", err)
	}
	// The expired row must also be gone.
	if _, _, err := s.TakeState("stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired state must be deleted, got %v", err)
	}
}

func TestUnknownState(t *testing.T) {
	s := openTestStore(t)
	if _, _, err := s.TakeState("never-stored"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown state must miss, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	in := Session{UserID: 7, AccessToken: "acc", RefreshToken: "ref", Expiry: expiry}
	if err := s.SaveSession(in); err != nil {
		t.Fatal(err)
	}

	got, err := s.Session(7)
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != "acc" || got.RefreshToken != "ref" {
		t.Errorf("tokens = %q/%q", got.AccessToken, got.RefreshToken)
	}
	if !got.Expiry.Equal(expiry) {
		t.Errorf("Expiry = %v, want %v", got.Expiry, expiry)
	}
}

func TestSessionUpsert(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveSession(Session{UserID: 7, AccessToken: "old", RefreshToken: "r1", Expiry: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSession(Session{UserID: 7, AccessToken: "new", RefreshToken: "r2", Expiry: time.Now()}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Session(7)
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != "new" {
		t.Errorf("AccessToken = %q, want new", got.AccessToken)
	}
}

func TestSessionWithoutRefreshTokenExpiresOnRead(t *testing.T) {
	s := openTestStore(t)

	now := time.Unix(9000, 0)
	s.now = func() time.Time { return now }

	if err := s.SaveSession(Session{UserID: 3, AccessToken: "a", Expiry: now.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Hour)

	if _, err := s.Session(3); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired refreshless session must miss, got %v", err)
	}
}

func TestSessionWithRefreshTokenSurvivesExpiry(t *testing.T) {
	s := openTestStore(t)

	now := time.Unix(9000, 0)
	s.now = func() time.Time { return now }

	if err := s.SaveSession(Session{UserID: 4, AccessToken: "a", RefreshToken: "r", Expiry: now.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Hour)

	if _, err := s.Session(4); err != nil {
		t.Errorf("refreshable session must survive access-token expiry, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveSession(Session{UserID: 9, AccessToken: "a", RefreshToken: "r", Expiry: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSession(9); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Session(9); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted session must miss, got %v", err)
	}
}
