// Package reddit links Telegram users to Reddit accounts over OAuth so
// the bot can resolve media from private or rate-limited listings.
package reddit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/tgrelay/relay-bot/internal/storage"
)

const stateTTL = 10 * time.Minute

var endpoint = oauth2.Endpoint{
	AuthURL:  "https://www.reddit.com/api/v1/authorize",
	TokenURL: "https://www.reddit.com/api/v1/access_token",
}

// Manager drives the OAuth round trip and keeps token sets in the store.
type Manager struct {
	cfg   *oauth2.Config
	store *storage.Store
	now   func() time.Time
}

func New(clientID, clientSecret, redirectURL string, store *storage.Store) *Manager {
	return &Manager{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identity", "read", "history"},
		},
		store: store,
		now:   time.Now,
	}
}

// Configured reports whether Reddit credentials were provided at all.
func (m *Manager) Configured() bool {
	return m.cfg.ClientID != "" && m.cfg.ClientSecret != ""
}

// AuthURL starts a linking round trip for one user and returns the URL to
// open. The state token ties the browser callback back to the Telegram
// chat that asked.
func (m *Manager) AuthURL(userID, chatID int64) (string, error) {
	state, err := newState()
	if err != nil {
		return "", err
	}
	if err := m.store.PutState(state, userID, chatID, stateTTL); err != nil {
		return "", err
	}
	return m.cfg.AuthCodeURL(state,
		oauth2.SetAuthURLParam("duration", "permanent"),
	), nil
}

// Complete consumes the callback's state and code and persists the token
// set. Returns the Telegram user and chat the round trip belongs to.
func (m *Manager) Complete(ctx context.Context, state, code string) (userID, chatID int64, err error) {
	userID, chatID, err = m.store.TakeState(state)
	if err != nil {
		return 0, 0, fmt.Errorf("unknown or expired state: %w", err)
	}

	token, err := m.cfg.Exchange(ctx, code)
	if err != nil {
		return 0, 0, fmt.Errorf("token exchange: %w", err)
	}

	sess := storage.Session{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}
	if err := m.store.SaveSession(sess); err != nil {
		return 0, 0, err
	}
	return userID, chatID, nil
}

// Linked reports whether userID has a stored Reddit session.
func (m *Manager) Linked(userID int64) bool {
	_, err := m.store.Session(userID)
	return err == nil
}

func newState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
