package reddit

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Linked is called after a successful callback so the bot can confirm in
// the originating chat.
type Linked func(userID, chatID int64)

// Server returns the HTTP server that terminates the OAuth redirect.
func (m *Manager) Server(addr string, onLinked Linked) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/reddit/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if errCode := query.Get("error"); errCode != "" {
			logrus.WithField("error", errCode).Warn("Reddit authorization denied")
			http.Error(w, "Authorization denied.", http.StatusForbidden)
			return
		}

		state, code := query.Get("state"), query.Get("code")
		if state == "" || code == "" {
			http.Error(w, "Missing state or code.", http.StatusBadRequest)
			return
		}

		userID, chatID, err := m.Complete(r.Context(), state, code)
		if err != nil {
			logrus.WithError(err).Warn("Reddit callback rejected")
			http.Error(w, "Link expired or invalid. Ask the bot for a new link.", http.StatusBadRequest)
			return
		}

		logrus.WithField("user_id", userID).Info("Reddit account linked")
		if onLinked != nil {
			onLinked(userID, chatID)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><h2>Reddit account linked.</h2><p>You can close this tab and return to Telegram.</p></body></html>"))
	})

	return &http.Server{Addr: addr, Handler: mux}
}
