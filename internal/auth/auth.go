// Package auth decides which Telegram users may start transfers.
package auth

// Authorizer checks user IDs against a static allowlist. AllowAll opens
// the bot to everyone.
type Authorizer struct {
	allowAll bool
	users    map[int64]bool
}

func New(allowAll bool, userIDs []int64) *Authorizer {
	users := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		users[id] = true
	}
	return &Authorizer{allowAll: allowAll, users: users}
}

func (a *Authorizer) Allowed(userID int64) bool {
	if a.allowAll {
		return true
	}
	return a.users[userID]
}
