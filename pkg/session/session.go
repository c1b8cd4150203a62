package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is the Telegram identity attached to a session.
type Profile struct {
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Username   string `json:"username,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

// DisplayName joins first and last name, falling back to the username.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	if p.Username != "" {
		return "@" + p.Username
	}
	return ""
}

// Record is a single login session.
type Record struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	Profile
	AuthToken    string    `json:"auth_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Expired reports whether the record has been idle for longer than timeout.
func (r *Record) Expired(now time.Time, timeout time.Duration) bool {
	return r != nil && now.Sub(r.LastActivity) > timeout
}

// Clone returns a copy that shares no memory with r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// newer reports whether a should win over b when several sessions share a Telegram ID:
// most recent activity first, then most recent creation, then the greater session ID.
func newer(a, b *Record) bool {
	if !a.LastActivity.Equal(b.LastActivity) {
		return a.LastActivity.After(b.LastActivity)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.SessionID > b.SessionID
}
