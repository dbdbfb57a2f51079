// Package session defines the authenticated browser session and the gate that
// guards the reporting pages.
package session

import (
	"errors"
	"time"
)

// ErrUnauthenticated is returned by Gate when a request carries no usable
// session.
var ErrUnauthenticated = errors.New("unauthenticated")

// Session binds a browser to one account.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	LoggedIn  bool      `json:"loggedIn"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// Gate admits a session only when it exists, is flagged as logged in and is
// bound to a user.
func Gate(s *Session) error {
	if s == nil || !s.LoggedIn || s.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// Expired reports whether the session has been idle for longer than ttl.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(s.LastSeen) > ttl
}
