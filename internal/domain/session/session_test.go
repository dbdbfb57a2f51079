package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGate(t *testing.T) {
	cases := []struct {
		name string
		s    *Session
		ok   bool
	}{
		{"nil", nil, false},
		{"not logged in", &Session{UserID: "u1"}, false},
		{"no user", &Session{LoggedIn: true}, false},
		{"valid", &Session{UserID: "u1", LoggedIn: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Gate(tc.s)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnauthenticated)
			}
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s := &Session{LastSeen: now.Add(-30 * time.Minute)}

	assert.False(t, s.Expired(now, time.Hour))
	assert.True(t, s.Expired(now, 10*time.Minute))
	assert.False(t, s.Expired(now, 0), "zero ttl never expires")
}
