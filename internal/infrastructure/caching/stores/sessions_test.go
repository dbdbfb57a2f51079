package stores

import (
	"sync"
	"testing"
	"time"

	"github.com/rewater/rewater-go/internal/domain/session"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*SessionsStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	store := NewSessionsStore(ttl, logging.NewDiscardLogger())
	store.SetClock(clock.Now)
	return store, clock
}

func TestSessionsStore_CreateAndTouch(t *testing.T) {
	store, clock := newTestStore(time.Hour)

	created := store.Create("user-1", "Rahim H.")
	require.NoError(t, session.Gate(created))
	assert.Equal(t, "Rahim H.", created.FullName)

	clock.Advance(30 * time.Minute)
	got, ok := store.Touch(created.ID)
	require.True(t, ok)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, clock.Now(), got.LastSeen)
}

func TestSessionsStore_TouchKeepsSessionAlive(t *testing.T) {
	store, clock := newTestStore(time.Hour)
	s := store.Create("user-1", "")

	for i := 0; i < 3; i++ {
		clock.Advance(45 * time.Minute)
		_, ok := store.Touch(s.ID)
		require.True(t, ok, "touch %d", i)
	}
}

func TestSessionsStore_IdleExpiry(t *testing.T) {
	store, clock := newTestStore(time.Hour)
	s := store.Create("user-1", "")

	clock.Advance(61 * time.Minute)
	_, ok := store.Touch(s.ID)
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestSessionsStore_Delete(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	s := store.Create("user-1", "")

	store.Delete(s.ID)
	store.Delete("unknown")
	_, ok := store.Touch(s.ID)
	assert.False(t, ok)
}

func TestSessionsStore_Cleanup(t *testing.T) {
	store, clock := newTestStore(time.Hour)
	old := store.Create("user-1", "")
	clock.Advance(50 * time.Minute)
	fresh := store.Create("user-2", "")
	clock.Advance(20 * time.Minute)

	assert.Equal(t, 1, store.Cleanup())
	assert.Equal(t, 1, store.Len())
	_, ok := store.Touch(old.ID)
	assert.False(t, ok)
	_, ok = store.Touch(fresh.ID)
	assert.True(t, ok)
}

func TestSessionsStore_ReturnsCopies(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	s := store.Create("user-1", "")
	s.LoggedIn = false

	got, ok := store.Touch(s.ID)
	require.True(t, ok)
	assert.True(t, got.LoggedIn)
}

func TestSessionsStore_Concurrent(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := store.Create("user", "")
			store.Touch(s.ID)
			store.Cleanup()
			store.Delete(s.ID)
		}()
	}
	wg.Wait()
	assert.Zero(t, store.Len())
}
