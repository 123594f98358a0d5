package terminal

import (
	"errors"
	"testing"
	"time"
)

func TestStoreCreateAndGet(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create(testGlass)
	got, err := st.Get(s.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != s {
		t.Fatal("expected the same session instance")
	}
	if _, err := st.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	now := time.Now()
	st := NewStore(time.Minute)
	st.now = func() time.Time { return now }

	s := st.Create(testGlass)

	now = now.Add(30 * time.Second)
	if _, err := st.Get(s.ID()); err != nil {
		t.Fatalf("session must survive within ttl: %v", err)
	}

	// Get refreshed the ttl; expire from the refreshed instant.
	now = now.Add(2 * time.Minute)
	if _, err := st.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("expired session must be dropped, store len=%d", st.Len())
	}
}

func TestStoreSweep(t *testing.T) {
	now := time.Now()
	st := NewStore(time.Minute)
	st.now = func() time.Time { return now }

	st.Create(testGlass)
	st.Create(testGlass)
	live := st.Create(testGlass)

	now = now.Add(2 * time.Minute)
	live.touch(now)

	st.sweep()
	if st.Len() != 1 {
		t.Fatalf("expected 1 live session after sweep, got %d", st.Len())
	}
	if _, err := st.Get(live.ID()); err != nil {
		t.Fatalf("live session must survive sweep: %v", err)
	}
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	st := NewStore(0)
	st.now = func() time.Time { return now }

	s := st.Create(testGlass)
	now = now.Add(1000 * time.Hour)
	if _, err := st.Get(s.ID()); err != nil {
		t.Fatalf("zero ttl must never expire: %v", err)
	}
}
