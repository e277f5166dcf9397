package otp

import (
	"sync"
	"testing"
	"time"
)

func newFrozen(start time.Time) (*Manager, *time.Time) {
	now := start
	m := NewWithClock(func() time.Time { return now })
	return m, &now
}

func TestStoreRetrieve(t *testing.T) {
	t.Parallel()

	m, _ := newFrozen(time.Unix(1000, 0))
	m.Store("a@x.com", "123456")

	code, ok := m.Retrieve("a@x.com")
	if !ok {
		t.Fatal("expected a live challenge")
	}
	if code != "123456" {
		t.Fatalf("code mismatch: got %q", code)
	}
}

func TestRetrieve_NoChallenge(t *testing.T) {
	t.Parallel()

	m := New()
	if _, ok := m.Retrieve("nobody@x.com"); ok {
		t.Fatal("expected no challenge in flight")
	}
}

func TestRetrieve_Expired(t *testing.T) {
	t.Parallel()

	m, now := newFrozen(time.Unix(1000, 0))
	m.Store("a@x.com", "123456")

	*now = now.Add(TTL - time.Second)
	if _, ok := m.Retrieve("a@x.com"); !ok {
		t.Fatal("challenge should still be live just before the deadline")
	}

	*now = now.Add(time.Second)
	if _, ok := m.Retrieve("a@x.com"); ok {
		t.Fatal("challenge should be expired at the deadline")
	}
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	m, _ := newFrozen(time.Unix(1000, 0))
	m.Store("a@x.com", "123456")
	m.Invalidate("a@x.com")

	if _, ok := m.Retrieve("a@x.com"); ok {
		t.Fatal("invalidated challenge must not be retrievable")
	}

	// idempotent
	m.Invalidate("a@x.com")
	m.Invalidate("never-stored@x.com")
}

func TestStore_Overwrites(t *testing.T) {
	t.Parallel()

	m, now := newFrozen(time.Unix(1000, 0))
	m.Store("a@x.com", "111111")

	*now = now.Add(9 * time.Minute)
	m.Store("a@x.com", "222222")

	code, ok := m.Retrieve("a@x.com")
	if !ok || code != "222222" {
		t.Fatalf("expected the later code to win, got %q ok=%v", code, ok)
	}

	// the overwrite also refreshed the expiry
	*now = now.Add(9 * time.Minute)
	if _, ok := m.Retrieve("a@x.com"); !ok {
		t.Fatal("refreshed challenge should still be live")
	}
}

func TestGenerate_SixDigits(t *testing.T) {
	t.Parallel()

	m := New()
	for i := 0; i < 100; i++ {
		code := m.Generate()
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}

func TestConcurrentStores(t *testing.T) {
	t.Parallel()

	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Store("a@x.com", m.Generate())
			m.Retrieve("a@x.com")
		}()
	}
	wg.Wait()

	if _, ok := m.Retrieve("a@x.com"); !ok {
		t.Fatal("one of the stored codes should be live")
	}
}
