package otp

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// TTL is how long a stored code stays valid.
const TTL = 10 * time.Minute

type record struct {
	code      string
	expiresAt time.Time
}

// Manager is a process-wide store of one live code per email address.
// Expiry is checked lazily on retrieval; expired entries linger until
// overwritten or invalidated. Concurrent stores for the same email are
// resolved last-write-wins.
type Manager struct {
	mu    sync.Mutex
	codes map[string]record
	now   func() time.Time
}

// New creates an empty manager using the wall clock.
func New() *Manager {
	return NewWithClock(time.Now)
}

// NewWithClock creates a manager with an injectable clock.
func NewWithClock(now func() time.Time) *Manager {
	return &Manager{
		codes: make(map[string]record),
		now:   now,
	}
}

// Generate returns a 6-digit numeric code. Leading zeros are allowed.
// The code is a short-lived shared secret, not a cryptographic token.
func (m *Manager) Generate() string {
	return fmt.Sprintf("%06d", rand.IntN(1000000))
}

// Store saves a code for an email, overwriting any prior record.
func (m *Manager) Store(email, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = record{
		code:      code,
		expiresAt: m.now().Add(TTL),
	}
}

// Retrieve returns the live code for an email, or ok=false when no
// challenge is in flight or the stored one has expired.
func (m *Manager) Retrieve(email string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.codes[email]
	if !ok || !m.now().Before(r.expiresAt) {
		return "", false
	}
	return r.code, true
}

// Invalidate removes any record for an email. Idempotent.
func (m *Manager) Invalidate(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, email)
}
