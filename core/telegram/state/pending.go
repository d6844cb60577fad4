package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPendingTTL bounds how long a pending value waits for its button press.
const DefaultPendingTTL = time.Hour

type pendingEntry[T any] struct {
	owner   int64
	value   T
	created time.Time
}

// Pending maps opaque tokens to values owned by a single user.
// Tokens are single use and expire after the configured TTL.
type Pending[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]pendingEntry[T]
}

// NewPending creates a store whose entries live for ttl (DefaultPendingTTL when ttl <= 0).
func NewPending[T any](ttl time.Duration) *Pending[T] {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &Pending[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]pendingEntry[T]),
	}
}

// Put stores value for owner and returns the token that redeems it.
func (p *Pending[T]) Put(owner int64, value T) string {
	token := uuid.NewString()
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	p.pruneLocked(now)
	p.entries[token] = pendingEntry[T]{owner: owner, value: value, created: now}
	return token
}

// Take redeems token for owner. A token belonging to another user is left in place.
func (p *Pending[T]) Take(owner int64, token string) (T, bool) {
	var zero T
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[token]
	if !ok {
		return zero, false
	}
	if p.expired(entry, p.now()) {
		delete(p.entries, token)
		return zero, false
	}
	if entry.owner != owner {
		return zero, false
	}
	delete(p.entries, token)
	return entry.value, true
}

// Prune drops expired entries and returns how many were removed.
func (p *Pending[T]) Prune() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pruneLocked(p.now())
}

// Len returns the number of stored entries, expired ones included.
func (p *Pending[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

func (p *Pending[T]) pruneLocked(now time.Time) int {
	removed := 0
	for token, entry := range p.entries {
		if p.expired(entry, now) {
			delete(p.entries, token)
			removed++
		}
	}
	return removed
}

func (p *Pending[T]) expired(entry pendingEntry[T], now time.Time) bool {
	return now.Sub(entry.created) >= p.ttl
}
