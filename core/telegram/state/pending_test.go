package state

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedPending(ttl time.Duration) (*Pending[string], *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewPending[string](ttl)
	p.now = func() time.Time { return now }
	return p, &now
}

func TestPendingTakeOnce(t *testing.T) {
	p, _ := newClockedPending(time.Minute)
	token := p.Put(1, "color_red_text_with_underscores")
	require.Len(t, token, 36)

	v, ok := p.Take(1, token)
	require.True(t, ok)
	assert.Equal(t, "color_red_text_with_underscores", v)

	_, ok = p.Take(1, token)
	assert.False(t, ok)
}

func TestPendingOwnerCheck(t *testing.T) {
	p, _ := newClockedPending(time.Minute)
	token := p.Put(1, "secret")

	_, ok := p.Take(2, token)
	assert.False(t, ok)

	v, ok := p.Take(1, token)
	assert.True(t, ok)
	assert.Equal(t, "secret", v)
}

func TestPendingExpiry(t *testing.T) {
	p, now := newClockedPending(time.Minute)
	token := p.Put(1, "late")
	*now = now.Add(time.Minute)

	_, ok := p.Take(1, token)
	assert.False(t, ok)
	assert.Zero(t, p.Len())
}

func TestPendingPrune(t *testing.T) {
	p, now := newClockedPending(time.Minute)
	p.Put(1, "a")
	p.Put(2, "b")
	*now = now.Add(30 * time.Second)
	fresh := p.Put(3, "c")

	*now = now.Add(45 * time.Second)
	assert.Equal(t, 2, p.Prune())
	assert.Equal(t, 1, p.Len())

	v, ok := p.Take(3, fresh)
	assert.True(t, ok)
	assert.Equal(t, "c", v)
}

func TestPendingTokenFitsCallbackData(t *testing.T) {
	p := NewPending[string](0)
	token := p.Put(1, strings.Repeat("x", 4096))
	data := "\fqrcolor|purple|" + token
	assert.LessOrEqual(t, len(data), 64)
}
