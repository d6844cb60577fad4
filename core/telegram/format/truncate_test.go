package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 50))
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hell...", Truncate("hello", 4))
	assert.Equal(t, strings.Repeat("a", 50)+"...", Truncate(strings.Repeat("a", 51), 50))
	assert.Equal(t, "", Truncate("", 10))
	assert.Equal(t, "...", Truncate("x", 0))
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "привет", Truncate("привет", 6))
	assert.Equal(t, "при...", Truncate("привет", 3))
	assert.Equal(t, "🔗🔗...", Truncate("🔗🔗🔗", 2))
}
