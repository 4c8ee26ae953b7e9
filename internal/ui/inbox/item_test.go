package inbox

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "abc…", truncate("abcdef", 4))

	// Zero or negative width leaves the string alone.
	assert.Equal(t, "anything", truncate("anything", 0))
}

func TestTruncateMultibyte(t *testing.T) {
	// A cut point landing inside a multibyte rune must not produce
	// invalid UTF-8.
	s := "héllo wörld émail sübject"
	for max := 1; max <= len([]rune(s)); max++ {
		got := truncate(s, max)
		assert.True(t, utf8.ValidString(got), "invalid UTF-8 at max=%d: %q", max, got)
		assert.LessOrEqual(t, len([]rune(strings.TrimSuffix(got, "…"))), max)
	}

	assert.Equal(t, "日本…", truncate("日本語のメール", 3))
}

func TestRelativeTime(t *testing.T) {
	assert.Equal(t, "", relativeTime(time.Time{}))
	assert.Equal(t, "now", relativeTime(time.Now().Add(-10*time.Second)))
	assert.Equal(t, "5m", relativeTime(time.Now().Add(-5*time.Minute)))
	assert.Equal(t, "3h", relativeTime(time.Now().Add(-3*time.Hour)))
	assert.Equal(t, "2d", relativeTime(time.Now().Add(-49*time.Hour)))
}
