package priority

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanBump(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	t.Run("needs a forty point margin", func(t *testing.T) {
		start := now.Add(48 * time.Hour)
		assert.True(t, CanBump(140, 100, start, now, false))
		assert.False(t, CanBump(139.9, 100, start, now, false))
	})

	t.Run("needs a full day of notice", func(t *testing.T) {
		assert.True(t, CanBump(200, 100, now.Add(24*time.Hour), now, false))
		assert.False(t, CanBump(200, 100, now.Add(23*time.Hour), now, false))
	})

	t.Run("admin bypasses notice but not the margin", func(t *testing.T) {
		soon := now.Add(time.Hour)
		assert.True(t, CanBump(140, 100, soon, now, true))
		assert.False(t, CanBump(139, 100, soon, now, true))
	})
}
