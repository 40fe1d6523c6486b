package clip_test

import (
	"testing"
	"time"

	"github.com/fkozlowski/webclip"
	"github.com/fkozlowski/webclip/clip"
	"github.com/stretchr/testify/assert"
)

func TestCache_GetPut(t *testing.T) {
	t.Parallel()

	c := clip.NewCache(time.Minute)
	now := fixedNow

	_, ok := c.Get(now)
	assert.False(t, ok, "empty cache returned a page")

	page := &webclip.DocumentPage{TotalHits: 120}
	c.Put(page, now)

	got, ok := c.Get(now.Add(59 * time.Second))
	assert.True(t, ok)
	assert.Same(t, page, got)

	_, ok = c.Get(now.Add(time.Minute))
	assert.False(t, ok, "stale page served")
}

func TestCache_Invalidate(t *testing.T) {
	t.Parallel()

	c := clip.NewCache(time.Minute)
	c.Put(&webclip.DocumentPage{TotalHits: 120}, fixedNow)

	c.Invalidate()

	_, ok := c.Get(fixedNow)
	assert.False(t, ok)
	// Page count survives invalidation for pagination controls.
	assert.Equal(t, 3, c.PageCount())
}

func TestCache_PageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		totalHits int
		want      int
	}{
		{totalHits: 0, want: 0},
		{totalHits: 1, want: 1},
		{totalHits: 50, want: 1},
		{totalHits: 51, want: 2},
		{totalHits: 120, want: 3},
	}

	for _, tt := range tests {
		c := clip.NewCache(time.Minute)
		c.Put(&webclip.DocumentPage{TotalHits: tt.totalHits}, fixedNow)
		assert.Equal(t, tt.want, c.PageCount(), "totalHits=%d", tt.totalHits)
	}
}

func TestCache_ZeroTTLUsesDefault(t *testing.T) {
	t.Parallel()

	c := clip.NewCache(0)
	c.Put(&webclip.DocumentPage{}, fixedNow)

	_, ok := c.Get(fixedNow.Add(clip.DefaultCacheTTL - time.Second))
	assert.True(t, ok)

	_, ok = c.Get(fixedNow.Add(clip.DefaultCacheTTL))
	assert.False(t, ok)
}
