package clip

import (
	"sync"
	"time"

	"github.com/fkozlowski/webclip"
)

// DefaultCacheTTL is how long a cached first page stays fresh.
const DefaultCacheTTL = 5 * time.Minute

// Cache holds the last-fetched first page of the document listing. Only
// page 0 is ever cached. The cache is invalidated on every successful write
// and on re-authentication, never on read.
//
// Cache is confined to one background process; calls never block on I/O.
type Cache struct {
	mu         sync.Mutex
	page       *webclip.DocumentPage
	fetchedAt  time.Time
	ttl        time.Duration
	totalPages int
}

// NewCache creates a cache with the given TTL. A zero TTL uses
// DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{ttl: ttl}
}

// Get returns the cached first page if it is still fresh at now.
func (c *Cache) Get(now time.Time) (*webclip.DocumentPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.page == nil || now.Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.page, true
}

// Put stores the first page.
func (c *Cache) Put(page *webclip.DocumentPage, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.page = page
	c.fetchedAt = now
	c.totalPages = (page.TotalHits + webclip.PageSize - 1) / webclip.PageSize
}

// Invalidate discards the cached page. The last known page count survives
// so callers can keep sizing their pagination controls.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.page = nil
}

// PageCount returns the page count observed on the last successful fetch.
func (c *Cache) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.totalPages
}
