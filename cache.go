package inkwell

import (
	"sync"
	"time"
)

// contentCache is an in-memory snapshot of the loaded content with TTL.
// It keeps published and all-posts views side by side so preview sessions
// never trigger a second filesystem walk.
type contentCache struct {
	mu        sync.RWMutex
	published []Post
	all       []Post
	fetched   time.Time
	ttl       time.Duration
	store     *Store
}

func newContentCache(s *Store, ttl time.Duration) *contentCache {
	return &contentCache{store: s, ttl: ttl}
}

func (c *contentCache) valid() bool {
	return c.all != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *contentCache) Invalidate() {
	c.mu.Lock()
	c.published = nil
	c.all = nil
	c.mu.Unlock()
}

func (c *contentCache) load() error {
	if c.valid() {
		return nil
	}
	all, err := c.store.Load(true)
	if err != nil {
		return err
	}
	published := make([]Post, 0, len(all))
	for _, p := range all {
		if !p.Draft {
			published = append(published, p)
		}
	}
	c.all = all
	c.published = published
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached snapshots after ensuring freshness.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *contentCache) ensureLoaded() (published, all []Post, err error) {
	c.mu.RLock()
	if c.valid() {
		published, all = c.published, c.all
		c.mu.RUnlock()
		return published, all, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.published, c.all, nil
}

// ListPosts returns the sorted posts, with drafts when includeDrafts is set.
func (c *contentCache) ListPosts(includeDrafts bool) ([]Post, error) {
	published, all, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if includeDrafts {
		return all, nil
	}
	return published, nil
}

// GetPost returns a single post by slug from the cache.
func (c *contentCache) GetPost(slug string, includeDrafts bool) (Post, error) {
	posts, err := c.ListPosts(includeDrafts)
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}
