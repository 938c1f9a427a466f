package batch

import (
	"sync"

	"github.com/helix-lang/helix/runtime/lexer"
	"github.com/helix-lang/helix/runtime/source"
)

type cacheKey struct {
	digest   source.Digest
	startRow int
}

// Cache maps file content to its tokens. Entries keep the buffer they were
// scanned from alive, since tokens borrow it. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey][]lexer.Token
	hits    int
	misses  int
}

func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey][]lexer.Token)}
}

// Get returns the tokens of content with the given digest scanned from startRow.
func (c *Cache) Get(digest source.Digest, startRow int) ([]lexer.Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tokens, ok := c.entries[cacheKey{digest, startRow}]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return tokens, ok
}

func (c *Cache) Put(digest source.Digest, startRow int, tokens []lexer.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{digest, startRow}] = tokens
}

// Retain drops every entry whose digest is not in keep. Watch mode calls it
// after each run so edited files do not accumulate stale token slices.
func (c *Cache) Retain(keep []source.Digest) {
	set := make(map[source.Digest]bool, len(keep))
	for _, d := range keep {
		set[d] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if !set[key.digest] {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns lookup hits and misses since creation.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
