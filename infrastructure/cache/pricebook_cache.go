package cache

import (
	"sync"

	"slabquote/pricebook"
)

// PriceBookCache holds the current price book snapshot. Handlers read it on
// every lookup; refreshes swap the whole snapshot so a new fetch supersedes
// a prior one without partial state.
type PriceBookCache struct {
	mu   sync.RWMutex
	book *pricebook.Book
}

func NewPriceBookCache(book *pricebook.Book) *PriceBookCache {
	return &PriceBookCache{book: book}
}

// Get returns the current snapshot.
func (c *PriceBookCache) Get() *pricebook.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.book
}

// Swap replaces the snapshot.
func (c *PriceBookCache) Swap(book *pricebook.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.book = book
}
