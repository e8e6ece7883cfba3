package loader

import (
	"os"
	"sync"

	"github.com/xaenox/datalake-chat/internal/models"
)

// Cache keeps parsed datasets keyed by absolute path, valid while mtime and size are unchanged
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*models.Dataset
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*models.Dataset),
	}
}

func (c *Cache) Get(path string, info os.FileInfo) (*models.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ds, exists := c.entries[path]
	if !exists || !ds.ModTime.Equal(info.ModTime()) || ds.Size != info.Size() {
		return nil, false
	}
	return ds, true
}

func (c *Cache) Put(path string, ds *models.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = ds
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
