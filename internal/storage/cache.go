package storage

import (
	"io/fs"
	"sync"
	"time"

	"github.com/dpshade/promptshelf/internal/models"
)

// cacheEntry holds parsed metadata together with the file stat it came from
type cacheEntry struct {
	meta    models.PromptMetadata
	modTime time.Time
	size    int64
}

// metadataCache remembers parsed headers between scans so a rescan only parses
// files whose modification time or size changed. It lives for the process only.
type metadataCache struct {
	entries map[string]cacheEntry
	mu      sync.RWMutex
}

func newMetadataCache() *metadataCache {
	return &metadataCache{entries: make(map[string]cacheEntry)}
}

// get returns cached metadata if the file has not changed since it was cached
func (c *metadataCache) get(relPath string, info fs.FileInfo) (models.PromptMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[relPath]
	if !ok {
		return models.PromptMetadata{}, false
	}
	if !entry.modTime.Equal(info.ModTime()) || entry.size != info.Size() {
		return models.PromptMetadata{}, false
	}
	meta := entry.meta
	meta.Tags = append(make([]string, 0, len(entry.meta.Tags)), entry.meta.Tags...)
	return meta, true
}

func (c *metadataCache) set(relPath string, info fs.FileInfo, meta models.PromptMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[relPath] = cacheEntry{
		meta:    meta,
		modTime: info.ModTime(),
		size:    info.Size(),
	}
}

func (c *metadataCache) invalidate(relPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, relPath)
}

// cleanup drops entries for files that no longer exist
func (c *metadataCache) cleanup(existing map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for relPath := range c.entries {
		if !existing[relPath] {
			delete(c.entries, relPath)
		}
	}
}
