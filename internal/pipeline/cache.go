package pipeline

import (
	"sync"

	"github.com/imgkit/imgkit/internal/codec"
	"github.com/imgkit/imgkit/internal/pixel"
)

// OverlayCache caches decoded overlay sources so a watermark or badge
// merged into many images is decoded once.
//
// Cached buffers are shared and must be treated as read-only; Merge only
// reads its overlay, so sharing one buffer across independent pipelines is
// safe. The cache itself is safe for concurrent use.
//
// Buffers stay cached until Evict or Clear is called. Long-running
// processes merging many distinct overlays should clear periodically to
// bound memory growth.
type OverlayCache struct {
	mu      sync.RWMutex
	buffers map[string]*pixel.Buffer
}

// NewOverlayCache creates an empty cache ready for use.
func NewOverlayCache() *OverlayCache {
	return &OverlayCache{
		buffers: make(map[string]*pixel.Buffer),
	}
}

// Load returns the cached buffer for path, decoding it on first use. The
// exact path string is the cache key. maxBytes bounds the decode the same
// way it does for a primary image load.
func (c *OverlayCache) Load(path string, maxBytes int64) (*pixel.Buffer, error) {
	c.mu.RLock()
	if buf, ok := c.buffers[path]; ok {
		c.mu.RUnlock()
		return buf, nil
	}
	c.mu.RUnlock()

	buf, _, err := codec.Decode(path, maxBytes)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.buffers[path] = buf
	c.mu.Unlock()

	return buf, nil
}

// Evict removes one entry by its path. Unknown paths are ignored.
func (c *OverlayCache) Evict(path string) {
	c.mu.Lock()
	delete(c.buffers, path)
	c.mu.Unlock()
}

// Clear drops every cached buffer.
func (c *OverlayCache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[string]*pixel.Buffer)
	c.mu.Unlock()
}
