package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/lumen/asset"
	"go.uber.org/zap"
)

type spriteEntry struct {
	hash    uint64
	img     *ebiten.Image
	pending bool
	failed  bool
}

// SpriteCache holds one decoded image per entity id. Images are decoded off
// the draw goroutine; until a decode lands the entity draws nothing. A change
// of asset bytes for the same id starts a fresh decode.
type SpriteCache struct {
	decoder *asset.Decoder
	logger  *zap.Logger
	images  map[string]*spriteEntry
}

func NewSpriteCache(decoder *asset.Decoder, logger *zap.Logger) *SpriteCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpriteCache{
		decoder: decoder,
		logger:  logger.Named("sprites"),
		images:  map[string]*spriteEntry{},
	}
}

// Image returns the decoded image for id, or nil while it is not ready.
func (c *SpriteCache) Image(id string, data []byte, hash uint64) *ebiten.Image {
	if c == nil || id == "" || len(data) == 0 {
		return nil
	}
	if entry, ok := c.images[id]; ok && entry.hash == hash {
		return entry.img
	}
	if c.decoder == nil {
		return nil
	}
	if c.decoder.Request(id, data) {
		c.images[id] = &spriteEntry{hash: hash, pending: true}
	}
	return nil
}

// Sync moves finished decodes into the cache. Call it on the draw goroutine.
func (c *SpriteCache) Sync() {
	if c == nil || c.decoder == nil {
		return
	}
	for _, res := range c.decoder.Poll() {
		entry, ok := c.images[res.Key]
		if !ok || entry.hash != res.Hash {
			continue
		}
		entry.pending = false
		if res.Err != nil {
			entry.failed = true
			c.logger.Warn("sprite decode failed", zap.String("entity", res.Key), zap.Error(res.Err))
			continue
		}
		if entry.img != nil {
			entry.img.Deallocate()
		}
		entry.img = ebiten.NewImageFromImage(res.Image)
	}
}

// Retain drops cached images for ids not in live.
func (c *SpriteCache) Retain(live map[string]struct{}) {
	if c == nil {
		return
	}
	for id, entry := range c.images {
		if _, ok := live[id]; ok {
			continue
		}
		if entry.img != nil {
			entry.img.Deallocate()
		}
		delete(c.images, id)
	}
}

func (c *SpriteCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.images)
}
