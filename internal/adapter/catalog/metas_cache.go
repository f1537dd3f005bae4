package catalog

import (
	"context"

	"surgame/internal/app/ports"
	"surgame/internal/domain/treasure"

	lru "github.com/hashicorp/golang-lru"
)

const DefaultMetaCacheSize = 4096

// CachedItemMetas keeps recently used item metas in an LRU in front of a
// slower repository. Item metas are static, so entries never expire.
type CachedItemMetas struct {
	next  ports.ItemMetaRepository
	cache *lru.Cache
}

func NewCachedItemMetas(next ports.ItemMetaRepository, size int) (*CachedItemMetas, error) {
	if size <= 0 {
		size = DefaultMetaCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedItemMetas{next: next, cache: cache}, nil
}

func (c *CachedItemMetas) GetMany(ctx context.Context, itemIDs []int64) (map[int64]treasure.ItemMeta, error) {
	out := make(map[int64]treasure.ItemMeta, len(itemIDs))
	var missing []int64
	for _, id := range itemIDs {
		if v, ok := c.cache.Get(id); ok {
			out[id] = v.(treasure.ItemMeta)
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}
	loaded, err := c.next.GetMany(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, meta := range loaded {
		c.cache.Add(id, meta)
		out[id] = meta
	}
	return out, nil
}

// Purge drops every cached entry, used after a catalog refresh.
func (c *CachedItemMetas) Purge() {
	c.cache.Purge()
}
