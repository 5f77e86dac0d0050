package hgpak

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// chunkCacheCapacity is the bounded LRU entry count for a reader's chunk
// cache.
const chunkCacheCapacity = 256

// chunkCache is an LRU of decompressed chunks keyed by chunk index,
// scoped to one reader instance. Wrapping hashicorp/golang-lru/v2 gives
// us O(1) get/add/evict without hand-rolling a doubly-linked list, the
// way the chd package's readHunk used a bare map with a manual size
// check.
type chunkCache struct {
	lru *lru.Cache[uint64, []byte]
}

func newChunkCache() *chunkCache {
	c, err := lru.New[uint64, []byte](chunkCacheCapacity)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// chunkCacheCapacity never is.
		panic(err)
	}
	return &chunkCache{lru: c}
}

func (c *chunkCache) get(index uint64) ([]byte, bool) {
	return c.lru.Get(index)
}

func (c *chunkCache) add(index uint64, data []byte) {
	c.lru.Add(index, data)
}

func (c *chunkCache) purge() {
	c.lru.Purge()
}
