package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// RenderCache は、描画済みカバーのPNGを一定時間保持するメモリキャッシュです
type RenderCache struct {
	store *gocache.Cache
}

// NewRenderCache は、有効期限を指定してRenderCacheを作成します
// 期限切れのエントリは有効期限の2倍の間隔で掃除されます
func NewRenderCache(ttl time.Duration) *RenderCache {
	return &RenderCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

// Get は、キャッシュされたPNGを返します
func (c *RenderCache) Get(key string) ([]byte, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

// Set は、PNGを既定の有効期限で保存します
func (c *RenderCache) Set(key string, data []byte) {
	c.store.Set(key, data, gocache.DefaultExpiration)
}
