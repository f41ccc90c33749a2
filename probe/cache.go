package probe

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/yamanami-choir/yamanami/filesystem"
	"github.com/yamanami-choir/yamanami/where"
)

// cacheLifetime bounds how long fetched metadata is trusted. Hosted videos rarely change.
const cacheLifetime = time.Hour * 24 * 30

type cacheData struct {
	Videos map[string]Info `json:"videos"`
}

// cacher is a disk-backed map of video id to metadata.
type cacher struct {
	internal *gache.Cache[*cacheData]
	mu       sync.RWMutex
}

func newCacher(path string) *cacher {
	return &cacher{
		internal: gache.New[*cacheData](
			&gache.Options{
				Path:       path,
				Lifetime:   cacheLifetime,
				FileSystem: &filesystem.GacheFs{},
			},
		),
	}
}

func (c *cacher) Get(id string) mo.Option[Info] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[Info]()
	}

	info, ok := data.Videos[id]
	if ok {
		return mo.Some(info)
	}
	return mo.None[Info]()
}

func (c *cacher) Set(id string, info Info) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil {
		data = &cacheData{Videos: make(map[string]Info)}
	}
	data.Videos[id] = info
	return c.internal.Set(data)
}

func (c *cacher) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return err
	}

	delete(data.Videos, id)
	return c.internal.Set(data)
}

var (
	defaultCacher     *cacher
	defaultCacherOnce sync.Once
)

func sharedCacher() *cacher {
	defaultCacherOnce.Do(func() {
		defaultCacher = newCacher(where.Probes())
	})
	return defaultCacher
}
