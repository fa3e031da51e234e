package primitive

import (
	"time"

	"github.com/coocood/freecache"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/service/cache/provider"
)

type impl struct {
	name  string
	cache *freecache.Cache
}

// NewPrimitive is an in-process provider backed by freecache, size is in MB
func NewPrimitive(name string, size int) provider.Provider {
	if size <= 0 {
		size = 1
	}
	return &impl{name: name, cache: freecache.NewCache(size * 1024 * 1024)}
}

func (im *impl) logger(c ctx.Ctx, key string, err error) log.Logger {
	return c.WithFields(log.Fields{"err": err, "key": key, "cache": im.name})
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, expireAt, err := im.cache.GetWithExpiration([]byte(key))
	switch {
	case err == freecache.ErrNotFound:
		return nil, 0, provider.ErrNotFound
	case err != nil:
		im.logger(c, key, err).Error("freecache.Get failed")
		return nil, 0, err
	case expireAt == 0:
		return val, 0, nil
	}
	return val, time.Until(time.Unix(int64(expireAt), 0)), nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if err := im.cache.Set([]byte(key), value, int(ttl.Seconds())); err != nil {
		im.logger(c, key, err).Error("freecache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}

func (im *impl) Take(c ctx.Ctx, key string) ([]byte, error) {
	val, err := im.cache.Get([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, provider.ErrNotFound
	} else if err != nil {
		im.logger(c, key, err).Error("freecache.Get failed")
		return nil, err
	}
	// freecache.Del reports whether this call removed the entry
	if !im.cache.Del([]byte(key)) {
		return nil, provider.ErrNotFound
	}
	return val, nil
}
