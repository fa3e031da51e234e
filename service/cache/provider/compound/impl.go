package compound

import (
	"time"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/service/cache/provider"
)

type impl struct {
	layers []provider.Provider
}

// NewCompound reads layers front to back and fills the layers in front of a hit.
// The last layer is the source of truth for Take.
func NewCompound(layers ...provider.Provider) provider.Provider {
	return &impl{layers}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	for idx, lyr := range im.layers {
		val, ttl, err := lyr.Get(c, key)
		if err == provider.ErrNotFound {
			continue
		} else if err != nil {
			return nil, 0, err
		}
		for _, front := range im.layers[:idx] {
			if err := front.Set(c, key, val, ttl); err != nil {
				return nil, 0, err
			}
		}
		return val, ttl, nil
	}
	return nil, 0, provider.ErrNotFound
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	for _, lyr := range im.layers {
		if err := lyr.Set(c, key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	for _, lyr := range im.layers {
		if err := lyr.Del(c, key); err != nil {
			return err
		}
	}
	return nil
}

func (im *impl) Take(c ctx.Ctx, key string) ([]byte, error) {
	last := len(im.layers) - 1
	for _, lyr := range im.layers[:last] {
		if err := lyr.Del(c, key); err != nil {
			return nil, err
		}
	}
	return im.layers[last].Take(c, key)
}
