package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/metrics"
	"github.com/x-xyz/listings/service/cache/provider"
)

type impl struct {
	pool *redis.Pool
	met  metrics.Service
}

// NewRedis is a provider shared by every replica of the service
func NewRedis(pool *redis.Pool, met metrics.Service) provider.Provider {
	return &impl{pool: pool, met: met}
}

func (im *impl) do(c ctx.Ctx, cmd string, args ...interface{}) (interface{}, error) {
	defer im.met.BumpTime("cmd.time", "cmd", cmd).End()
	conn, err := im.pool.GetContext(c)
	if err != nil {
		im.met.BumpSum("conn.err", 1)
		return nil, err
	}
	defer conn.Close()
	return conn.Do(cmd, args...)
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, err := redis.Bytes(im.do(c, "GET", key))
	if err == redis.ErrNil {
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis GET failed")
		return nil, 0, err
	}
	ms, err := redis.Int64(im.do(c, "PTTL", key))
	if err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis PTTL failed")
		return nil, 0, err
	}
	// -1 no expire, -2 expired between the two calls
	switch {
	case ms == -2:
		return nil, 0, provider.ErrNotFound
	case ms < 0:
		return val, 0, nil
	}
	return val, time.Duration(ms) * time.Millisecond, nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	args := []interface{}{key, value}
	if ms := ttl.Milliseconds(); ms > 0 {
		args = append(args, "PX", ms)
	}
	if _, err := im.do(c, "SET", args...); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis SET failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	if _, err := im.do(c, "DEL", key); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis DEL failed")
		return err
	}
	return nil
}

func (im *impl) Take(c ctx.Ctx, key string) ([]byte, error) {
	defer im.met.BumpTime("cmd.time", "cmd", "take").End()
	conn, err := im.pool.GetContext(c)
	if err != nil {
		im.met.BumpSum("conn.err", 1)
		return nil, err
	}
	defer conn.Close()

	conn.Send("MULTI")
	conn.Send("GET", key)
	conn.Send("DEL", key)
	res, err := redis.Values(conn.Do("EXEC"))
	if err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis take failed")
		return nil, err
	}
	val, err := redis.Bytes(res[0], nil)
	if err == redis.ErrNil {
		return nil, provider.ErrNotFound
	}
	return val, err
}
