package redisclient

import (
	"runtime"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/listings/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond
	idleTimeout  = 240 * time.Second
	dialAttempts = 3
)

// Config mirrors the redis.* keys of the service config
type Config struct {
	Uri      string
	Password string
	// PoolMultiplier scales runtime.NumCPU() into MaxActive, a quarter of it may idle
	PoolMultiplier float64
}

func MustConnect(cfg Config) *redis.Pool {
	p, err := Connect(cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"uri": cfg.Uri, "err": err}).Panic("fail to dial redis")
	}
	return p
}

// Connect builds a pool and makes sure one connection can be dialed
func Connect(cfg Config) (*redis.Pool, error) {
	maxIdle, maxActive := 16, 64
	if cfg.PoolMultiplier > 0 {
		cpu := float64(runtime.NumCPU())
		maxActive = int(cpu * cfg.PoolMultiplier)
		maxIdle = maxActive / 4
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if cfg.Password != "" {
		opts = append(opts, redis.DialPassword(cfg.Password))
	}
	p := &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: idleTimeout,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.Uri, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	var err error
	for i := 0; i < dialAttempts; i++ {
		c := p.Get()
		_, err = c.Do("PING")
		c.Close()
		if err == nil {
			log.Log().WithFields(log.Fields{"uri": cfg.Uri, "maxActive": maxActive}).Info("redis connected")
			return p, nil
		}
		log.Log().WithFields(log.Fields{"uri": cfg.Uri, "attempt": i + 1, "err": err}).Warn("redis ping failed")
		time.Sleep(time.Duration(i+1) * 200 * time.Millisecond)
	}
	p.Close()
	return nil, err
}
