package provider

import (
	"errors"
	"time"

	"github.com/x-xyz/listings/base/ctx"
)

var (
	ErrNotFound = errors.New("Cache not found")
)

// Provider stores raw bytes under fully qualified keys
type Provider interface {
	Get(c ctx.Ctx, key string) ([]byte, time.Duration, error)
	Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error
	Del(c ctx.Ctx, key string) error
	// Take returns the value and removes it. Of concurrent takers of one key only one
	// gets the value, the others get ErrNotFound.
	Take(c ctx.Ctx, key string) ([]byte, error)
}
