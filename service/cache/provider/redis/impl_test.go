package redis

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/database/redisclient"
	"github.com/x-xyz/listings/base/metrics"
	"github.com/x-xyz/listings/service/cache/provider"
)

var mockCtx = ctx.Background()

// testsuite needs a running redis, set REDIS_URI (host:port) to run it
type testsuite struct {
	suite.Suite
	im provider.Provider
}

func Test(t *testing.T) {
	if os.Getenv("REDIS_URI") == "" {
		t.Skip("REDIS_URI not set")
	}
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) SetupTest() {
	pool := redisclient.MustConnect(redisclient.Config{Uri: os.Getenv("REDIS_URI")})
	ts.im = NewRedis(pool, metrics.NewNop())
	ts.Require().NoError(ts.im.Del(mockCtx, "listings:test"))
}

func (ts *testsuite) TestSetGet() {
	ts.Require().NoError(ts.im.Set(mockCtx, "listings:test", []byte("v"), time.Minute))
	val, ttl, err := ts.im.Get(mockCtx, "listings:test")
	ts.Require().NoError(err)
	ts.Equal("v", string(val))
	ts.True(ttl > 50*time.Second)

	ts.Require().NoError(ts.im.Del(mockCtx, "listings:test"))
	_, _, err = ts.im.Get(mockCtx, "listings:test")
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestTake() {
	ts.Require().NoError(ts.im.Set(mockCtx, "listings:test", []byte("nonce"), time.Minute))
	val, err := ts.im.Take(mockCtx, "listings:test")
	ts.Require().NoError(err)
	ts.Equal("nonce", string(val))

	_, err = ts.im.Take(mockCtx, "listings:test")
	ts.Equal(provider.ErrNotFound, err)
}
