package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain/healthcheck"
	"github.com/x-xyz/listings/domain/keys"
	"github.com/x-xyz/listings/service/cache"
	"github.com/x-xyz/listings/service/cache/provider/primitive"
	"github.com/x-xyz/listings/service/ledger"
	"github.com/x-xyz/listings/stores/healthcheck/repository"
)

type downDB struct {
	pingCache int
}

func (r *downDB) PingDB(ctx.Ctx) error {
	return errors.New("no reachable servers")
}

func (r *downDB) PingCache(ctx.Ctx) error {
	r.pingCache++
	return nil
}

func (r *downDB) PingMarkets(ctx.Ctx) error {
	return nil
}

func TestCheck(t *testing.T) {
	c := cache.New(cache.ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   keys.PfxHealthCheck,
		Cache: primitive.NewPrimitive("healthcheck", 1),
	})
	l := ledger.New(ledger.NewManualClock(1_700_000_000))
	owner := common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	market := l.Deploy(owner, func(addr common.Address) interface{} { return struct{}{} })

	report := New(repository.New(nil, c, l, market)).Check(ctx.Background())
	assert.True(t, report.Healthy())
	assert.Equal(t, healthcheck.Report{
		healthcheck.ComponentMongo:   "",
		healthcheck.ComponentCache:   "",
		healthcheck.ComponentMarkets: "",
	}, report)

	missing := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	report = New(repository.New(nil, c, l, market, missing)).Check(ctx.Background())
	assert.False(t, report.Healthy())
	assert.Contains(t, report[healthcheck.ComponentMarkets], "is not deployed")

	repo := &downDB{}
	report = New(repo).Check(ctx.Background())
	assert.False(t, report.Healthy())
	assert.Equal(t, "no reachable servers", report[healthcheck.ComponentMongo])
	assert.Equal(t, 1, repo.pingCache)
}
