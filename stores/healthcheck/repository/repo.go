package repository

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/database/mongoclient"
	hcdomain "github.com/x-xyz/listings/domain/healthcheck"
	"github.com/x-xyz/listings/service/cache"
)

const (
	pingTimeout = 2 * time.Second
	pingKey     = "ping"
)

// Contracts looks up deployed contracts, *ledger.Ledger satisfies it
type Contracts interface {
	Contract(addr common.Address) (interface{}, bool)
}

type impl struct {
	mgoClient *mongoclient.Client
	cache     cache.Service
	contracts Contracts
	markets   []common.Address
}

// New creates a HealthCheckRepo. mgoClient is nil when activities are kept in memory.
func New(mgoClient *mongoclient.Client, cache cache.Service, contracts Contracts, markets ...common.Address) hcdomain.HealthCheckRepo {
	return &impl{
		mgoClient: mgoClient,
		cache:     cache,
		contracts: contracts,
		markets:   markets,
	}
}

func (im *impl) PingDB(context ctx.Ctx) error {
	if im.mgoClient == nil {
		return nil
	}
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := im.mgoClient.Ping(ctx); err != nil {
		context.WithField("err", err).Error("ping mongo error")
		return err
	}
	return nil
}

func (im *impl) PingCache(context ctx.Ctx) error {
	stamp := time.Now().UnixNano()
	if err := im.cache.Set(context, pingKey, stamp); err != nil {
		context.WithField("err", err).Error("cache.Set failed")
		return err
	}
	var got int64
	if err := im.cache.Take(context, pingKey, &got); err != nil {
		context.WithField("err", err).Error("cache.Take failed")
		return err
	}
	if got != stamp {
		return fmt.Errorf("cache returned %d, want %d", got, stamp)
	}
	return nil
}

func (im *impl) PingMarkets(context ctx.Ctx) error {
	for _, m := range im.markets {
		if _, ok := im.contracts.Contract(m); !ok {
			return fmt.Errorf("market %s is not deployed", m.Hex())
		}
	}
	return nil
}
