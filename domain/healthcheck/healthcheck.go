package healthcheck

import (
	"github.com/x-xyz/listings/base/ctx"
)

type Component string

const (
	ComponentMongo   Component = "mongo"
	ComponentCache   Component = "cache"
	ComponentMarkets Component = "markets"
)

// Report has one entry per component, an empty string means healthy
type Report map[Component]string

func (r Report) Healthy() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}

type HealthCheckUsecase interface {
	Check(context ctx.Ctx) Report
}

type HealthCheckRepo interface {
	PingDB(context ctx.Ctx) error
	PingCache(context ctx.Ctx) error
	// PingMarkets checks that every marketplace is deployed on the ledger
	PingMarkets(context ctx.Ctx) error
}
