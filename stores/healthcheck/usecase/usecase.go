package usecase

import (
	"github.com/x-xyz/listings/base/ctx"
	hcdomain "github.com/x-xyz/listings/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

func (im *impl) Check(context ctx.Ctx) hcdomain.Report {
	report := hcdomain.Report{}
	for component, ping := range map[hcdomain.Component]func(ctx.Ctx) error{
		hcdomain.ComponentMongo:   im.repo.PingDB,
		hcdomain.ComponentCache:   im.repo.PingCache,
		hcdomain.ComponentMarkets: im.repo.PingMarkets,
	} {
		report[component] = ""
		if err := ping(context); err != nil {
			report[component] = err.Error()
		}
	}
	return report
}
