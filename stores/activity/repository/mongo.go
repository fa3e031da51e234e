package repository

import (
	bCtx "github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/database/mongoclient"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/activity"
	"github.com/x-xyz/listings/service/query"
)

type mongoRepo struct {
	q query.Mongo
}

func NewMongoRepo(q query.Mongo) activity.Repo {
	return &mongoRepo{q: q}
}

func (r *mongoRepo) Upsert(ctx bCtx.Ctx, a activity.Activity) error {
	if err := r.q.Upsert(ctx, domain.TableActivities, a.ToId(), a); err != nil {
		ctx.WithFields(log.Fields{
			"activity": a,
			"err":      err,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) FindAll(ctx bCtx.Ctx, optFns ...activity.FindAllOptions) ([]activity.Activity, error) {
	opts, err := activity.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"optsFns": optFns,
			"err":     err,
		}).Error("GetFindAllOptions failed")
		return nil, err
	}
	var (
		offset int    = 0
		limit  int    = 0
		sort   string = "-time"
	)
	if opts.Offset != nil {
		offset = *opts.Offset
	}
	if opts.Limit != nil {
		limit = *opts.Limit
	}
	if opts.SortDir != nil && *opts.SortDir == domain.SortDirAsc {
		sort = "time"
	}
	query, err := mongoclient.ToFilter(opts)
	if err != nil {
		ctx.WithFields(log.Fields{
			"opts": opts,
			"err":  err,
		}).Error("ToFilter failed")
		return nil, err
	}
	res := []activity.Activity{}
	if err := r.q.Search(ctx, domain.TableActivities, offset, limit, sort, query, &res); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (r *mongoRepo) Count(ctx bCtx.Ctx, optFns ...activity.FindAllOptions) (int, error) {
	opts, err := activity.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"optsFns": optFns,
			"err":     err,
		}).Error("GetFindAllOptions failed")
		return 0, err
	}
	query, err := mongoclient.ToFilter(opts)
	if err != nil {
		ctx.WithFields(log.Fields{
			"opts": opts,
			"err":  err,
		}).Error("ToFilter failed")
		return 0, err
	}
	n, err := r.q.Count(ctx, domain.TableActivities, query)
	if err != nil {
		ctx.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return n, nil
}

// EnsureIndexes creates the indexes FindAll relies on
func EnsureIndexes(ctx bCtx.Ctx, q query.Mongo) error {
	return q.EnsureIndexes(ctx, domain.TableActivities,
		query.Index{Keys: []string{"txId", "logIndex"}, Unique: true},
		query.Index{Keys: []string{"-time"}},
		query.Index{Keys: []string{"market", "-time"}},
		query.Index{Keys: []string{"seller", "-time"}},
		query.Index{Keys: []string{"buyer", "-time"}},
		query.Index{Keys: []string{"contract", "tokenId", "-time"}},
	)
}
