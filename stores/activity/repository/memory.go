package repository

import (
	"sort"
	"sync"

	bCtx "github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/activity"
)

type memoryRepo struct {
	mu    sync.RWMutex
	items map[activity.Id]activity.Activity
}

// NewMemoryRepo keeps the history in process, it is used when no mongo is configured
func NewMemoryRepo() activity.Repo {
	return &memoryRepo{items: make(map[activity.Id]activity.Activity)}
}

func (r *memoryRepo) Upsert(_ bCtx.Ctx, a activity.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ToId()] = a
	return nil
}

func (r *memoryRepo) match(optFns []activity.FindAllOptions, paginate bool) ([]activity.Activity, error) {
	opts, err := activity.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	res := []activity.Activity{}
	for _, a := range r.items {
		if opts.Match(a) {
			res = append(res, a)
		}
	}
	r.mu.RUnlock()

	asc := opts.SortDir != nil && *opts.SortDir == domain.SortDirAsc
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time) == asc
		}
		if a.TxId != b.TxId {
			return (a.TxId < b.TxId) == asc
		}
		return (a.LogIndex < b.LogIndex) == asc
	})

	if !paginate {
		return res, nil
	}
	if opts.Offset != nil {
		if *opts.Offset >= len(res) {
			return []activity.Activity{}, nil
		}
		res = res[*opts.Offset:]
	}
	if opts.Limit != nil && *opts.Limit < len(res) {
		res = res[:*opts.Limit]
	}
	return res, nil
}

func (r *memoryRepo) FindAll(ctx bCtx.Ctx, optFns ...activity.FindAllOptions) ([]activity.Activity, error) {
	res, err := r.match(optFns, true)
	if err != nil {
		ctx.WithField("err", err).Warn("GetFindAllOptions failed")
		return nil, err
	}
	return res, nil
}

func (r *memoryRepo) Count(ctx bCtx.Ctx, optFns ...activity.FindAllOptions) (int, error) {
	res, err := r.match(optFns, false)
	if err != nil {
		ctx.WithField("err", err).Warn("GetFindAllOptions failed")
		return 0, err
	}
	return len(res), nil
}
