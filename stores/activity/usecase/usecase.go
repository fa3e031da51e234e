package usecase

import (
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/listings/base/backoff"
	bCtx "github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/base/metrics"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/activity"
)

const (
	scheduleTimeout = 3 * time.Second
	storeTimeout    = 10 * time.Second

	upsertAttempts     = 3
	upsertBackoffStart = 50 * time.Millisecond
	upsertBackoffLimit = time.Second
)

type impl struct {
	repo       activity.Repo
	workerPool *goroutines.Pool
	metrics    metrics.Service
}

func New(repo activity.Repo, met metrics.Service) activity.UseCase {
	if met == nil {
		met = metrics.NewNop()
	}
	return &impl{
		repo:       repo,
		workerPool: goroutines.NewPool(32, goroutines.WithTaskQueueLength(1024), goroutines.WithPreAllocWorkers(8)),
		metrics:    met,
	}
}

func (im *impl) Record(c bCtx.Ctx, receipt *domain.Receipt) {
	items := []activity.Activity{}
	for i, l := range receipt.Logs {
		if a, ok := activity.FromEvent(receipt, i, l.Address, l.Event); ok {
			items = append(items, a)
		}
	}
	if len(items) == 0 {
		return
	}

	// the request that produced receipt may be cancelled before the task runs
	store := bCtx.WithValue(bCtx.Detach(c), "txId", receipt.TxId)
	err := im.workerPool.ScheduleWithTimeout(scheduleTimeout, func() {
		c, cancel := bCtx.WithTimeout(store, storeTimeout)
		defer cancel()
		b := backoff.NewExponential(upsertBackoffStart, upsertBackoffLimit)
		for _, a := range items {
			a := a
			if err := b.Retry(c, upsertAttempts, func() error { return im.repo.Upsert(c, a) }); err != nil {
				im.metrics.BumpSum("record.err", 1)
				c.WithFields(log.Fields{
					"logIndex": a.LogIndex,
					"err":      err,
				}).Error("repo.Upsert failed")
				continue
			}
			im.metrics.BumpSum("record", 1, "type", string(a.Type))
		}
	})
	if err != nil {
		im.metrics.BumpSum("schedule.err", 1)
		c.WithFields(log.Fields{
			"txId": receipt.TxId,
			"err":  err,
		}).Error("failed to ScheduleWithTimeout")
	}
}

func (im *impl) FindAll(c bCtx.Ctx, opts ...activity.FindAllOptions) ([]activity.Activity, error) {
	res, err := im.repo.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Count(c bCtx.Ctx, opts ...activity.FindAllOptions) (int, error) {
	n, err := im.repo.Count(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("repo.Count failed")
		return 0, err
	}
	return n, nil
}

func (im *impl) Close() {
	im.workerPool.Release()
}
