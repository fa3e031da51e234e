package usecase

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/viney-shih/goroutines"

	bCtx "github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
	"github.com/x-xyz/listings/service/cache"
	"github.com/x-xyz/listings/service/chain/contract"
)

const batchWorkers = 8

type PrecheckCfg struct {
	Erc721  contract.Erc721Contract
	Erc1155 contract.Erc1155Contract
	Cache   cache.Service
	// Now defaults to the wall clock
	Now func() uint64
}

type impl struct {
	erc721  contract.Erc721Contract
	erc1155 contract.Erc1155Contract
	cache   cache.Service
	now     func() uint64
}

func New(cfg *PrecheckCfg) listing.PrecheckUseCase {
	now := cfg.Now
	if now == nil {
		now = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &impl{
		erc721:  cfg.Erc721,
		erc1155: cfg.Erc1155,
		cache:   cfg.Cache,
		now:     now,
	}
}

func cacheKey(chainId int32, market common.Address, l listing.Listing) string {
	return fmt.Sprintf("%d:%s:%d", chainId, market.Hex(), l.Id)
}

func (im *impl) Check(c bCtx.Ctx, chainId int32, variant domain.TokenType, market common.Address, l listing.Listing) (*listing.Precheck, error) {
	if !l.Exists() {
		return fail(l, domain.ErrListingNotFound), nil
	}
	if l.Expired(im.now()) {
		return fail(l, domain.ErrListingExpired), nil
	}

	res := &listing.Precheck{}
	err := im.cache.GetByFunc(c, cacheKey(chainId, market, l), res, func() (interface{}, error) {
		return im.check(c, chainId, variant, market, l)
	})
	if err != nil {
		c.WithFields(log.Fields{
			"chainId":  chainId,
			"contract": l.Contract.Hex(),
			"item":     domain.BigOrZero(l.Item).String(),
			"err":      err,
		}).Error("cache.GetByFunc failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) check(c bCtx.Ctx, chainId int32, variant domain.TokenType, market common.Address, l listing.Listing) (*listing.Precheck, error) {
	switch variant {
	case domain.TokenType721:
		owner, err := im.erc721.OwnerOf(c, chainId, l.Contract, l.Item)
		if err != nil {
			return nil, err
		}
		if owner != l.Seller {
			return fail(l, domain.ErrSellerNotOwner), nil
		}
		approved, err := im.erc721.IsApprovedForAll(c, chainId, l.Contract, l.Seller, market)
		if err != nil {
			return nil, err
		}
		if !approved {
			return fail(l, domain.ErrNotApproved), nil
		}
	case domain.TokenType1155:
		balance, err := im.erc1155.BalanceOf(c, chainId, l.Contract, l.Seller, l.Item)
		if err != nil {
			return nil, err
		}
		if balance.Cmp(domain.BigOrZero(l.Amount)) < 0 {
			return fail(l, domain.ErrNotEnoughTokens), nil
		}
		approved, err := im.erc1155.IsApprovedForAll(c, chainId, l.Contract, l.Seller, market)
		if err != nil {
			return nil, err
		}
		if !approved {
			return fail(l, domain.ErrNotApproved), nil
		}
	default:
		return nil, domain.ErrBadParamInput
	}
	return &listing.Precheck{ListingId: l.Id, Buyable: true}, nil
}

type indexed struct {
	idx int
	res *listing.Precheck
}

func (im *impl) CheckAll(c bCtx.Ctx, chainId int32, variant domain.TokenType, market common.Address, ls []listing.Listing) ([]listing.Precheck, error) {
	res := make([]listing.Precheck, len(ls))
	if len(ls) == 0 {
		return res, nil
	}

	b := goroutines.NewBatch(batchWorkers, goroutines.WithBatchSize(len(ls)))
	defer b.Close()
	for i := range ls {
		idx := i
		b.Queue(func() (interface{}, error) {
			r, err := im.Check(c, chainId, variant, market, ls[idx])
			if err != nil {
				return nil, err
			}
			return indexed{idx: idx, res: r}, nil
		})
	}
	b.QueueComplete()

	var anyerr error
	for ret := range b.Results() {
		if ret.Error() != nil {
			anyerr = ret.Error()
			continue
		}
		v := ret.Value().(indexed)
		res[v.idx] = *v.res
	}
	if anyerr != nil {
		c.WithField("err", anyerr).Error("precheck batch failed")
		return nil, anyerr
	}
	return res, nil
}

func fail(l listing.Listing, reason *domain.Error) *listing.Precheck {
	return &listing.Precheck{ListingId: l.Id, Reason: reason.Reason}
}
