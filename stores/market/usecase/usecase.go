package usecase

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	bCtx "github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
)

// Runtime submits transactions and reads committed state, service/ledger implements it
type Runtime interface {
	domain.Executor
	domain.Viewer
	BalanceReader
}

type adminUseCase struct {
	rt     Runtime
	market listing.Admin
}

func (u *adminUseCase) Address() common.Address {
	return u.market.Address()
}

func (u *adminUseCase) Owner() common.Address {
	return u.market.Owner()
}

func (u *adminUseCase) ComissionPercent() uint64 {
	var percent uint64
	u.rt.View(func() { percent = u.market.ComissionPercent() })
	return percent
}

func (u *adminUseCase) VaultBalance() *big.Int {
	var balance *big.Int
	u.rt.View(func() { balance = u.rt.Balance(u.market.Address()) })
	return balance
}

func (u *adminUseCase) SetComissionPercent(ctx bCtx.Ctx, caller common.Address, value uint64) (*domain.Receipt, error) {
	return u.submit(ctx, caller, nil, func(tx domain.Tx) error {
		return u.market.SetComissionPercent(tx, value)
	})
}

func (u *adminUseCase) Withdraw(ctx bCtx.Ctx, caller common.Address) (*domain.Receipt, error) {
	return u.submit(ctx, caller, nil, u.market.Withdraw)
}

func (u *adminUseCase) submit(ctx bCtx.Ctx, caller common.Address, value *big.Int, fn func(domain.Tx) error) (*domain.Receipt, error) {
	return u.rt.Execute(ctx, domain.Msg{From: caller, To: u.market.Address(), Value: value}, fn)
}

type erc721UseCase struct {
	adminUseCase
	market listing.Erc721Market
}

func NewErc721UseCase(rt Runtime, market listing.Erc721Market) listing.Erc721UseCase {
	return &erc721UseCase{
		adminUseCase: adminUseCase{rt: rt, market: market},
		market:       market,
	}
}

func (u *erc721UseCase) AddListing(ctx bCtx.Ctx, caller, contract common.Address, item, price *big.Int, durationHours uint64) (*domain.Receipt, error) {
	return u.submit(ctx, caller, nil, func(tx domain.Tx) error {
		return u.market.AddListing(tx, contract, item, price, durationHours)
	})
}

func (u *erc721UseCase) CancelListing(ctx bCtx.Ctx, caller, contract common.Address, item *big.Int) (*domain.Receipt, error) {
	return u.submit(ctx, caller, nil, func(tx domain.Tx) error {
		return u.market.CancelListing(tx, contract, item)
	})
}

func (u *erc721UseCase) BuyToken(ctx bCtx.Ctx, caller, contract common.Address, item, value *big.Int) (*domain.Receipt, error) {
	return u.submit(ctx, caller, value, func(tx domain.Tx) error {
		return u.market.BuyToken(tx, contract, item)
	})
}

func (u *erc721UseCase) GetListing(ctx bCtx.Ctx, contract common.Address, item *big.Int) (*listing.Listing, error) {
	var l listing.Listing
	u.rt.View(func() { l = u.market.GetListing(contract, item) })
	return &l, nil
}

func (u *erc721UseCase) FindAll(ctx bCtx.Ctx, opts ...listing.FindAllOptionsFunc) (res []listing.Listing, err error) {
	u.rt.View(func() { res, err = u.market.FindAll(opts...) })
	return res, err
}

type erc1155UseCase struct {
	adminUseCase
	market listing.Erc1155Market
}

func NewErc1155UseCase(rt Runtime, market listing.Erc1155Market) listing.Erc1155UseCase {
	return &erc1155UseCase{
		adminUseCase: adminUseCase{rt: rt, market: market},
		market:       market,
	}
}

func (u *erc1155UseCase) AddListing(ctx bCtx.Ctx, caller, contract common.Address, item, amount, price *big.Int, durationHours uint64) (*domain.Receipt, error) {
	return u.submit(ctx, caller, nil, func(tx domain.Tx) error {
		return u.market.AddListing(tx, contract, item, amount, price, durationHours)
	})
}

func (u *erc1155UseCase) CancelListing(ctx bCtx.Ctx, caller, contract common.Address, item *big.Int) (*domain.Receipt, error) {
	return u.submit(ctx, caller, nil, func(tx domain.Tx) error {
		return u.market.CancelListing(tx, contract, item)
	})
}

func (u *erc1155UseCase) BuyToken(ctx bCtx.Ctx, caller, contract common.Address, item *big.Int, seller common.Address, value *big.Int) (*domain.Receipt, error) {
	return u.submit(ctx, caller, value, func(tx domain.Tx) error {
		return u.market.BuyToken(tx, contract, item, seller)
	})
}

func (u *erc1155UseCase) GetListing(ctx bCtx.Ctx, contract common.Address, item *big.Int, seller common.Address) (*listing.Listing, error) {
	var l listing.Listing
	u.rt.View(func() { l = u.market.GetListing(contract, item, seller) })
	return &l, nil
}

func (u *erc1155UseCase) FindAll(ctx bCtx.Ctx, opts ...listing.FindAllOptionsFunc) (res []listing.Listing, err error) {
	u.rt.View(func() { res, err = u.market.FindAll(opts...) })
	return res, err
}
