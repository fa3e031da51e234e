package listing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
)

// Admin is the owner-only surface shared by both marketplace variants
type Admin interface {
	Address() common.Address
	Owner() common.Address
	ComissionPercent() uint64
	SetComissionPercent(tx domain.Tx, value uint64) error
	// Withdraw sends every retained commission to the owner
	Withdraw(tx domain.Tx) error
}

// Erc721Market is the marketplace contract for unique-ownership tokens. Calls run inside a
// transaction whose Self is the marketplace.
type Erc721Market interface {
	Admin
	AddListing(tx domain.Tx, contract common.Address, item, price *big.Int, durationHours uint64) error
	CancelListing(tx domain.Tx, contract common.Address, item *big.Int) error
	BuyToken(tx domain.Tx, contract common.Address, item *big.Int) error
	GetListing(contract common.Address, item *big.Int) Listing
	FindAll(opts ...FindAllOptionsFunc) ([]Listing, error)
}

// Erc1155Market is the marketplace contract for divisible tokens, each seller owns a slot per item
type Erc1155Market interface {
	Admin
	AddListing(tx domain.Tx, contract common.Address, item, amount, price *big.Int, durationHours uint64) error
	CancelListing(tx domain.Tx, contract common.Address, item *big.Int) error
	BuyToken(tx domain.Tx, contract common.Address, item *big.Int, seller common.Address) error
	GetListing(contract common.Address, item *big.Int, seller common.Address) Listing
	FindAll(opts ...FindAllOptionsFunc) ([]Listing, error)
}

// AdminUseCase submits owner transactions to a marketplace
type AdminUseCase interface {
	Address() common.Address
	Owner() common.Address
	ComissionPercent() uint64
	// VaultBalance is the commission retained so far
	VaultBalance() *big.Int
	SetComissionPercent(c ctx.Ctx, caller common.Address, value uint64) (*domain.Receipt, error)
	Withdraw(c ctx.Ctx, caller common.Address) (*domain.Receipt, error)
}

type Erc721UseCase interface {
	AdminUseCase
	AddListing(c ctx.Ctx, caller, contract common.Address, item, price *big.Int, durationHours uint64) (*domain.Receipt, error)
	CancelListing(c ctx.Ctx, caller, contract common.Address, item *big.Int) (*domain.Receipt, error)
	BuyToken(c ctx.Ctx, caller, contract common.Address, item, value *big.Int) (*domain.Receipt, error)
	GetListing(c ctx.Ctx, contract common.Address, item *big.Int) (*Listing, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]Listing, error)
}

type Erc1155UseCase interface {
	AdminUseCase
	AddListing(c ctx.Ctx, caller, contract common.Address, item, amount, price *big.Int, durationHours uint64) (*domain.Receipt, error)
	CancelListing(c ctx.Ctx, caller, contract common.Address, item *big.Int) (*domain.Receipt, error)
	BuyToken(c ctx.Ctx, caller, contract common.Address, item *big.Int, seller common.Address, value *big.Int) (*domain.Receipt, error)
	GetListing(c ctx.Ctx, contract common.Address, item *big.Int, seller common.Address) (*Listing, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]Listing, error)
}
