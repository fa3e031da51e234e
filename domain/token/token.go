package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
)

type Standard string

const (
	StandardErc721  Standard = "erc721"
	StandardErc1155 Standard = "erc1155"
	StandardCoNFT   Standard = "conft"
)

// Contract describes a token contract deployed on the dev ledger
type Contract struct {
	Address  common.Address `json:"address"`
	Standard Standard       `json:"standard"`
}

type CoNFTInfo struct {
	Address     common.Address `json:"address"`
	Owner       common.Address `json:"owner"`
	Price       *big.Int       `json:"price"`
	TotalSupply *big.Int       `json:"totalSupply"`
}

// UseCase drives the in-process token contracts so a dev node can be exercised end to end
type UseCase interface {
	Deploy(c ctx.Ctx, caller common.Address, standard Standard) (*Contract, error)
	// Mint gives caller the next erc721 id, or amount units of item for erc1155
	Mint(c ctx.Ctx, caller, contract common.Address, item, amount *big.Int) (*domain.Receipt, error)
	SetApprovalForAll(c ctx.Ctx, caller, contract, operator common.Address, approved bool) (*domain.Receipt, error)
	OwnerOf(c ctx.Ctx, contract common.Address, item *big.Int) (common.Address, error)
	BalanceOf(c ctx.Ctx, contract, holder common.Address, item *big.Int) (*big.Int, error)

	// MintCoNFT pays value for the next CoNFT id
	MintCoNFT(c ctx.Ctx, caller common.Address, value *big.Int) (*domain.Receipt, error)
	CoNFT() CoNFTInfo
	WithdrawCoNFT(c ctx.Ctx, caller common.Address) (*domain.Receipt, error)

	// Balance is the native balance of addr
	Balance(addr common.Address) *big.Int
	// Faucet tops addr up to the faucet amount and returns the new balance
	Faucet(c ctx.Ctx, addr common.Address) *big.Int
}
