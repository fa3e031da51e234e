package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/listings/base/abi"
	"github.com/x-xyz/listings/domain"
)

var (
	ErrIncorrectOwner   = domain.NewError(domain.ErrState, "transfer from incorrect owner")
	ErrInvalidReceiver  = domain.NewError(domain.ErrTransferFailure, "transfer to the zero address")
	ErrInsufficientUnit = domain.NewError(domain.ErrState, "insufficient balance for transfer")
	ErrAlreadyMinted    = domain.NewError(domain.ErrState, "token already minted")
)

type Transfer struct {
	From    common.Address
	To      common.Address
	TokenId *big.Int
}

func (Transfer) EventName() string { return "Transfer" }

func (e Transfer) EthLog(addr common.Address) (*types.Log, error) {
	return abi.PackErc721Transfer(addr, abi.Erc721TransferLog{From: e.From, To: e.To, TokenId: e.TokenId})
}

type ApprovalForAll struct {
	Owner    common.Address
	Operator common.Address
	Approved bool
}

func (ApprovalForAll) EventName() string { return "ApprovalForAll" }

type TransferSingle struct {
	Operator common.Address
	From     common.Address
	To       common.Address
	Id       *big.Int
	Value    *big.Int
}

func (TransferSingle) EventName() string { return "TransferSingle" }

func (e TransferSingle) EthLog(addr common.Address) (*types.Log, error) {
	return abi.PackErc1155TransferSingle(addr, abi.Erc1155TransferSingleLog{
		Operator: e.Operator,
		From:     e.From,
		To:       e.To,
		Id:       e.Id,
		Value:    e.Value,
	})
}

type Minted struct {
	Owner   common.Address
	TokenId *big.Int
}

func (Minted) EventName() string { return "Minted" }

// operators is the shared isApprovedForAll book of both token kinds
type operators struct {
	grants map[common.Address]map[common.Address]bool
}

func newOperators() operators {
	return operators{grants: make(map[common.Address]map[common.Address]bool)}
}

func (o operators) get(owner, operator common.Address) bool {
	return o.grants[owner][operator]
}

func (o operators) set(owner, operator common.Address, approved bool) bool {
	m, ok := o.grants[owner]
	if !ok {
		m = make(map[common.Address]bool)
		o.grants[owner] = m
	}
	prev := m[operator]
	m[operator] = approved
	return prev
}
