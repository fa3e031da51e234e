package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Erc721Token is the part of a unique-ownership token the marketplace consumes
type Erc721Token interface {
	OwnerOf(item *big.Int) (common.Address, error)
	IsApprovedForAll(owner, operator common.Address) bool
	SafeTransferFrom(tx Tx, from, to common.Address, item *big.Int) error
}

// Erc1155Token is the part of a divisible-ownership token the marketplace consumes
type Erc1155Token interface {
	BalanceOf(holder common.Address, item *big.Int) *big.Int
	IsApprovedForAll(owner, operator common.Address) bool
	SafeTransferFrom(tx Tx, from, to common.Address, item, amount *big.Int, data []byte) error
}

type Erc721Receiver interface {
	OnErc721Received(tx Tx, operator, from common.Address, item *big.Int, data []byte) error
}

type Erc1155Receiver interface {
	OnErc1155Received(tx Tx, operator, from common.Address, item, amount *big.Int, data []byte) error
}
