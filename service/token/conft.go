package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/ownable"
	"github.com/x-xyz/listings/domain"
)

const DefaultBaseURI = "https://conft.app/minting/eth/testnet/"

// CoNFT is the minting contract. Anyone may mint by paying the fixed price, ids start at 1.
type CoNFT struct {
	*Erc721
	guard   *ownable.Guard
	price   *big.Int
	baseURI string

	supplyMu sync.RWMutex
	supply   uint64
}

func NewCoNFT(address, owner common.Address, price *big.Int, baseURI string) *CoNFT {
	if baseURI == "" {
		baseURI = DefaultBaseURI
	}
	return &CoNFT{
		Erc721:  NewErc721(address),
		guard:   ownable.New(owner),
		price:   new(big.Int).Set(domain.BigOrZero(price)),
		baseURI: baseURI,
	}
}

func (c *CoNFT) Owner() common.Address {
	return c.guard.Owner()
}

func (c *CoNFT) Price() *big.Int {
	return new(big.Int).Set(c.price)
}

// Mint charges the caller the mint price and gives them id totalSupply+1
func (c *CoNFT) Mint(tx domain.Tx) (*big.Int, error) {
	if tx.Value().Cmp(c.price) != 0 {
		return nil, domain.ErrFundsMismatch
	}

	c.supplyMu.Lock()
	c.supply++
	id := c.supply
	c.supplyMu.Unlock()
	tx.OnRevert(func() {
		c.supplyMu.Lock()
		c.supply = id - 1
		c.supplyMu.Unlock()
	})

	item := new(big.Int).SetUint64(id)
	if err := c.mint(tx, tx.Sender(), item); err != nil {
		return nil, err
	}
	tx.Emit(Minted{Owner: tx.Sender(), TokenId: new(big.Int).Set(item)})
	return item, nil
}

func (c *CoNFT) TotalSupply() *big.Int {
	c.supplyMu.RLock()
	defer c.supplyMu.RUnlock()
	return new(big.Int).SetUint64(c.supply)
}

func (c *CoNFT) TokenURI(item *big.Int) string {
	return c.baseURI + item.String()
}

// Withdraw sends the collected mint fees to the owner
func (c *CoNFT) Withdraw(tx domain.Tx) error {
	if err := c.guard.RequireOwner(tx.Sender()); err != nil {
		return err
	}
	return tx.Transfer(c.guard.Owner(), tx.Balance(tx.Self()))
}
