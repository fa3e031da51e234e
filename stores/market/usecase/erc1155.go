package usecase

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
)

type erc1155Market struct {
	*engine
}

// NewErc1155Market builds the marketplace for divisible tokens. Every seller has its own slot per
// item, so several sellers can list the same item at once.
func NewErc1155Market(cfg *MarketCfg) listing.Erc1155Market {
	return &erc1155Market{engine: newEngine(cfg, erc1155Custody{})}
}

func (m *erc1155Market) AddListing(tx domain.Tx, contract common.Address, item, amount, price *big.Int, durationHours uint64) error {
	return m.add(tx, offer{
		key:           listing.NewKey(contract, item, tx.Sender()),
		item:          item,
		amount:        amount,
		price:         price,
		durationHours: durationHours,
	})
}

// CancelListing removes the caller's own listing of item
func (m *erc1155Market) CancelListing(tx domain.Tx, contract common.Address, item *big.Int) error {
	return m.cancel(tx, listing.NewKey(contract, item, tx.Sender()))
}

func (m *erc1155Market) BuyToken(tx domain.Tx, contract common.Address, item *big.Int, seller common.Address) error {
	return m.buy(tx, listing.NewKey(contract, item, seller))
}

func (m *erc1155Market) GetListing(contract common.Address, item *big.Int, seller common.Address) listing.Listing {
	return m.repo.Get(listing.NewKey(contract, item, seller))
}
