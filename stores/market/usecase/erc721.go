package usecase

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
)

type erc721Market struct {
	*engine
}

// NewErc721Market builds the marketplace for unique-ownership tokens, one slot per item
func NewErc721Market(cfg *MarketCfg) listing.Erc721Market {
	return &erc721Market{engine: newEngine(cfg, erc721Custody{})}
}

func (m *erc721Market) AddListing(tx domain.Tx, contract common.Address, item, price *big.Int, durationHours uint64) error {
	return m.add(tx, offer{
		key:           listing.UniqueKey(contract, item),
		item:          item,
		amount:        domain.Big1,
		price:         price,
		durationHours: durationHours,
	})
}

func (m *erc721Market) CancelListing(tx domain.Tx, contract common.Address, item *big.Int) error {
	return m.cancel(tx, listing.UniqueKey(contract, item))
}

func (m *erc721Market) BuyToken(tx domain.Tx, contract common.Address, item *big.Int) error {
	return m.buy(tx, listing.UniqueKey(contract, item))
}

func (m *erc721Market) GetListing(contract common.Address, item *big.Int) listing.Listing {
	return m.repo.Get(listing.UniqueKey(contract, item))
}
