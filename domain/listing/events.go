package listing

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/listings/base/abi"
	"github.com/x-xyz/listings/domain"
)

const (
	EventListingCreated = "ListingCreated"
	EventListingRemoved = "ListingRemoved"
	EventTokenSold      = "TokenSold"
)

// Event is a marketplace event. Args follows the positional layout of the variant's ABI.
type Event interface {
	domain.Event
	TokenType() domain.TokenType
	Args() []interface{}
}

type ListingCreated struct {
	Variant domain.TokenType
	Listing Listing
}

func (ListingCreated) EventName() string { return EventListingCreated }

func (e ListingCreated) TokenType() domain.TokenType { return e.Variant }

func (e ListingCreated) EthLog(addr common.Address) (*types.Log, error) { return EthLog(addr, e) }

func (e ListingCreated) Args() []interface{} {
	return listingArgs(e.Variant, e.Listing)
}

// ListingRemoved carries the listing as it was right before its slot was cleared
type ListingRemoved struct {
	Variant domain.TokenType
	Listing Listing
}

func (ListingRemoved) EventName() string { return EventListingRemoved }

func (e ListingRemoved) TokenType() domain.TokenType { return e.Variant }

func (e ListingRemoved) EthLog(addr common.Address) (*types.Log, error) { return EthLog(addr, e) }

func (e ListingRemoved) Args() []interface{} {
	return listingArgs(e.Variant, e.Listing)
}

type TokenSold struct {
	Variant domain.TokenType
	Listing Listing
	Buyer   common.Address
}

func (TokenSold) EventName() string { return EventTokenSold }

func (e TokenSold) TokenType() domain.TokenType { return e.Variant }

func (e TokenSold) EthLog(addr common.Address) (*types.Log, error) { return EthLog(addr, e) }

func (e TokenSold) Args() []interface{} {
	l := e.Listing
	args := []interface{}{
		new(big.Int).SetUint64(l.Id),
		l.Seller,
		e.Buyer,
		l.Contract,
		domain.BigOrZero(l.Item),
	}
	if e.Variant == domain.TokenType1155 {
		args = append(args, domain.BigOrZero(l.Amount))
	}
	return append(args, domain.BigOrZero(l.Price))
}

func listingArgs(variant domain.TokenType, l Listing) []interface{} {
	args := []interface{}{
		new(big.Int).SetUint64(l.Id),
		l.Seller,
		l.Contract,
		domain.BigOrZero(l.Item),
	}
	if variant == domain.TokenType1155 {
		args = append(args, domain.BigOrZero(l.Amount))
	}
	return append(args, domain.BigOrZero(l.Price), new(big.Int).SetUint64(l.ExpireTime))
}

func ABI(variant domain.TokenType) ethabi.ABI {
	if variant == domain.TokenType1155 {
		return abi.ListingsERC1155ABI
	}
	return abi.ListingsERC721ABI
}

// EthLog encodes e the way the marketplace contract at addr logs it
func EthLog(addr common.Address, e Event) (*types.Log, error) {
	return abi.PackLog(ABI(e.TokenType()), addr, e.EventName(), e.Args()...)
}
