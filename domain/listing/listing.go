package listing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/domain"
)

// Key addresses one listing slot. The unique-ownership variant leaves Seller empty since only
// the current owner can fill the slot of an item.
type Key struct {
	Contract common.Address
	Item     common.Hash
	Seller   common.Address
}

func NewKey(contract common.Address, item *big.Int, seller common.Address) Key {
	return Key{
		Contract: contract,
		Item:     common.BigToHash(domain.BigOrZero(item)),
		Seller:   seller,
	}
}

func UniqueKey(contract common.Address, item *big.Int) Key {
	return NewKey(contract, item, domain.EmptyAddress)
}

// Listing is an active sale offer. The zero value means "no listing": a slot that never held a
// listing and a slot whose listing was cancelled or sold look the same.
type Listing struct {
	Id         uint64         `json:"id"`
	Seller     common.Address `json:"seller"`
	Contract   common.Address `json:"tokenContract"`
	Item       *big.Int       `json:"tokenId"`
	Amount     *big.Int       `json:"amount"`
	Price      *big.Int       `json:"price"`
	ExpireTime uint64         `json:"expireTime"`
}

func (l Listing) Exists() bool {
	return l.Id != 0
}

// Total is the payment a buyer has to attach, price is per unit
func (l Listing) Total() *big.Int {
	return new(big.Int).Mul(domain.BigOrZero(l.Price), domain.BigOrZero(l.Amount))
}

// Expired reports whether the listing can no longer be bought at now
func (l Listing) Expired(now uint64) bool {
	return now >= l.ExpireTime
}

func (l Listing) Clone() Listing {
	c := l
	if l.Item != nil {
		c.Item = new(big.Int).Set(l.Item)
	}
	if l.Amount != nil {
		c.Amount = new(big.Int).Set(l.Amount)
	}
	if l.Price != nil {
		c.Price = new(big.Int).Set(l.Price)
	}
	return c
}

type FindAllOptions struct {
	Contract *common.Address
	Seller   *common.Address
	Item     *big.Int
	Offset   *int
	Limit    *int
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithContract(contract common.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Contract = &contract
		return nil
	}
}

func WithSeller(seller common.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Seller = &seller
		return nil
	}
}

func WithItem(item *big.Int) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		if item == nil || item.Sign() < 0 {
			return domain.ErrBadParamInput
		}
		options.Item = new(big.Int).Set(item)
		return nil
	}
}

func WithPagination(offset, limit int) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		if offset < 0 || limit <= 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// Repo stores the listing slots of one marketplace instance together with its id counter.
// Mutations are journaled on tx so a reverted transaction leaves no trace.
type Repo interface {
	Get(key Key) Listing
	Put(tx domain.Tx, key Key, l Listing)
	Clear(tx domain.Tx, key Key)
	// NextId hands out 1, 2, 3... and never reuses a value
	NextId(tx domain.Tx) uint64
	FindAll(opts ...FindAllOptionsFunc) ([]Listing, error)
}
