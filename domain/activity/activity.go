package activity

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
)

type Type string

const (
	TypeListed    Type = "listed"
	TypeCancelled Type = "cancelled"
	TypeSold      Type = "sold"
)

// Activity is one marketplace event of a committed transaction. Addresses are lower case hex and
// numbers are base 10 strings so they survive a round trip through mongo unchanged.
type Activity struct {
	TxId       string           `json:"txId" bson:"txId"`
	LogIndex   int              `json:"logIndex" bson:"logIndex"`
	Type       Type             `json:"type" bson:"type"`
	TokenType  domain.TokenType `json:"tokenType" bson:"tokenType"`
	Market     string           `json:"market" bson:"market"`
	ListingId  uint64           `json:"listingId" bson:"listingId"`
	Contract   string           `json:"contract" bson:"contract"`
	TokenId    string           `json:"tokenId" bson:"tokenId"`
	Seller     string           `json:"seller" bson:"seller"`
	Buyer      string           `json:"buyer,omitempty" bson:"buyer,omitempty"`
	Amount     string           `json:"amount" bson:"amount"`
	Price      string           `json:"price" bson:"price"`
	ExpireTime uint64           `json:"expireTime" bson:"expireTime"`
	Time       time.Time        `json:"time" bson:"time"`
}

func (a Activity) ToId() Id {
	return Id{TxId: a.TxId, LogIndex: a.LogIndex}
}

type Id struct {
	TxId     string `bson:"txId"`
	LogIndex int    `bson:"logIndex"`
}

func ToAddress(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// FromEvent converts a marketplace event, ok is false for any other event
func FromEvent(receipt *domain.Receipt, logIndex int, market common.Address, e domain.Event) (Activity, bool) {
	var (
		l     listing.Listing
		typ   Type
		buyer string
		ev    listing.Event
	)
	switch v := e.(type) {
	case listing.ListingCreated:
		l, typ, ev = v.Listing, TypeListed, v
	case listing.ListingRemoved:
		l, typ, ev = v.Listing, TypeCancelled, v
	case listing.TokenSold:
		l, typ, ev = v.Listing, TypeSold, v
		buyer = ToAddress(v.Buyer)
	default:
		return Activity{}, false
	}

	return Activity{
		TxId:       receipt.TxId,
		LogIndex:   logIndex,
		Type:       typ,
		TokenType:  ev.TokenType(),
		Market:     ToAddress(market),
		ListingId:  l.Id,
		Contract:   ToAddress(l.Contract),
		TokenId:    domain.BigOrZero(l.Item).String(),
		Seller:     ToAddress(l.Seller),
		Buyer:      buyer,
		Amount:     domain.BigOrZero(l.Amount).String(),
		Price:      domain.BigOrZero(l.Price).String(),
		ExpireTime: l.ExpireTime,
		Time:       time.Unix(int64(receipt.Timestamp), 0).UTC(),
	}, true
}

type findAllOptions struct {
	Offset    *int              `bson:"-"`
	Limit     *int              `bson:"-"`
	SortDir   *domain.SortDir   `bson:"-"`
	Market    *string           `bson:"market"`
	Contract  *string           `bson:"contract"`
	TokenId   *string           `bson:"tokenId"`
	Seller    *string           `bson:"seller"`
	Buyer     *string           `bson:"buyer"`
	Type      *Type             `bson:"type"`
	TokenType *domain.TokenType `bson:"tokenType"`
}

type FindAllOptions func(*findAllOptions) error

func GetFindAllOptions(opts ...FindAllOptions) (findAllOptions, error) {
	res := findAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

// Match reports whether a satisfies every filter set in o
func (o findAllOptions) Match(a Activity) bool {
	eq := func(want *string, got string) bool { return want == nil || *want == got }
	return eq(o.Market, a.Market) &&
		eq(o.Contract, a.Contract) &&
		eq(o.TokenId, a.TokenId) &&
		eq(o.Seller, a.Seller) &&
		eq(o.Buyer, a.Buyer) &&
		(o.Type == nil || *o.Type == a.Type) &&
		(o.TokenType == nil || *o.TokenType == a.TokenType)
}

func WithPagination(offset, limit int) FindAllOptions {
	return func(options *findAllOptions) error {
		if offset < 0 || limit <= 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// WithSortDir orders by time, newest first by default
func WithSortDir(dir domain.SortDir) FindAllOptions {
	return func(options *findAllOptions) error {
		options.SortDir = &dir
		return nil
	}
}

func WithMarket(addr common.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		a := ToAddress(addr)
		options.Market = &a
		return nil
	}
}

func WithContract(addr common.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		a := ToAddress(addr)
		options.Contract = &a
		return nil
	}
}

func WithTokenId(tokenId string) FindAllOptions {
	return func(options *findAllOptions) error {
		n, err := domain.ParseUint256(tokenId)
		if err != nil {
			return err
		}
		id := n.String()
		options.TokenId = &id
		return nil
	}
}

func WithSeller(addr common.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		a := ToAddress(addr)
		options.Seller = &a
		return nil
	}
}

func WithBuyer(addr common.Address) FindAllOptions {
	return func(options *findAllOptions) error {
		a := ToAddress(addr)
		options.Buyer = &a
		return nil
	}
}

func WithType(typ Type) FindAllOptions {
	return func(options *findAllOptions) error {
		switch typ {
		case TypeListed, TypeCancelled, TypeSold:
		default:
			return domain.ErrBadParamInput
		}
		options.Type = &typ
		return nil
	}
}

func WithTokenType(t domain.TokenType) FindAllOptions {
	return func(options *findAllOptions) error {
		options.TokenType = &t
		return nil
	}
}

type Repo interface {
	// Upsert is keyed by (TxId, LogIndex) so replaying a receipt is harmless
	Upsert(c ctx.Ctx, a Activity) error
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]Activity, error)
	Count(c ctx.Ctx, opts ...FindAllOptions) (int, error)
}

type UseCase interface {
	// Record is a ledger subscriber, it stores the marketplace events of receipt asynchronously
	Record(c ctx.Ctx, receipt *domain.Receipt)
	FindAll(c ctx.Ctx, opts ...FindAllOptions) ([]Activity, error)
	Count(c ctx.Ctx, opts ...FindAllOptions) (int, error)
	// Close waits for pending records
	Close()
}
