package listing

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
)

// Precheck tells whether buying a listing would get past the custody guards on a live chain.
// Reason is the message BuyToken would fail with.
type Precheck struct {
	ListingId uint64 `json:"listingId"`
	Buyable   bool   `json:"buyable"`
	Reason    string `json:"reason,omitempty"`
}

type PrecheckUseCase interface {
	Check(c ctx.Ctx, chainId int32, variant domain.TokenType, market common.Address, l Listing) (*Precheck, error)
	// CheckAll runs the checks concurrently, results keep the order of ls
	CheckAll(c ctx.Ctx, chainId int32, variant domain.TokenType, market common.Address, ls []Listing) ([]Precheck, error)
}
