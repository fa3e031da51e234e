package ens

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/ctx"
)

// Resolver maps ENS names to addresses and back
type Resolver interface {
	Resolve(c ctx.Ctx, name string) (common.Address, error)
	// ReverseResolve returns the primary name of addr, "" when it has none
	ReverseResolve(c ctx.Ctx, addr common.Address) (string, error)
}

// IsName reports whether s looks like an ENS name rather than a hex address
func IsName(s string) bool {
	return strings.HasSuffix(strings.ToLower(s), ".eth") && !common.IsHexAddress(s)
}
