// Package ownable gates administrative calls behind the single account that deployed a contract.
package ownable

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/domain"
)

type Guard struct {
	owner common.Address
}

func New(owner common.Address) *Guard {
	return &Guard{owner: owner}
}

func (g *Guard) Owner() common.Address {
	return g.owner
}

func (g *Guard) RequireOwner(caller common.Address) error {
	if caller != g.owner {
		return domain.ErrUnauthorizedAccount
	}
	return nil
}
