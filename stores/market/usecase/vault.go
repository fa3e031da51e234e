package usecase

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/ownable"
	"github.com/x-xyz/listings/domain"
)

// BalanceReader reads committed native balances
type BalanceReader interface {
	Balance(addr common.Address) *big.Int
}

// Vault is the native balance of the marketplace, fed by retained commissions
type Vault struct {
	address common.Address
	guard   *ownable.Guard
}

func NewVault(address common.Address, guard *ownable.Guard) *Vault {
	return &Vault{address: address, guard: guard}
}

func (v *Vault) Balance(r BalanceReader) *big.Int {
	return r.Balance(v.address)
}

// Withdraw moves the whole balance to the owner, the owner rejecting it fails the transaction
func (v *Vault) Withdraw(tx domain.Tx) error {
	if err := v.guard.RequireOwner(tx.Sender()); err != nil {
		return err
	}
	return tx.Transfer(v.guard.Owner(), tx.Balance(v.address))
}
