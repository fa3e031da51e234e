package usecase

import (
	"math/big"
	"sync"

	"github.com/x-xyz/listings/base/ownable"
	"github.com/x-xyz/listings/domain"
)

const maxComissionPercent = 100

// Commission is the percentage of every sale kept by the marketplace, in [0, 99]
type Commission struct {
	guard *ownable.Guard

	mu      sync.RWMutex
	percent uint64
}

func NewCommission(guard *ownable.Guard) *Commission {
	return &Commission{guard: guard}
}

func (c *Commission) Percent() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.percent
}

func (c *Commission) SetPercent(tx domain.Tx, value uint64) error {
	if err := c.guard.RequireOwner(tx.Sender()); err != nil {
		return err
	}
	if value >= maxComissionPercent {
		return domain.ErrCommissionTooHigh
	}

	c.mu.Lock()
	prev := c.percent
	c.percent = value
	c.mu.Unlock()
	tx.OnRevert(func() {
		c.mu.Lock()
		c.percent = prev
		c.mu.Unlock()
	})
	return nil
}

// Split rounds the commission down, the seller gets the remainder
func (c *Commission) Split(total *big.Int) (seller, commission *big.Int) {
	return split(total, c.Percent())
}

func split(total *big.Int, percent uint64) (seller, commission *big.Int) {
	total = domain.BigOrZero(total)
	commission = new(big.Int).Mul(total, new(big.Int).SetUint64(percent))
	commission.Quo(commission, domain.Big100)
	seller = new(big.Int).Sub(total, commission)
	return seller, commission
}
