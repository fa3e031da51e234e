package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/domain"
)

// Erc1155 is an in-process divisible-ownership token
type Erc1155 struct {
	address common.Address

	mu        sync.RWMutex
	balances  map[common.Hash]map[common.Address]*big.Int
	operators operators
}

func NewErc1155(address common.Address) *Erc1155 {
	return &Erc1155{
		address:   address,
		balances:  make(map[common.Hash]map[common.Address]*big.Int),
		operators: newOperators(),
	}
}

func (t *Erc1155) Address() common.Address {
	return t.address
}

func (t *Erc1155) Mint(tx domain.Tx, to common.Address, item, amount *big.Int) error {
	if to == domain.EmptyAddress {
		return ErrInvalidReceiver
	}
	t.add(tx, item, to, amount)
	tx.Emit(TransferSingle{
		Operator: tx.Sender(),
		From:     domain.EmptyAddress,
		To:       to,
		Id:       new(big.Int).Set(item),
		Value:    new(big.Int).Set(amount),
	})
	return nil
}

func (t *Erc1155) BalanceOf(holder common.Address, item *big.Int) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if b, ok := t.balances[common.BigToHash(item)][holder]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (t *Erc1155) SetApprovalForAll(tx domain.Tx, operator common.Address, approved bool) {
	owner := tx.Sender()
	t.mu.Lock()
	prev := t.operators.set(owner, operator, approved)
	t.mu.Unlock()
	tx.OnRevert(func() {
		t.mu.Lock()
		t.operators.set(owner, operator, prev)
		t.mu.Unlock()
	})
	tx.Emit(ApprovalForAll{Owner: owner, Operator: operator, Approved: approved})
}

func (t *Erc1155) IsApprovedForAll(owner, operator common.Address) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.operators.get(owner, operator)
}

func (t *Erc1155) SafeTransferFrom(tx domain.Tx, from, to common.Address, item, amount *big.Int, data []byte) error {
	operator := tx.Sender()
	if operator != from && !t.IsApprovedForAll(from, operator) {
		return domain.ErrNotOperator
	}
	if to == domain.EmptyAddress {
		return ErrInvalidReceiver
	}
	if t.BalanceOf(from, item).Cmp(amount) < 0 {
		return ErrInsufficientUnit
	}

	t.add(tx, item, from, new(big.Int).Neg(amount))
	t.add(tx, item, to, amount)
	tx.Emit(TransferSingle{
		Operator: operator,
		From:     from,
		To:       to,
		Id:       new(big.Int).Set(item),
		Value:    new(big.Int).Set(amount),
	})

	contract, ok := tx.Contract(to)
	if !ok {
		return nil
	}
	receiver, ok := contract.(domain.Erc1155Receiver)
	if !ok {
		return nil
	}
	return tx.Call(to, nil, func(inner domain.Tx) error {
		return receiver.OnErc1155Received(inner, operator, from, item, amount, data)
	})
}

func (t *Erc1155) add(tx domain.Tx, item *big.Int, holder common.Address, delta *big.Int) {
	key := common.BigToHash(item)
	d := new(big.Int).Set(delta)
	t.mu.Lock()
	holders, ok := t.balances[key]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		t.balances[key] = holders
	}
	b, ok := holders[holder]
	if !ok {
		b = new(big.Int)
		holders[holder] = b
	}
	b.Add(b, d)
	t.mu.Unlock()

	tx.OnRevert(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		b.Sub(b, d)
	})
}
