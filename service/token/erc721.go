package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/domain"
)

// Erc721 is an in-process unique-ownership token. State changes are journaled on the
// transaction so they roll back with it.
type Erc721 struct {
	address common.Address

	mu        sync.RWMutex
	owners    map[common.Hash]common.Address
	operators operators
	next      uint64
}

func NewErc721(address common.Address) *Erc721 {
	return &Erc721{
		address:   address,
		owners:    make(map[common.Hash]common.Address),
		operators: newOperators(),
	}
}

func (t *Erc721) Address() common.Address {
	return t.address
}

// Mint gives the next sequential id, starting at 0, to to
func (t *Erc721) Mint(tx domain.Tx, to common.Address) (*big.Int, error) {
	t.mu.Lock()
	id := t.next
	t.next++
	t.mu.Unlock()
	tx.OnRevert(func() {
		t.mu.Lock()
		t.next = id
		t.mu.Unlock()
	})

	item := new(big.Int).SetUint64(id)
	if err := t.mint(tx, to, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (t *Erc721) mint(tx domain.Tx, to common.Address, item *big.Int) error {
	if to == domain.EmptyAddress {
		return ErrInvalidReceiver
	}
	if _, err := t.OwnerOf(item); err == nil {
		return ErrAlreadyMinted
	}
	t.setOwner(tx, item, to)
	tx.Emit(Transfer{From: domain.EmptyAddress, To: to, TokenId: new(big.Int).Set(item)})
	return nil
}

func (t *Erc721) OwnerOf(item *big.Int) (common.Address, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	owner, ok := t.owners[common.BigToHash(item)]
	if !ok {
		return common.Address{}, domain.ErrNonexistentToken
	}
	return owner, nil
}

// SetApprovalForAll lets operator move every token of the caller
func (t *Erc721) SetApprovalForAll(tx domain.Tx, operator common.Address, approved bool) {
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

func (t *Erc721) IsApprovedForAll(owner, operator common.Address) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.operators.get(owner, operator)
}

// SafeTransferFrom moves item and then hands control to the recipient's hook, if any
func (t *Erc721) SafeTransferFrom(tx domain.Tx, from, to common.Address, item *big.Int) error {
	owner, err := t.OwnerOf(item)
	if err != nil {
		return err
	}
	if owner != from {
		return ErrIncorrectOwner
	}
	operator := tx.Sender()
	if operator != from && !t.IsApprovedForAll(from, operator) {
		return domain.ErrNotOperator
	}
	if to == domain.EmptyAddress {
		return ErrInvalidReceiver
	}

	t.setOwner(tx, item, to)
	tx.Emit(Transfer{From: from, To: to, TokenId: new(big.Int).Set(item)})

	contract, ok := tx.Contract(to)
	if !ok {
		return nil
	}
	receiver, ok := contract.(domain.Erc721Receiver)
	if !ok {
		return nil
	}
	return tx.Call(to, nil, func(inner domain.Tx) error {
		return receiver.OnErc721Received(inner, operator, from, item, nil)
	})
}

func (t *Erc721) setOwner(tx domain.Tx, item *big.Int, to common.Address) {
	key := common.BigToHash(item)
	t.mu.Lock()
	prev, existed := t.owners[key]
	t.owners[key] = to
	t.mu.Unlock()

	tx.OnRevert(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if existed {
			t.owners[key] = prev
		} else {
			delete(t.owners, key)
		}
	})
}
