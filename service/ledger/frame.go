package ledger

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
)

// frame implements domain.Tx for one call depth
type frame struct {
	state  *txState
	sender common.Address
	self   common.Address
	value  *big.Int
}

func (f *frame) Ctx() ctx.Ctx {
	return f.state.ctx
}

func (f *frame) Sender() common.Address {
	return f.sender
}

func (f *frame) Self() common.Address {
	return f.self
}

func (f *frame) Value() *big.Int {
	return new(big.Int).Set(f.value)
}

func (f *frame) Now() uint64 {
	return f.state.now
}

func (f *frame) Emit(event domain.Event) {
	f.state.logs = append(f.state.logs, domain.Log{Address: f.self, Event: event})
}

func (f *frame) OnRevert(undo func()) {
	f.state.journal = append(f.state.journal, undo)
}

func (f *frame) Balance(addr common.Address) *big.Int {
	return f.state.ledger.Balance(addr)
}

func (f *frame) Contract(addr common.Address) (interface{}, bool) {
	return f.state.ledger.Contract(addr)
}

func (f *frame) Call(to common.Address, value *big.Int, fn func(domain.Tx) error) error {
	value = domain.BigOrZero(value)
	sn := f.state.snapshot()
	if err := f.state.move(f.self, to, value); err != nil {
		return err
	}
	child := &frame{state: f.state, sender: f.self, self: to, value: value}
	if err := fn(child); err != nil {
		f.state.revertTo(sn)
		return err
	}
	return nil
}

// Transfer sends native value and runs the recipient's Receive hook if it has one
func (f *frame) Transfer(to common.Address, amount *big.Int) error {
	err := f.Call(to, amount, func(tx domain.Tx) error {
		contract, ok := tx.Contract(to)
		if !ok {
			return nil
		}
		if r, ok := contract.(domain.PayableReceiver); ok {
			return r.Receive(tx)
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrTransferFailure) {
		return err
	}
	return domain.WrapError(domain.ErrTransferFailure, domain.ErrTransferRejected.Reason, err)
}
