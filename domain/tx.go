package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/listings/base/ctx"
)

// Event is anything a contract emits while a transaction runs
type Event interface {
	EventName() string
}

// EthEvent is an event that knows its on-chain log encoding
type EthEvent interface {
	Event
	EthLog(addr common.Address) (*types.Log, error)
}

type Log struct {
	Address common.Address
	Event   Event
}

// Msg is the top level call submitted to an Executor
type Msg struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

type Receipt struct {
	TxId      string
	From      common.Address
	To        common.Address
	Value     *big.Int
	Timestamp uint64
	Logs      []Log
}

// Tx is one call frame of a serialized transaction. Nested frames created with Call share
// the journal of the outermost frame, so a re-entrant call observes every effect recorded so far.
type Tx interface {
	Ctx() ctx.Ctx
	// Sender is msg.sender of this frame
	Sender() common.Address
	// Self is the address of the contract running this frame
	Self() common.Address
	// Value attached to this frame, already credited to Self
	Value() *big.Int
	Now() uint64

	Emit(event Event)
	// OnRevert registers undo for the latest mutation, undos run in reverse order
	OnRevert(undo func())

	Balance(addr common.Address) *big.Int
	// Transfer pays amount of native value from Self to to
	Transfer(to common.Address, amount *big.Int) error
	// Call opens a nested frame on behalf of Self, its effects are reverted if fn fails
	Call(to common.Address, value *big.Int, fn func(Tx) error) error
	Contract(addr common.Address) (interface{}, bool)
}

type Executor interface {
	Execute(c ctx.Ctx, msg Msg, fn func(Tx) error) (*Receipt, error)
}

// Viewer runs reads against committed state, waiting for a running transaction to finish
type Viewer interface {
	View(fn func())
}

// PayableReceiver is implemented by contracts that run code when native value is sent to them
type PayableReceiver interface {
	Receive(tx Tx) error
}
