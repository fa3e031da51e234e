package ledger

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/domain"
)

// Subscriber is notified with every committed receipt, after the ledger lock is released
type Subscriber func(c ctx.Ctx, receipt *domain.Receipt)

// Ledger runs transactions one at a time and keeps native balances and deployed contracts.
type Ledger struct {
	// txMu is held for writing by a running transaction and for reading by View.
	// Nested frames never take it.
	txMu sync.RWMutex

	mu        sync.RWMutex
	clock     Clock
	balances  map[common.Address]*big.Int
	nonces    map[common.Address]uint64
	contracts map[common.Address]interface{}
	subs      []Subscriber
}

func New(clock Clock) *Ledger {
	if clock == nil {
		clock = NewWallClock()
	}
	return &Ledger{
		clock:     clock,
		balances:  make(map[common.Address]*big.Int),
		nonces:    make(map[common.Address]uint64),
		contracts: make(map[common.Address]interface{}),
	}
}

// Deploy derives a contract address from deployer and its nonce, and registers the contract build returns.
func (l *Ledger) Deploy(deployer common.Address, build func(addr common.Address) interface{}) common.Address {
	l.mu.Lock()
	nonce := l.nonces[deployer]
	l.nonces[deployer] = nonce + 1
	addr := crypto.CreateAddress(deployer, nonce)
	l.mu.Unlock()

	contract := build(addr)

	l.mu.Lock()
	l.contracts[addr] = contract
	l.mu.Unlock()
	return addr
}

// Register places code at a fixed address, used for receivers owned by externally controlled accounts
func (l *Ledger) Register(addr common.Address, contract interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.contracts[addr] = contract
}

func (l *Ledger) Contract(addr common.Address) (interface{}, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.contracts[addr]
	return c, ok
}

func (l *Ledger) Balance(addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if b, ok := l.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// SetBalance overwrites a native balance outside of any transaction
func (l *Ledger) SetBalance(addr common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[addr] = new(big.Int).Set(amount)
}

// View runs fn while no transaction is in flight, so fn only sees committed state.
// fn must not submit a transaction.
func (l *Ledger) View(fn func()) {
	l.txMu.RLock()
	defer l.txMu.RUnlock()
	fn()
}

func (l *Ledger) Now() uint64 {
	return l.clock.Now()
}

func (l *Ledger) Subscribe(s Subscriber) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, s)
}

// Execute runs fn as the transaction msg. Any error, or panic, reverts every effect recorded
// through the journal and drops the emitted events.
func (l *Ledger) Execute(c ctx.Ctx, msg domain.Msg, fn func(domain.Tx) error) (*domain.Receipt, error) {
	l.txMu.Lock()

	value := domain.BigOrZero(msg.Value)
	st := &txState{ledger: l, ctx: c, now: l.clock.Now()}
	root := &frame{state: st, sender: msg.From, self: msg.To, value: value}

	err := st.run(func() error {
		if err := st.move(msg.From, msg.To, value); err != nil {
			return err
		}
		return fn(root)
	})
	if err != nil {
		st.revertTo(snapshot{})
		l.txMu.Unlock()
		c.WithFields(log.Fields{
			"from": msg.From.Hex(),
			"to":   msg.To.Hex(),
			"err":  err,
		}).Warn("transaction reverted")
		return nil, err
	}

	receipt := &domain.Receipt{
		TxId:      uuid.NewString(),
		From:      msg.From,
		To:        msg.To,
		Value:     new(big.Int).Set(value),
		Timestamp: st.now,
		Logs:      st.logs,
	}
	l.mu.RLock()
	subs := make([]Subscriber, len(l.subs))
	copy(subs, l.subs)
	l.mu.RUnlock()
	l.txMu.Unlock()

	c.WithFields(log.Fields{
		"txId": receipt.TxId,
		"from": msg.From.Hex(),
		"to":   msg.To.Hex(),
		"logs": len(receipt.Logs),
	}).Debug("transaction committed")

	for _, s := range subs {
		s(c, receipt)
	}
	return receipt, nil
}

func (l *Ledger) credit(addr common.Address, delta *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.balances[addr]
	if !ok {
		b = new(big.Int)
		l.balances[addr] = b
	}
	b.Add(b, delta)
}

type snapshot struct {
	journal int
	logs    int
}

// txState is shared by every frame of one transaction
type txState struct {
	ledger  *Ledger
	ctx     ctx.Ctx
	now     uint64
	journal []func()
	logs    []domain.Log
}

func (s *txState) run(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = xerrors.Errorf("panic in transaction: %v", p)
		}
	}()
	return fn()
}

func (s *txState) snapshot() snapshot {
	return snapshot{journal: len(s.journal), logs: len(s.logs)}
}

func (s *txState) revertTo(sn snapshot) {
	for i := len(s.journal) - 1; i >= sn.journal; i-- {
		s.journal[i]()
	}
	s.journal = s.journal[:sn.journal]
	s.logs = s.logs[:sn.logs]
}

func (s *txState) move(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if s.ledger.Balance(from).Cmp(amount) < 0 {
		return domain.WrapError(domain.ErrTransferFailure, "insufficient balance",
			xerrors.Errorf("%s has less than %s", from.Hex(), amount))
	}
	neg := new(big.Int).Neg(amount)
	pos := new(big.Int).Set(amount)
	s.ledger.credit(from, neg)
	s.ledger.credit(to, pos)
	s.journal = append(s.journal, func() {
		s.ledger.credit(to, neg)
		s.ledger.credit(from, pos)
	})
	return nil
}
