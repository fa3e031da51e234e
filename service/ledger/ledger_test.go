package ledger

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol = common.HexToAddress("0x00000000000000000000000000000000000ca201")
)

type testEvent struct{ n int }

func (testEvent) EventName() string { return "Test" }

type rejecter struct{}

func (rejecter) Receive(tx domain.Tx) error {
	return errors.New("no thanks")
}

type counter struct {
	n int
}

func (c *counter) inc(tx domain.Tx) {
	c.n++
	tx.OnRevert(func() { c.n-- })
}

type ledgerSuite struct {
	suite.Suite

	clock *ManualClock
	l     *Ledger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(ledgerSuite))
}

func (s *ledgerSuite) SetupTest() {
	s.clock = NewManualClock(1_000_000)
	s.l = New(s.clock)
	s.l.SetBalance(alice, big.NewInt(100))
}

func (s *ledgerSuite) TestExecuteMovesValue() {
	receipt, err := s.l.Execute(ctx.Background(), domain.Msg{From: alice, To: bob, Value: big.NewInt(40)}, func(tx domain.Tx) error {
		s.Equal(alice, tx.Sender())
		s.Equal(bob, tx.Self())
		s.Equal("40", tx.Value().String())
		s.Equal(uint64(1_000_000), tx.Now())
		return nil
	})
	s.Require().NoError(err)
	s.NotEmpty(receipt.TxId)
	s.Equal("60", s.l.Balance(alice).String())
	s.Equal("40", s.l.Balance(bob).String())
}

func (s *ledgerSuite) TestInsufficientValue() {
	_, err := s.l.Execute(ctx.Background(), domain.Msg{From: bob, To: alice, Value: big.NewInt(1)}, func(tx domain.Tx) error {
		s.Fail("must not run")
		return nil
	})
	s.True(errors.Is(err, domain.ErrTransferFailure))
	s.Equal("100", s.l.Balance(alice).String())
}

func (s *ledgerSuite) TestFailureRevertsEverything() {
	c := &counter{}
	_, err := s.l.Execute(ctx.Background(), domain.Msg{From: alice, To: bob, Value: big.NewInt(10)}, func(tx domain.Tx) error {
		c.inc(tx)
		c.inc(tx)
		tx.Emit(testEvent{1})
		if err := tx.Transfer(carol, big.NewInt(5)); err != nil {
			return err
		}
		return domain.ErrListingNotFound
	})
	s.Equal(domain.ErrListingNotFound, err)
	s.Equal(0, c.n)
	s.Equal("100", s.l.Balance(alice).String())
	s.Equal("0", s.l.Balance(bob).String())
	s.Equal("0", s.l.Balance(carol).String())
}

func (s *ledgerSuite) TestPanicReverts() {
	c := &counter{}
	_, err := s.l.Execute(ctx.Background(), domain.Msg{From: alice, To: bob}, func(tx domain.Tx) error {
		c.inc(tx)
		panic("boom")
	})
	s.Error(err)
	s.Equal(0, c.n)

	// the ledger is still usable afterwards
	_, err = s.l.Execute(ctx.Background(), domain.Msg{From: alice, To: bob}, func(tx domain.Tx) error { return nil })
	s.NoError(err)
}

func (s *ledgerSuite) TestNestedCallRevertsOnlyItsFrame() {
	c := &counter{}
	receipt, err := s.l.Execute(ctx.Background(), domain.Msg{From: alice, To: bob, Value: big.NewInt(50)}, func(tx domain.Tx) error {
		c.inc(tx)
		tx.Emit(testEvent{1})
		inner := tx.Call(carol, big.NewInt(20), func(inner domain.Tx) error {
			s.Equal(bob, inner.Sender())
			s.Equal(carol, inner.Self())
			c.inc(inner)
			inner.Emit(testEvent{2})
			return errors.New("inner failed")
		})
		s.Error(inner)
		return nil
	})
	s.Require().NoError(err)
	s.Equal(1, c.n)
	s.Require().Len(receipt.Logs, 1)
	s.Equal(bob, receipt.Logs[0].Address)
	s.Equal("50", s.l.Balance(bob).String())
	s.Equal("0", s.l.Balance(carol).String())
}

func (s *ledgerSuite) TestTransferToRejectingReceiver() {
	s.l.Register(carol, rejecter{})
	_, err := s.l.Execute(ctx.Background(), domain.Msg{From: alice, To: bob, Value: big.NewInt(10)}, func(tx domain.Tx) error {
		return tx.Transfer(carol, big.NewInt(10))
	})
	s.True(errors.Is(err, domain.ErrTransferFailure))
	s.Equal("100", s.l.Balance(alice).String())
	s.Equal("0", s.l.Balance(carol).String())
}

func (s *ledgerSuite) TestSubscribersSeeCommittedReceiptsOnly() {
	var got []*domain.Receipt
	s.l.Subscribe(func(c ctx.Ctx, r *domain.Receipt) {
		got = append(got, r)
	})

	_, err := s.l.Execute(ctx.Background(), domain.Msg{From: alice, To: bob}, func(tx domain.Tx) error {
		tx.Emit(testEvent{1})
		return nil
	})
	s.Require().NoError(err)
	_, err = s.l.Execute(ctx.Background(), domain.Msg{From: alice, To: bob}, func(tx domain.Tx) error {
		tx.Emit(testEvent{2})
		return domain.ErrListingExpired
	})
	s.Require().Error(err)

	s.Require().Len(got, 1)
	s.Equal([]domain.Log{{Address: bob, Event: testEvent{1}}}, got[0].Logs)
}

func (s *ledgerSuite) TestDeployAddresses() {
	first := s.l.Deploy(alice, func(addr common.Address) interface{} { return &counter{} })
	second := s.l.Deploy(alice, func(addr common.Address) interface{} { return &counter{} })
	s.Equal(crypto.CreateAddress(alice, 0), first)
	s.Equal(crypto.CreateAddress(alice, 1), second)
	_, ok := s.l.Contract(first)
	s.True(ok)
}

func (s *ledgerSuite) TestManualClock() {
	s.clock.Advance(time.Hour)
	s.Equal(uint64(1_000_000+3600), s.l.Now())
	s.clock.Set(42)
	s.Equal(uint64(42), s.l.Now())
}

func (s *ledgerSuite) TestViewSeesCommittedStateOnly() {
	entered, release := make(chan struct{}), make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := s.l.Execute(ctx.Background(), domain.Msg{From: alice, To: bob, Value: big.NewInt(40)}, func(tx domain.Tx) error {
			close(entered)
			<-release
			return errors.New("abort")
		})
		done <- err
	}()
	<-entered

	seen := make(chan string, 1)
	go s.l.View(func() { seen <- s.l.Balance(bob).String() })

	select {
	case b := <-seen:
		s.Failf("view ran during a transaction", "bob balance %s", b)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	s.Error(<-done)
	s.Equal("0", <-seen)
}
