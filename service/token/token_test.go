package token

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/service/ledger"
)

var (
	deployer = common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	alice    = common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	bob      = common.HexToAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	operator = common.HexToAddress("0x90f79bf6eb2c4f870365e785982e1f8e6ecc80e0")
)

type receiver struct {
	calls  int
	from   common.Address
	amount *big.Int
	err    error
}

func (r *receiver) OnErc721Received(tx domain.Tx, op, from common.Address, item *big.Int, data []byte) error {
	r.calls++
	r.from = from
	return r.err
}

func (r *receiver) OnErc1155Received(tx domain.Tx, op, from common.Address, item, amount *big.Int, data []byte) error {
	r.calls++
	r.from = from
	r.amount = amount
	return r.err
}

type tokenSuite struct {
	suite.Suite

	l *ledger.Ledger
}

func TestTokenSuite(t *testing.T) {
	suite.Run(t, new(tokenSuite))
}

func (s *tokenSuite) SetupTest() {
	s.l = ledger.New(ledger.NewManualClock(1000))
}

func (s *tokenSuite) exec(from, to common.Address, value *big.Int, fn func(tx domain.Tx) error) (*domain.Receipt, error) {
	return s.l.Execute(ctx.Background(), domain.Msg{From: from, To: to, Value: value}, fn)
}

func (s *tokenSuite) deploy721() *Erc721 {
	var t *Erc721
	s.l.Deploy(deployer, func(addr common.Address) interface{} {
		t = NewErc721(addr)
		return t
	})
	return t
}

func (s *tokenSuite) deploy1155() *Erc1155 {
	var t *Erc1155
	s.l.Deploy(deployer, func(addr common.Address) interface{} {
		t = NewErc1155(addr)
		return t
	})
	return t
}

func (s *tokenSuite) TestErc721MintSequential() {
	t := s.deploy721()
	for want := int64(0); want < 3; want++ {
		_, err := s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
			item, err := t.Mint(tx, alice)
			s.Require().NoError(err)
			s.Equal(want, item.Int64())
			return nil
		})
		s.Require().NoError(err)
	}
	owner, err := t.OwnerOf(big.NewInt(2))
	s.Require().NoError(err)
	s.Equal(alice, owner)

	_, err = t.OwnerOf(big.NewInt(3))
	s.True(errors.Is(err, domain.ErrState))
}

func (s *tokenSuite) TestErc721TransferRequiresOperator() {
	t := s.deploy721()
	_, err := s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		_, err := t.Mint(tx, alice)
		return err
	})
	s.Require().NoError(err)

	_, err = s.exec(operator, t.Address(), nil, func(tx domain.Tx) error {
		return t.SafeTransferFrom(tx, alice, bob, big.NewInt(0))
	})
	s.Equal(domain.ErrNotOperator, err)

	_, err = s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		t.SetApprovalForAll(tx, operator, true)
		return nil
	})
	s.Require().NoError(err)
	s.True(t.IsApprovedForAll(alice, operator))

	receipt, err := s.exec(operator, t.Address(), nil, func(tx domain.Tx) error {
		return t.SafeTransferFrom(tx, alice, bob, big.NewInt(0))
	})
	s.Require().NoError(err)
	s.Require().Len(receipt.Logs, 1)
	s.Equal("Transfer", receipt.Logs[0].Event.EventName())

	owner, _ := t.OwnerOf(big.NewInt(0))
	s.Equal(bob, owner)

	_, err = s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		return t.SafeTransferFrom(tx, alice, bob, big.NewInt(0))
	})
	s.Equal(ErrIncorrectOwner, err)
}

func (s *tokenSuite) TestErc721ReceiverHook() {
	t := s.deploy721()
	recv := &receiver{}
	s.l.Register(bob, recv)

	_, err := s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		if _, err := t.Mint(tx, alice); err != nil {
			return err
		}
		return t.SafeTransferFrom(tx, alice, bob, big.NewInt(0))
	})
	s.Require().NoError(err)
	s.Equal(1, recv.calls)
	s.Equal(alice, recv.from)

	// a rejecting hook rolls the whole transfer back
	recv.err = errors.New("no thanks")
	_, err = s.exec(bob, t.Address(), nil, func(tx domain.Tx) error {
		return t.SafeTransferFrom(tx, bob, alice, big.NewInt(0))
	})
	s.Require().NoError(err)

	_, err = s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		return t.SafeTransferFrom(tx, alice, bob, big.NewInt(0))
	})
	s.Equal(recv.err, err)
	owner, _ := t.OwnerOf(big.NewInt(0))
	s.Equal(alice, owner)
}

func (s *tokenSuite) TestErc721RevertUndoesMint() {
	t := s.deploy721()
	boom := errors.New("boom")
	_, err := s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		_, _ = t.Mint(tx, alice)
		t.SetApprovalForAll(tx, operator, true)
		return boom
	})
	s.Equal(boom, err)
	_, err = t.OwnerOf(big.NewInt(0))
	s.Equal(domain.ErrNonexistentToken, err)
	s.False(t.IsApprovedForAll(alice, operator))

	_, err = s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		item, err := t.Mint(tx, alice)
		s.Equal(int64(0), item.Int64())
		return err
	})
	s.Require().NoError(err)
}

func (s *tokenSuite) TestErc1155Transfer() {
	t := s.deploy1155()
	item := big.NewInt(0)
	recv := &receiver{}
	s.l.Register(bob, recv)

	_, err := s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		return t.Mint(tx, alice, item, big.NewInt(10))
	})
	s.Require().NoError(err)
	s.Equal("10", t.BalanceOf(alice, item).String())
	s.Equal("0", t.BalanceOf(bob, item).String())

	_, err = s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		return t.SafeTransferFrom(tx, alice, bob, item, big.NewInt(11), nil)
	})
	s.Equal(ErrInsufficientUnit, err)

	_, err = s.exec(operator, t.Address(), nil, func(tx domain.Tx) error {
		return t.SafeTransferFrom(tx, alice, bob, item, big.NewInt(1), nil)
	})
	s.Equal(domain.ErrNotOperator, err)

	_, err = s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		return t.SafeTransferFrom(tx, alice, bob, item, big.NewInt(4), nil)
	})
	s.Require().NoError(err)
	s.Equal("6", t.BalanceOf(alice, item).String())
	s.Equal("4", t.BalanceOf(bob, item).String())
	s.Equal(1, recv.calls)
	s.Equal("4", recv.amount.String())

	recv.err = errors.New("no thanks")
	_, err = s.exec(alice, t.Address(), nil, func(tx domain.Tx) error {
		return t.SafeTransferFrom(tx, alice, bob, item, big.NewInt(6), nil)
	})
	s.Equal(recv.err, err)
	s.Equal("6", t.BalanceOf(alice, item).String())
	s.Equal("4", t.BalanceOf(bob, item).String())
}

func (s *tokenSuite) TestCoNFT() {
	price := big.NewInt(50)
	var c *CoNFT
	s.l.Deploy(deployer, func(addr common.Address) interface{} {
		c = NewCoNFT(addr, deployer, price, "")
		return c
	})
	s.l.SetBalance(alice, big.NewInt(1000))

	_, err := s.exec(alice, c.Address(), big.NewInt(49), func(tx domain.Tx) error {
		_, err := c.Mint(tx)
		return err
	})
	s.Equal(domain.ErrFundsMismatch, err)
	s.Equal("1000", s.l.Balance(alice).String())

	receipt, err := s.exec(alice, c.Address(), price, func(tx domain.Tx) error {
		item, err := c.Mint(tx)
		s.Equal(int64(1), item.Int64())
		return err
	})
	s.Require().NoError(err)
	s.Require().Len(receipt.Logs, 2)
	minted, ok := receipt.Logs[1].Event.(Minted)
	s.Require().True(ok)
	s.Equal(alice, minted.Owner)
	s.Equal("1", minted.TokenId.String())
	s.Equal("1", c.TotalSupply().String())
	s.Equal(DefaultBaseURI+"1", c.TokenURI(big.NewInt(1)))
	owner, err := c.OwnerOf(big.NewInt(1))
	s.Require().NoError(err)
	s.Equal(alice, owner)

	_, err = s.exec(alice, c.Address(), nil, func(tx domain.Tx) error {
		return c.Withdraw(tx)
	})
	s.Equal(domain.ErrUnauthorizedAccount, err)

	_, err = s.exec(deployer, c.Address(), nil, func(tx domain.Tx) error {
		return c.Withdraw(tx)
	})
	s.Require().NoError(err)
	s.Equal("50", s.l.Balance(deployer).String())
	s.Equal("0", s.l.Balance(c.Address()).String())
}
