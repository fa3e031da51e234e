package usecase

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
	"github.com/x-xyz/listings/service/ledger"
	"github.com/x-xyz/listings/stores/listing/repository"
)

const genesis = uint64(1_700_000_000)

var (
	deployer = common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	seller   = common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	buyer    = common.HexToAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	stranger = common.HexToAddress("0x90f79bf6eb2c4f870365e785982e1f8e6ecc80e0")

	oneEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

// marketSuite holds what both marketplace variants need: a ledger with a settable clock and funded accounts
type marketSuite struct {
	suite.Suite

	clock *ledger.ManualClock
	l     *ledger.Ledger
}

func (s *marketSuite) setupLedger() {
	s.clock = ledger.NewManualClock(genesis)
	s.l = ledger.New(s.clock)
	for _, a := range []common.Address{deployer, seller, buyer, stranger} {
		s.l.SetBalance(a, oneEther)
	}
}

func (s *marketSuite) exec(from, to common.Address, value *big.Int, fn func(tx domain.Tx) error) (*domain.Receipt, error) {
	return s.l.Execute(ctx.Background(), domain.Msg{From: from, To: to, Value: value}, fn)
}

func (s *marketSuite) mustExec(from, to common.Address, value *big.Int, fn func(tx domain.Tx) error) *domain.Receipt {
	r, err := s.exec(from, to, value, fn)
	s.Require().NoError(err)
	return r
}

func (s *marketSuite) deployMarket(build func(cfg *MarketCfg) interface{}) {
	s.l.Deploy(deployer, func(addr common.Address) interface{} {
		return build(&MarketCfg{
			Address: addr,
			Owner:   deployer,
			Repo:    repository.NewMemoryRepo(),
		})
	})
}

// marketEvents returns the marketplace events of r in emission order
func marketEvents(r *domain.Receipt) []listing.Event {
	res := []listing.Event{}
	for _, l := range r.Logs {
		if e, ok := l.Event.(listing.Event); ok {
			res = append(res, e)
		}
	}
	return res
}

func (s *marketSuite) balance(a common.Address) *big.Int {
	return s.l.Balance(a)
}

func diff(after, before *big.Int) string {
	return new(big.Int).Sub(after, before).String()
}
