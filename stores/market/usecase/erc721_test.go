package usecase

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/metrics"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
	"github.com/x-xyz/listings/service/token"
	"github.com/x-xyz/listings/stores/listing/repository"
)

var item0 = big.NewInt(0)

type erc721Suite struct {
	marketSuite

	nft    *token.Erc721
	market listing.Erc721Market
}

func TestErc721Suite(t *testing.T) {
	suite.Run(t, new(erc721Suite))
}

func (s *erc721Suite) SetupTest() {
	s.setupLedger()
	s.l.Deploy(deployer, func(addr common.Address) interface{} {
		s.nft = token.NewErc721(addr)
		return s.nft
	})
	s.deployMarket(func(cfg *MarketCfg) interface{} {
		s.market = NewErc721Market(cfg)
		return s.market
	})

	s.mustExec(seller, s.nft.Address(), nil, func(tx domain.Tx) error {
		if _, err := s.nft.Mint(tx, seller); err != nil {
			return err
		}
		s.nft.SetApprovalForAll(tx, s.market.Address(), true)
		return nil
	})
}

func (s *erc721Suite) add(from common.Address, item, price *big.Int, hours uint64) (*domain.Receipt, error) {
	return s.exec(from, s.market.Address(), nil, func(tx domain.Tx) error {
		return s.market.AddListing(tx, s.nft.Address(), item, price, hours)
	})
}

func (s *erc721Suite) cancel(from common.Address, item *big.Int) (*domain.Receipt, error) {
	return s.exec(from, s.market.Address(), nil, func(tx domain.Tx) error {
		return s.market.CancelListing(tx, s.nft.Address(), item)
	})
}

func (s *erc721Suite) buy(from common.Address, item, value *big.Int) (*domain.Receipt, error) {
	return s.exec(from, s.market.Address(), value, func(tx domain.Tx) error {
		return s.market.BuyToken(tx, s.nft.Address(), item)
	})
}

func (s *erc721Suite) setComission(from common.Address, value uint64) error {
	_, err := s.exec(from, s.market.Address(), nil, func(tx domain.Tx) error {
		return s.market.SetComissionPercent(tx, value)
	})
	return err
}

func (s *erc721Suite) TestDeployment() {
	s.Equal(deployer, s.market.Owner())
	s.Equal(uint64(0), s.market.ComissionPercent())
}

func (s *erc721Suite) TestSetComissionPercent() {
	s.Equal(domain.ErrUnauthorizedAccount, s.setComission(stranger, 10))
	s.ErrorIs(s.setComission(stranger, 10), domain.ErrAuthorization)

	err := s.setComission(deployer, 100)
	s.Equal(domain.ErrCommissionTooHigh, err)
	s.ErrorIs(err, domain.ErrInputValidation)
	s.Equal(uint64(0), s.market.ComissionPercent())

	s.Require().NoError(s.setComission(deployer, 99))
	s.Equal(uint64(99), s.market.ComissionPercent())

	_, err = s.exec(deployer, s.market.Address(), nil, func(tx domain.Tx) error {
		if err := s.market.SetComissionPercent(tx, 5); err != nil {
			return err
		}
		return errors.New("abort")
	})
	s.Error(err)
	s.Equal(uint64(99), s.market.ComissionPercent())
}

func (s *erc721Suite) TestWithdraw() {
	s.l.SetBalance(s.market.Address(), big.NewInt(1000))

	_, err := s.exec(stranger, s.market.Address(), nil, s.market.Withdraw)
	s.Equal(domain.ErrUnauthorizedAccount, err)

	before := s.balance(deployer)
	s.mustExec(deployer, s.market.Address(), nil, s.market.Withdraw)
	s.Equal("1000", diff(s.balance(deployer), before))
	s.Equal("0", s.balance(s.market.Address()).String())
}

func (s *erc721Suite) TestWithdrawRejectedByOwner() {
	s.l.SetBalance(s.market.Address(), big.NewInt(1000))
	s.l.Register(deployer, rejecter{})

	_, err := s.exec(deployer, s.market.Address(), nil, s.market.Withdraw)
	s.ErrorIs(err, domain.ErrTransferFailure)
	s.Equal("1000", s.balance(s.market.Address()).String())
}

func (s *erc721Suite) TestAddListingValidations() {
	_, err := s.add(seller, item0, big.NewInt(0), 1)
	s.Equal(domain.ErrPriceNotPositive, err)

	_, err = s.add(seller, item0, big.NewInt(1), 0)
	s.Equal(domain.ErrDurationNotPositive, err)
	s.ErrorIs(err, domain.ErrInputValidation)

	_, err = s.add(stranger, item0, big.NewInt(1), 1)
	s.Equal(domain.ErrNotTokenOwner, err)
	s.ErrorIs(err, domain.ErrAuthorization)

	// stranger owns token 1 but never approved the marketplace
	s.mustExec(stranger, s.nft.Address(), nil, func(tx domain.Tx) error {
		_, err := s.nft.Mint(tx, stranger)
		return err
	})
	_, err = s.add(stranger, big.NewInt(1), big.NewInt(1), 1)
	s.Equal(domain.ErrNotApproved, err)

	_, err = s.add(seller, big.NewInt(42), big.NewInt(1), 1)
	s.Equal(domain.ErrNonexistentToken, err)

	_, err = s.add(seller, item0, big.NewInt(1), 1)
	s.NoError(err)
}

func (s *erc721Suite) TestAddListingSavesAndEmits() {
	r, err := s.add(seller, item0, big.NewInt(100), 2)
	s.Require().NoError(err)

	got := s.market.GetListing(s.nft.Address(), item0)
	s.True(got.Exists())
	s.Equal(uint64(1), got.Id)
	s.Equal(seller, got.Seller)
	s.Equal("100", got.Price.String())
	s.Equal(genesis+2*3600, got.ExpireTime)

	events := marketEvents(r)
	s.Require().Len(events, 1)
	created, ok := events[0].(listing.ListingCreated)
	s.Require().True(ok)
	s.Equal(domain.TokenType721, created.Variant)
	s.Equal(got.Id, created.Listing.Id)
	s.Equal(got.ExpireTime, created.Listing.ExpireTime)
	s.Equal(s.market.Address(), r.Logs[0].Address)

	log, err := listing.EthLog(r.Logs[0].Address, created)
	s.Require().NoError(err)
	s.Equal(s.market.Address(), log.Address)
}

func (s *erc721Suite) TestRelistOverwritesSlot() {
	_, err := s.add(seller, item0, big.NewInt(100), 1)
	s.Require().NoError(err)
	_, err = s.add(seller, item0, big.NewInt(70), 1)
	s.Require().NoError(err)

	got := s.market.GetListing(s.nft.Address(), item0)
	s.Equal(uint64(2), got.Id)
	s.Equal("70", got.Price.String())
}

func (s *erc721Suite) TestCancelListing() {
	_, err := s.cancel(seller, item0)
	s.Equal(domain.ErrListingNotFound, err)
	s.ErrorIs(err, domain.ErrState)

	_, err = s.add(seller, item0, big.NewInt(100), 1)
	s.Require().NoError(err)
	listed := s.market.GetListing(s.nft.Address(), item0)

	_, err = s.cancel(stranger, item0)
	s.Equal(domain.ErrNotSeller, err)

	r, err := s.cancel(seller, item0)
	s.Require().NoError(err)
	s.Equal(listing.Listing{}, s.market.GetListing(s.nft.Address(), item0))

	events := marketEvents(r)
	s.Require().Len(events, 1)
	removed, ok := events[0].(listing.ListingRemoved)
	s.Require().True(ok)
	s.Equal(listed.Id, removed.Listing.Id)
	s.Equal(listed.ExpireTime, removed.Listing.ExpireTime)
	s.Equal("100", removed.Listing.Price.String())

	_, err = s.cancel(seller, item0)
	s.ErrorIs(err, domain.ErrState)
	s.Equal(listing.Listing{}, s.market.GetListing(s.nft.Address(), item0))
}

func (s *erc721Suite) TestBuyTokenValidations() {
	_, err := s.buy(buyer, item0, big.NewInt(100))
	s.Equal(domain.ErrListingNotFound, err)

	_, err = s.add(seller, item0, big.NewInt(100), 1)
	s.Require().NoError(err)

	_, err = s.buy(seller, item0, big.NewInt(100))
	s.Equal(domain.ErrSelfPurchase, err)
	s.ErrorIs(err, domain.ErrAuthorization)

	_, err = s.buy(buyer, item0, big.NewInt(99))
	s.Equal(domain.ErrFundsMismatch, err)
	_, err = s.buy(buyer, item0, big.NewInt(101))
	s.Equal(domain.ErrFundsMismatch, err)
	s.ErrorIs(err, domain.ErrInputValidation)
	s.Equal(oneEther.String(), s.balance(buyer).String())

	s.mustExec(seller, s.nft.Address(), nil, func(tx domain.Tx) error {
		s.nft.SetApprovalForAll(tx, s.market.Address(), false)
		return nil
	})
	_, err = s.buy(buyer, item0, big.NewInt(100))
	s.Equal(domain.ErrNotApproved, err)

	s.mustExec(seller, s.nft.Address(), nil, func(tx domain.Tx) error {
		return s.nft.SafeTransferFrom(tx, seller, stranger, item0)
	})
	_, err = s.buy(buyer, item0, big.NewInt(100))
	s.Equal(domain.ErrSellerNotOwner, err)
	s.ErrorIs(err, domain.ErrState)
}

func (s *erc721Suite) TestBuyTokenExpiryBoundary() {
	_, err := s.add(seller, item0, big.NewInt(100), 1)
	s.Require().NoError(err)
	expire := s.market.GetListing(s.nft.Address(), item0).ExpireTime

	s.clock.Set(expire)
	_, err = s.buy(buyer, item0, big.NewInt(100))
	s.Equal(domain.ErrListingExpired, err)

	s.clock.Set(expire - 1)
	_, err = s.buy(buyer, item0, big.NewInt(100))
	s.NoError(err)
}

func (s *erc721Suite) TestBuyTokenWithCommission() {
	s.Require().NoError(s.setComission(deployer, 10))
	_, err := s.add(seller, item0, big.NewInt(100), 1)
	s.Require().NoError(err)
	listed := s.market.GetListing(s.nft.Address(), item0)

	sellerBefore, buyerBefore := s.balance(seller), s.balance(buyer)
	r, err := s.buy(buyer, item0, big.NewInt(100))
	s.Require().NoError(err)

	s.Equal("90", diff(s.balance(seller), sellerBefore))
	s.Equal("-100", diff(s.balance(buyer), buyerBefore))
	s.Equal("10", s.balance(s.market.Address()).String())

	owner, err := s.nft.OwnerOf(item0)
	s.Require().NoError(err)
	s.Equal(buyer, owner)
	s.Equal(listing.Listing{}, s.market.GetListing(s.nft.Address(), item0))

	events := marketEvents(r)
	s.Require().Len(events, 1)
	sold, ok := events[0].(listing.TokenSold)
	s.Require().True(ok)
	s.Equal(listed.Id, sold.Listing.Id)
	s.Equal(seller, sold.Listing.Seller)
	s.Equal(buyer, sold.Buyer)
	s.Equal(s.nft.Address(), sold.Listing.Contract)
	s.Equal("0", sold.Listing.Item.String())
	s.Equal("100", sold.Listing.Price.String())

	before := s.balance(deployer)
	s.mustExec(deployer, s.market.Address(), nil, s.market.Withdraw)
	s.Equal("10", diff(s.balance(deployer), before))
}

func (s *erc721Suite) TestSellerRejectingPaymentRevertsSale() {
	_, err := s.add(seller, item0, big.NewInt(100), 1)
	s.Require().NoError(err)
	s.l.Register(seller, rejecter{})

	_, err = s.buy(buyer, item0, big.NewInt(100))
	s.ErrorIs(err, domain.ErrTransferFailure)

	owner, _ := s.nft.OwnerOf(item0)
	s.Equal(seller, owner)
	s.True(s.market.GetListing(s.nft.Address(), item0).Exists())
	s.Equal(oneEther.String(), s.balance(buyer).String())
	s.Equal("0", s.balance(s.market.Address()).String())
}

func (s *erc721Suite) TestReentrantBuyFindsNoListing() {
	_, err := s.add(seller, item0, big.NewInt(100), 1)
	s.Require().NoError(err)

	attacker := &reentrant721{market: s.market, contract: s.nft.Address(), item: item0, value: big.NewInt(100)}
	s.l.Register(buyer, attacker)
	sellerBefore := s.balance(seller)

	_, err = s.buy(buyer, item0, big.NewInt(100))
	s.Require().NoError(err)
	s.Equal(1, attacker.calls)
	s.Equal(domain.ErrListingNotFound, attacker.err)

	s.Equal("100", diff(s.balance(seller), sellerBefore))
	s.Equal(new(big.Int).Sub(oneEther, big.NewInt(100)).String(), s.balance(buyer).String())
}

func (s *erc721Suite) TestReentrantFailureRevertsWholeSale() {
	_, err := s.add(seller, item0, big.NewInt(100), 1)
	s.Require().NoError(err)

	attacker := &reentrant721{market: s.market, contract: s.nft.Address(), item: item0, value: big.NewInt(100), propagate: true}
	s.l.Register(buyer, attacker)

	_, err = s.buy(buyer, item0, big.NewInt(100))
	s.ErrorIs(err, domain.ErrTransferFailure)
	s.ErrorIs(err, domain.ErrListingNotFound)

	owner, _ := s.nft.OwnerOf(item0)
	s.Equal(seller, owner)
	s.Equal(uint64(1), s.market.GetListing(s.nft.Address(), item0).Id)
	s.Equal(oneEther.String(), s.balance(buyer).String())
	s.Equal(oneEther.String(), s.balance(seller).String())
}

func (s *erc721Suite) TestRevertedAddLeavesNoTrace() {
	_, err := s.exec(seller, s.market.Address(), nil, func(tx domain.Tx) error {
		if err := s.market.AddListing(tx, s.nft.Address(), item0, big.NewInt(100), 1); err != nil {
			return err
		}
		return errors.New("abort")
	})
	s.Error(err)
	s.False(s.market.GetListing(s.nft.Address(), item0).Exists())

	_, err = s.add(seller, item0, big.NewInt(100), 1)
	s.Require().NoError(err)
	s.Equal(uint64(1), s.market.GetListing(s.nft.Address(), item0).Id)
}

func (s *erc721Suite) TestUseCaseSubmitsTransactions() {
	uc := NewErc721UseCase(s.l, s.market)
	c := ctx.Background()

	_, err := uc.SetComissionPercent(c, deployer, 20)
	s.Require().NoError(err)
	_, err = uc.AddListing(c, seller, s.nft.Address(), item0, big.NewInt(50), 1)
	s.Require().NoError(err)

	all, err := uc.FindAll(c, listing.WithSeller(seller))
	s.Require().NoError(err)
	s.Len(all, 1)

	r, err := uc.BuyToken(c, buyer, s.nft.Address(), item0, big.NewInt(50))
	s.Require().NoError(err)
	s.NotEmpty(r.TxId)
	s.Equal("10", uc.VaultBalance().String())

	got, err := uc.GetListing(c, s.nft.Address(), item0)
	s.Require().NoError(err)
	s.False(got.Exists())

	_, err = uc.Withdraw(c, deployer)
	s.Require().NoError(err)
	s.Equal("0", uc.VaultBalance().String())
}

type rejecter struct{}

func (rejecter) Receive(tx domain.Tx) error {
	return errors.New("payments not accepted")
}

// reentrant721 buys the same listing again from inside the token's transfer hook
type reentrant721 struct {
	market    listing.Erc721Market
	contract  common.Address
	item      *big.Int
	value     *big.Int
	propagate bool

	calls int
	err   error
}

func (r *reentrant721) OnErc721Received(tx domain.Tx, operator, from common.Address, item *big.Int, data []byte) error {
	r.calls++
	r.err = tx.Call(r.market.Address(), r.value, func(inner domain.Tx) error {
		return r.market.BuyToken(inner, r.contract, r.item)
	})
	if r.propagate {
		return r.err
	}
	return nil
}

// stallingReceiver holds a purchase inside the token transfer hook until released, then rejects it
type stallingReceiver struct {
	entered chan struct{}
	release chan struct{}
}

func (r *stallingReceiver) OnErc721Received(tx domain.Tx, operator, from common.Address, item *big.Int, data []byte) error {
	close(r.entered)
	<-r.release
	return errors.New("reject")
}

func (s *erc721Suite) TestReadsWaitForRunningPurchase() {
	uc := NewErc721UseCase(s.l, s.market)
	c := ctx.Background()
	_, err := uc.AddListing(c, seller, s.nft.Address(), item0, big.NewInt(100), 1)
	s.Require().NoError(err)

	recv := &stallingReceiver{entered: make(chan struct{}), release: make(chan struct{})}
	s.l.Register(buyer, recv)

	bought := make(chan error, 1)
	go func() {
		_, err := uc.BuyToken(c, buyer, s.nft.Address(), item0, big.NewInt(100))
		bought <- err
	}()
	<-recv.entered

	type view struct {
		id    uint64
		vault string
	}
	seen := make(chan view, 1)
	go func() {
		l, _ := uc.GetListing(c, s.nft.Address(), item0)
		seen <- view{id: l.Id, vault: uc.VaultBalance().String()}
	}()

	select {
	case v := <-seen:
		s.Failf("read during purchase", "listing %d vault %s", v.id, v.vault)
	case <-time.After(50 * time.Millisecond):
	}

	close(recv.release)
	s.ErrorIs(<-bought, domain.ErrTransferFailure)
	v := <-seen
	s.Equal(uint64(1), v.id)
	s.Equal("0", v.vault)
}

type recordingMetrics struct {
	sums map[string]float64
}

func (m *recordingMetrics) BumpAvg(key string, val float64, tags ...string) {}

func (m *recordingMetrics) BumpSum(key string, val float64, tags ...string) {
	m.sums[key] += val
}

func (m *recordingMetrics) BumpHistogram(key string, val float64, tags ...string) {}

func (m *recordingMetrics) BumpTime(key string, tags ...string) metrics.Ender {
	return metrics.NewNop().BumpTime(key, tags...)
}

func (s *erc721Suite) TestCommissionMetricAboveUint64() {
	ms := &recordingMetrics{sums: map[string]float64{}}
	s.l.Deploy(deployer, func(addr common.Address) interface{} {
		s.market = NewErc721Market(&MarketCfg{
			Address: addr,
			Owner:   deployer,
			Repo:    repository.NewMemoryRepo(),
			Metrics: ms,
		})
		return s.market
	})
	s.mustExec(seller, s.nft.Address(), nil, func(tx domain.Tx) error {
		s.nft.SetApprovalForAll(tx, s.market.Address(), true)
		return nil
	})

	// 2^70 wei, commission 10% is above 2^64
	price := new(big.Int).Lsh(big.NewInt(1), 70)
	s.l.SetBalance(buyer, price)
	s.Require().NoError(s.setComission(deployer, 10))
	_, err := s.add(seller, item0, price, 1)
	s.Require().NoError(err)
	_, err = s.buy(buyer, item0, price)
	s.Require().NoError(err)

	want, _ := new(big.Float).SetInt(s.balance(s.market.Address())).Float64()
	s.Greater(want, float64(1<<63))
	s.InDelta(want, ms.sums["commission.sum"], want*1e-9)
}
