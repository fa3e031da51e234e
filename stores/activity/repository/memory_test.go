package repository

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/activity"
)

var (
	mockCtx = ctx.Background()
	market  = common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	seller  = common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	buyer   = common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	t0      = time.Unix(1_700_000_000, 0).UTC()
)

type memoryRepoSuite struct {
	suite.Suite
	repo activity.Repo
}

func TestMemoryRepoSuite(t *testing.T) {
	suite.Run(t, new(memoryRepoSuite))
}

func (s *memoryRepoSuite) SetupTest() {
	s.repo = NewMemoryRepo()
	items := []activity.Activity{
		{TxId: "a", LogIndex: 0, Type: activity.TypeListed, Market: activity.ToAddress(market), Seller: activity.ToAddress(seller), TokenId: "1", Time: t0},
		{TxId: "b", LogIndex: 0, Type: activity.TypeListed, Market: activity.ToAddress(market), Seller: activity.ToAddress(seller), TokenId: "2", Time: t0.Add(time.Second)},
		{TxId: "c", LogIndex: 0, Type: activity.TypeSold, Market: activity.ToAddress(market), Seller: activity.ToAddress(seller), Buyer: activity.ToAddress(buyer), TokenId: "1", Time: t0.Add(2 * time.Second)},
	}
	for _, a := range items {
		s.Require().NoError(s.repo.Upsert(mockCtx, a))
	}
}

func (s *memoryRepoSuite) txIds(res []activity.Activity) []string {
	ids := []string{}
	for _, a := range res {
		ids = append(ids, a.TxId)
	}
	return ids
}

func (s *memoryRepoSuite) TestFindAllNewestFirst() {
	res, err := s.repo.FindAll(mockCtx)
	s.Require().NoError(err)
	s.Equal([]string{"c", "b", "a"}, s.txIds(res))

	res, err = s.repo.FindAll(mockCtx, activity.WithSortDir(domain.SortDirAsc))
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "c"}, s.txIds(res))
}

func (s *memoryRepoSuite) TestFilters() {
	res, err := s.repo.FindAll(mockCtx, activity.WithTokenId("1"))
	s.Require().NoError(err)
	s.Equal([]string{"c", "a"}, s.txIds(res))

	res, err = s.repo.FindAll(mockCtx, activity.WithBuyer(buyer))
	s.Require().NoError(err)
	s.Equal([]string{"c"}, s.txIds(res))

	res, err = s.repo.FindAll(mockCtx, activity.WithType(activity.TypeListed), activity.WithMarket(market))
	s.Require().NoError(err)
	s.Equal([]string{"b", "a"}, s.txIds(res))

	res, err = s.repo.FindAll(mockCtx, activity.WithSeller(buyer))
	s.Require().NoError(err)
	s.Empty(res)
}

func (s *memoryRepoSuite) TestPaginationAndCount() {
	res, err := s.repo.FindAll(mockCtx, activity.WithPagination(1, 1))
	s.Require().NoError(err)
	s.Equal([]string{"b"}, s.txIds(res))

	res, err = s.repo.FindAll(mockCtx, activity.WithPagination(5, 1))
	s.Require().NoError(err)
	s.Empty(res)

	n, err := s.repo.Count(mockCtx, activity.WithPagination(1, 1))
	s.Require().NoError(err)
	s.Equal(3, n)
}

func (s *memoryRepoSuite) TestUpsertIsIdempotent() {
	a := activity.Activity{TxId: "a", LogIndex: 0, Type: activity.TypeListed, TokenId: "9", Time: t0}
	s.Require().NoError(s.repo.Upsert(mockCtx, a))

	n, err := s.repo.Count(mockCtx)
	s.Require().NoError(err)
	s.Equal(3, n)

	res, err := s.repo.FindAll(mockCtx, activity.WithTokenId("9"))
	s.Require().NoError(err)
	s.Equal([]string{"a"}, s.txIds(res))
}
