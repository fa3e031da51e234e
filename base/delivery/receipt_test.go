package delivery

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/listings/base/abi"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
)

type plainEvent struct{}

func (plainEvent) EventName() string { return "Plain" }

func TestToReceiptResp(t *testing.T) {
	market := common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	sold := listing.TokenSold{
		Variant: domain.TokenType721,
		Listing: listing.Listing{
			Id:       3,
			Seller:   common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8"),
			Contract: common.HexToAddress("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512"),
			Item:     big.NewInt(1),
			Price:    big.NewInt(100),
		},
		Buyer: common.HexToAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"),
	}
	res := ToReceiptResp(&domain.Receipt{
		TxId:  "tx",
		From:  sold.Buyer,
		To:    market,
		Value: big.NewInt(100),
		Logs: []domain.Log{
			{Address: market, Event: sold},
			{Address: market, Event: plainEvent{}},
		},
	})

	require.Equal(t, "100", res.Value)
	require.Len(t, res.Events, 2)

	got := res.Events[0]
	require.Equal(t, listing.EventTokenSold, got.Name)
	require.Equal(t, []common.Hash{abi.ListingsERC721ABI.Events["TokenSold"].ID}, got.Topics)
	require.NotEmpty(t, got.Data)

	require.Equal(t, "Plain", res.Events[1].Name)
	require.Empty(t, res.Events[1].Topics)
	require.Empty(t, res.Events[1].Data)
}
