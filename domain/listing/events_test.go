package listing

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/listings/base/abi"
	"github.com/x-xyz/listings/domain"
)

var (
	market = common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	seller = common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	buyer  = common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	token  = common.HexToAddress("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512")
)

func sample() Listing {
	return Listing{
		Id:         1,
		Seller:     seller,
		Contract:   token,
		Item:       big.NewInt(7),
		Amount:     big.NewInt(10),
		Price:      big.NewInt(3),
		ExpireTime: 1_700_003_600,
	}
}

func TestEthLogPositional(t *testing.T) {
	req := require.New(t)
	cases := []struct {
		name  string
		event Event
		want  []interface{}
	}{
		{
			name:  "erc721 created",
			event: ListingCreated{Variant: domain.TokenType721, Listing: sample()},
			want:  []interface{}{big.NewInt(1), seller, token, big.NewInt(7), big.NewInt(3), big.NewInt(1_700_003_600)},
		},
		{
			name:  "erc1155 removed",
			event: ListingRemoved{Variant: domain.TokenType1155, Listing: sample()},
			want:  []interface{}{big.NewInt(1), seller, token, big.NewInt(7), big.NewInt(10), big.NewInt(3), big.NewInt(1_700_003_600)},
		},
		{
			name:  "erc721 sold",
			event: TokenSold{Variant: domain.TokenType721, Listing: sample(), Buyer: buyer},
			want:  []interface{}{big.NewInt(1), seller, buyer, token, big.NewInt(7), big.NewInt(3)},
		},
		{
			name:  "erc1155 sold",
			event: TokenSold{Variant: domain.TokenType1155, Listing: sample(), Buyer: buyer},
			want:  []interface{}{big.NewInt(1), seller, buyer, token, big.NewInt(7), big.NewInt(10), big.NewInt(3)},
		},
	}

	for _, c := range cases {
		log, err := EthLog(market, c.event)
		req.NoError(err, c.name)
		req.Equal(market, log.Address, c.name)

		name, values, err := abi.UnpackLog(ABI(c.event.TokenType()), log)
		req.NoError(err, c.name)
		req.Equal(c.event.EventName(), name, c.name)
		req.Len(values, len(c.want), c.name)
		for i, want := range c.want {
			switch w := want.(type) {
			case *big.Int:
				req.Equal(w.String(), values[i].(*big.Int).String(), c.name)
			default:
				req.Equal(w, values[i], c.name)
			}
		}
	}
}

func TestListingZeroValue(t *testing.T) {
	req := require.New(t)
	var l Listing
	req.False(l.Exists())
	req.Equal("0", l.Total().String())
	req.True(sample().Exists())
	req.Equal("30", sample().Total().String())
	req.False(sample().Expired(1_700_003_599))
	req.True(sample().Expired(1_700_003_600))
}

func TestKeys(t *testing.T) {
	req := require.New(t)
	req.Equal(UniqueKey(token, big.NewInt(1)), NewKey(token, big.NewInt(1), domain.EmptyAddress))
	req.NotEqual(NewKey(token, big.NewInt(1), seller), NewKey(token, big.NewInt(1), buyer))
}
