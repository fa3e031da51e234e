package chain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	baseabi "github.com/x-xyz/listings/base/abi"
	bCtx "github.com/x-xyz/listings/base/ctx"
)

func TestUnsupportedChain(t *testing.T) {
	ctx := bCtx.Background()
	c, err := NewClient(ctx, &ClientCfg{})
	require.NoError(t, err)
	defer c.Close()
	require.Empty(t, c.ChainIds())

	_, err = c.Call(ctx, 1, common.Address{}, nil, baseabi.ERC721TokenABI, "ownerOf", common.Big1)
	require.Equal(t, ErrUnsupportedChain, err)

	_, err = c.Backend(1)
	require.Equal(t, ErrUnsupportedChain, err)
}
