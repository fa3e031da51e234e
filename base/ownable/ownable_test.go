package ownable

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/listings/domain"
)

func TestGuard(t *testing.T) {
	req := require.New(t)
	owner := common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	other := common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")

	g := New(owner)
	req.Equal(owner, g.Owner())
	req.NoError(g.RequireOwner(owner))

	err := g.RequireOwner(other)
	req.Equal(domain.ErrUnauthorizedAccount, err)
	req.True(errors.Is(err, domain.ErrAuthorization))
}
