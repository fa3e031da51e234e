package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/x-xyz/listings/base/abi"
	bCtx "github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/service/chain"
)

type Erc721Contract interface {
	Supports721Interface(ctx bCtx.Ctx, chainId int32, addr common.Address) (bool, error)
	OwnerOf(ctx bCtx.Ctx, chainId int32, addr common.Address, tokenId *big.Int) (common.Address, error)
	IsApprovedForAll(ctx bCtx.Ctx, chainId int32, addr, owner, operator common.Address) (bool, error)
}

type Erc721 struct {
	chainService      chain.Client
	abi               ethabi.ABI
	erc721InterfaceId [4]byte
}

func NewErc721(chainService chain.Client) *Erc721 {
	var interfaceId [4]byte
	copy(interfaceId[:], common.Hex2Bytes("80ac58cd"))
	return &Erc721{
		abi:               baseabi.ERC721TokenABI,
		chainService:      chainService,
		erc721InterfaceId: interfaceId,
	}
}

func (e *Erc721) Supports721Interface(ctx bCtx.Ctx, chainId int32, addr common.Address) (bool, error) {
	unpacked, err := e.chainService.Call(ctx, chainId, addr, nil, e.abi, "supportsInterface", e.erc721InterfaceId)
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *Erc721) OwnerOf(ctx bCtx.Ctx, chainId int32, addr common.Address, tokenId *big.Int) (common.Address, error) {
	unpacked, err := e.chainService.Call(ctx, chainId, addr, nil, e.abi, "ownerOf", tokenId)
	if err != nil {
		return common.Address{}, err
	}
	return unpacked[0].(common.Address), nil
}

func (e *Erc721) IsApprovedForAll(ctx bCtx.Ctx, chainId int32, addr, owner, operator common.Address) (bool, error) {
	unpacked, err := e.chainService.Call(ctx, chainId, addr, nil, e.abi, "isApprovedForAll", owner, operator)
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}
