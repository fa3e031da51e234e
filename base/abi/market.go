package abi

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrUnknownEvent = errors.New("unknown event")

// Marketplace events keep every argument non indexed, integrators decode the data positionally.
var (
	ListingsERC721ABI  abi.ABI
	ListingsERC1155ABI abi.ABI
)

var listingsErc721ABI = `[
{"type":"event","anonymous":false,"name":"ListingCreated","inputs":[{"type":"uint256","name":"id"},{"type":"address","name":"seller"},{"type":"address","name":"tokenContract"},{"type":"uint256","name":"tokenId"},{"type":"uint256","name":"price"},{"type":"uint256","name":"expireTime"}]},
{"type":"event","anonymous":false,"name":"ListingRemoved","inputs":[{"type":"uint256","name":"id"},{"type":"address","name":"seller"},{"type":"address","name":"tokenContract"},{"type":"uint256","name":"tokenId"},{"type":"uint256","name":"price"},{"type":"uint256","name":"expireTime"}]},
{"type":"event","anonymous":false,"name":"TokenSold","inputs":[{"type":"uint256","name":"id"},{"type":"address","name":"seller"},{"type":"address","name":"buyer"},{"type":"address","name":"tokenContract"},{"type":"uint256","name":"tokenId"},{"type":"uint256","name":"price"}]}
]`

var listingsErc1155ABI = `[
{"type":"event","anonymous":false,"name":"ListingCreated","inputs":[{"type":"uint256","name":"id"},{"type":"address","name":"seller"},{"type":"address","name":"tokenContract"},{"type":"uint256","name":"tokenId"},{"type":"uint256","name":"amount"},{"type":"uint256","name":"price"},{"type":"uint256","name":"expireTime"}]},
{"type":"event","anonymous":false,"name":"ListingRemoved","inputs":[{"type":"uint256","name":"id"},{"type":"address","name":"seller"},{"type":"address","name":"tokenContract"},{"type":"uint256","name":"tokenId"},{"type":"uint256","name":"amount"},{"type":"uint256","name":"price"},{"type":"uint256","name":"expireTime"}]},
{"type":"event","anonymous":false,"name":"TokenSold","inputs":[{"type":"uint256","name":"id"},{"type":"address","name":"seller"},{"type":"address","name":"buyer"},{"type":"address","name":"tokenContract"},{"type":"uint256","name":"tokenId"},{"type":"uint256","name":"amount"},{"type":"uint256","name":"price"}]}
]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(listingsErc721ABI))
	if err != nil {
		panic("Failed to parse listings erc721 abi")
	}
	ListingsERC721ABI = _abi

	_abi, err = abi.JSON(strings.NewReader(listingsErc1155ABI))
	if err != nil {
		panic("Failed to parse listings erc1155 abi")
	}
	ListingsERC1155ABI = _abi
}

// PackLog encodes an event whose inputs are all non indexed
func PackLog(contractABI abi.ABI, addr common.Address, name string, args ...interface{}) (*types.Log, error) {
	ev, ok := contractABI.Events[name]
	if !ok {
		return nil, ErrUnknownEvent
	}
	data, err := ev.Inputs.Pack(args...)
	if err != nil {
		return nil, err
	}
	return &types.Log{
		Address: addr,
		Topics:  []common.Hash{ev.ID},
		Data:    data,
	}, nil
}

// UnpackLog is the inverse of PackLog, values come back in declaration order
func UnpackLog(contractABI abi.ABI, log *types.Log) (string, []interface{}, error) {
	if len(log.Topics) == 0 {
		return "", nil, ErrUnknownEvent
	}
	ev, err := contractABI.EventByID(log.Topics[0])
	if err != nil {
		return "", nil, ErrUnknownEvent
	}
	values, err := ev.Inputs.Unpack(log.Data)
	if err != nil {
		return "", nil, err
	}
	return ev.Name, values, nil
}
