package abi

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ERC1155TokenABI abi.ABI

var erc1155ABI = `[{"type":"event","anonymous":false,"name":"TransferSingle","inputs":[{"type":"address","name":"_operator","indexed":true},{"type":"address","name":"_from","indexed":true},{"type":"address","name":"_to","indexed":true},{"type":"uint256","name":"_id"},{"type":"uint256","name":"_value"}]},{"type":"function","name":"balanceOf","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"_owner"},{"type":"uint256","name":"_id"}],"outputs":[{"type":"uint256"}]},{"type":"function","name":"isApprovedForAll","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"_owner"},{"type":"address","name":"_operator"}],"outputs":[{"type":"bool"}]},{"type":"function","name":"supportsInterface","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"bytes4","name":"interfaceID"}],"outputs":[{"type":"bool"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(erc1155ABI))
	if err != nil {
		panic("Failed to parse erc1155 abi")
	}
	ERC1155TokenABI = _abi
}

type Erc1155TransferSingleLog struct {
	Operator common.Address // indexed
	From     common.Address // indexed
	To       common.Address // indexed
	Id       *big.Int
	Value    *big.Int
}

// PackErc1155TransferSingle builds the log a compliant token emits for a single transfer
func PackErc1155TransferSingle(token common.Address, l Erc1155TransferSingleLog) (*types.Log, error) {
	ev := ERC1155TokenABI.Events["TransferSingle"]
	data, err := ev.Inputs.NonIndexed().Pack(l.Id, l.Value)
	if err != nil {
		return nil, err
	}
	return &types.Log{
		Address: token,
		Topics: []common.Hash{
			ev.ID,
			common.BytesToHash(l.Operator.Bytes()),
			common.BytesToHash(l.From.Bytes()),
			common.BytesToHash(l.To.Bytes()),
		},
		Data: data,
	}, nil
}

func ToErc1155TransferSingleLog(log *types.Log) (*Erc1155TransferSingleLog, error) {
	var transferSingle Erc1155TransferSingleLog
	if err := ERC1155TokenABI.UnpackIntoInterface(&transferSingle, "TransferSingle", log.Data); err != nil {
		return nil, err
	}
	transferSingle.Operator = common.BytesToAddress(log.Topics[1].Bytes())
	transferSingle.From = common.BytesToAddress(log.Topics[2].Bytes())
	transferSingle.To = common.BytesToAddress(log.Topics[3].Bytes())
	return &transferSingle, nil
}
