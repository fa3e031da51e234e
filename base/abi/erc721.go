package abi

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ERC721TokenABI abi.ABI

var erc721ABI = `[{"type":"event","anonymous":false,"name":"Transfer","inputs":[{"type":"address","name":"from","indexed":true},{"type":"address","name":"to","indexed":true},{"type":"uint256","name":"tokenId","indexed":true}]},{"type":"function","name":"ownerOf","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"tokenId"}],"outputs":[{"type":"address"}]},{"type":"function","name":"isApprovedForAll","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"owner"},{"type":"address","name":"operator"}],"outputs":[{"type":"bool"}]},{"type":"function","name":"supportsInterface","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"bytes4","name":"interfaceID"}],"outputs":[{"type":"bool"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(erc721ABI))
	if err != nil {
		panic("Failed to parse erc721 abi")
	}
	ERC721TokenABI = _abi
}

// Erc721TransferLog has every field indexed, the log data is empty
type Erc721TransferLog struct {
	From    common.Address
	To      common.Address
	TokenId *big.Int
}

func PackErc721Transfer(token common.Address, l Erc721TransferLog) (*types.Log, error) {
	ev := ERC721TokenABI.Events["Transfer"]
	return &types.Log{
		Address: token,
		Topics: []common.Hash{
			ev.ID,
			common.BytesToHash(l.From.Bytes()),
			common.BytesToHash(l.To.Bytes()),
			common.BigToHash(l.TokenId),
		},
	}, nil
}

func ToErc721TransferLog(log *types.Log) (*Erc721TransferLog, error) {
	if len(log.Topics) != 4 || log.Topics[0] != ERC721TokenABI.Events["Transfer"].ID {
		return nil, ErrUnknownEvent
	}
	return &Erc721TransferLog{
		From:    common.BytesToAddress(log.Topics[1].Bytes()),
		To:      common.BytesToAddress(log.Topics[2].Bytes()),
		TokenId: log.Topics[3].Big(),
	}, nil
}
