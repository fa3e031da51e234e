package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"
)

var (
	Big0   = big.NewInt(0)
	Big1   = big.NewInt(1)
	Big100 = big.NewInt(100)
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

type TokenType int

const (
	TokenType721  TokenType = 721
	TokenType1155 TokenType = 1155
)

func (t TokenType) String() string {
	return fmt.Sprintf("erc%d", int(t))
}

type ChainId int32

type Table string

const (
	TableActivities Table = "activities"
)

// EmptyAddress is the zero address, it stands for "nobody"
var EmptyAddress = common.Address{}

// ParseAddress accepts hex addresses with or without checksum
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, ErrInvalidAddress
	}
	return common.HexToAddress(s), nil
}

// ParseUint256 parses a base 10 non negative integer
func ParseUint256(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || n.Sign() < 0 || n.BitLen() > 256 {
		return nil, xerrors.Errorf("%q: %w", s, ErrInvalidNumberFormat)
	}
	return n, nil
}

// BigOrZero never returns nil
func BigOrZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}
