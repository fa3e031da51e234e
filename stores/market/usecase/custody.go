package usecase

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/domain"
)

// custody is how a marketplace variant asks a token contract who holds what
type custody interface {
	variant() domain.TokenType
	holds(tx domain.Tx, contract, holder common.Address, item, amount *big.Int) (bool, error)
	approved(tx domain.Tx, contract, holder, operator common.Address) (bool, error)
	transfer(tx domain.Tx, contract, from, to common.Address, item, amount *big.Int) error
	// notHolder is the failure when holds is false, at listing time or at purchase time
	notHolder(buying bool) error
}

type erc721Custody struct{}

func (erc721Custody) variant() domain.TokenType {
	return domain.TokenType721
}

func (erc721Custody) token(tx domain.Tx, contract common.Address) (domain.Erc721Token, error) {
	c, ok := tx.Contract(contract)
	if !ok {
		return nil, domain.ErrNoContract
	}
	t, ok := c.(domain.Erc721Token)
	if !ok {
		return nil, domain.ErrNoContract
	}
	return t, nil
}

func (c erc721Custody) holds(tx domain.Tx, contract, holder common.Address, item, _ *big.Int) (bool, error) {
	t, err := c.token(tx, contract)
	if err != nil {
		return false, err
	}
	owner, err := t.OwnerOf(item)
	if err != nil {
		return false, err
	}
	return owner == holder, nil
}

func (c erc721Custody) approved(tx domain.Tx, contract, holder, operator common.Address) (bool, error) {
	t, err := c.token(tx, contract)
	if err != nil {
		return false, err
	}
	return t.IsApprovedForAll(holder, operator), nil
}

func (c erc721Custody) transfer(tx domain.Tx, contract, from, to common.Address, item, _ *big.Int) error {
	t, err := c.token(tx, contract)
	if err != nil {
		return err
	}
	return transferFailure(tx.Call(contract, nil, func(inner domain.Tx) error {
		return t.SafeTransferFrom(inner, from, to, item)
	}))
}

func (erc721Custody) notHolder(buying bool) error {
	if buying {
		return domain.ErrSellerNotOwner
	}
	return domain.ErrNotTokenOwner
}

type erc1155Custody struct{}

func (erc1155Custody) variant() domain.TokenType {
	return domain.TokenType1155
}

func (erc1155Custody) token(tx domain.Tx, contract common.Address) (domain.Erc1155Token, error) {
	c, ok := tx.Contract(contract)
	if !ok {
		return nil, domain.ErrNoContract
	}
	t, ok := c.(domain.Erc1155Token)
	if !ok {
		return nil, domain.ErrNoContract
	}
	return t, nil
}

func (c erc1155Custody) holds(tx domain.Tx, contract, holder common.Address, item, amount *big.Int) (bool, error) {
	t, err := c.token(tx, contract)
	if err != nil {
		return false, err
	}
	return t.BalanceOf(holder, item).Cmp(amount) >= 0, nil
}

func (c erc1155Custody) approved(tx domain.Tx, contract, holder, operator common.Address) (bool, error) {
	t, err := c.token(tx, contract)
	if err != nil {
		return false, err
	}
	return t.IsApprovedForAll(holder, operator), nil
}

func (c erc1155Custody) transfer(tx domain.Tx, contract, from, to common.Address, item, amount *big.Int) error {
	t, err := c.token(tx, contract)
	if err != nil {
		return err
	}
	return transferFailure(tx.Call(contract, nil, func(inner domain.Tx) error {
		return t.SafeTransferFrom(inner, from, to, item, amount, []byte{})
	}))
}

func (erc1155Custody) notHolder(bool) error {
	return domain.ErrNotEnoughTokens
}

// transferFailure tags a failed token transfer, the token's own reason stays reachable
func transferFailure(err error) error {
	if err == nil || domain.KindOf(err) == domain.ErrTransferFailure {
		return err
	}
	return domain.WrapError(domain.ErrTransferFailure, "token transfer failed", err)
}
