package usecase

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/token"
	ledgerToken "github.com/x-xyz/listings/service/token"
)

// Devnet is the part of service/ledger the token tooling needs
type Devnet interface {
	domain.Executor
	domain.Viewer
	Deploy(deployer common.Address, build func(addr common.Address) interface{}) common.Address
	Contract(addr common.Address) (interface{}, bool)
	Balance(addr common.Address) *big.Int
	SetBalance(addr common.Address, amount *big.Int)
}

type TokenUseCaseCfg struct {
	Devnet Devnet
	// CoNFT is the minting contract deployed at boot
	CoNFT        *ledgerToken.CoNFT
	FaucetAmount *big.Int
}

type impl struct {
	devnet       Devnet
	conft        *ledgerToken.CoNFT
	faucetAmount *big.Int

	// faucet top ups are read-modify-write on the balance
	faucetMu sync.Mutex
}

func NewTokenUseCase(cfg *TokenUseCaseCfg) token.UseCase {
	return &impl{
		devnet:       cfg.Devnet,
		conft:        cfg.CoNFT,
		faucetAmount: domain.BigOrZero(cfg.FaucetAmount),
	}
}

type approver interface {
	SetApprovalForAll(tx domain.Tx, operator common.Address, approved bool)
}

func (im *impl) Deploy(c ctx.Ctx, caller common.Address, standard token.Standard) (*token.Contract, error) {
	var build func(addr common.Address) interface{}
	switch standard {
	case token.StandardErc721:
		build = func(addr common.Address) interface{} { return ledgerToken.NewErc721(addr) }
	case token.StandardErc1155:
		build = func(addr common.Address) interface{} { return ledgerToken.NewErc1155(addr) }
	default:
		return nil, domain.ErrBadParamInput
	}
	addr := im.devnet.Deploy(caller, build)
	c.WithFields(log.Fields{
		"deployer": caller.Hex(),
		"standard": standard,
		"address":  addr.Hex(),
	}).Info("token deployed")
	return &token.Contract{Address: addr, Standard: standard}, nil
}

func (im *impl) Mint(c ctx.Ctx, caller, contract common.Address, item, amount *big.Int) (*domain.Receipt, error) {
	v, ok := im.devnet.Contract(contract)
	if !ok {
		return nil, domain.ErrNoContract
	}
	msg := domain.Msg{From: caller, To: contract}
	switch t := v.(type) {
	case *ledgerToken.CoNFT:
		return nil, domain.ErrBadParamInput
	case *ledgerToken.Erc721:
		return im.devnet.Execute(c, msg, func(tx domain.Tx) error {
			_, err := t.Mint(tx, caller)
			return err
		})
	case *ledgerToken.Erc1155:
		if item == nil || amount == nil || amount.Sign() <= 0 {
			return nil, domain.ErrAmountNotPositive
		}
		return im.devnet.Execute(c, msg, func(tx domain.Tx) error {
			return t.Mint(tx, caller, item, amount)
		})
	}
	return nil, domain.ErrBadParamInput
}

func (im *impl) SetApprovalForAll(c ctx.Ctx, caller, contract, operator common.Address, approved bool) (*domain.Receipt, error) {
	v, ok := im.devnet.Contract(contract)
	if !ok {
		return nil, domain.ErrNoContract
	}
	a, ok := v.(approver)
	if !ok {
		return nil, domain.ErrBadParamInput
	}
	return im.devnet.Execute(c, domain.Msg{From: caller, To: contract}, func(tx domain.Tx) error {
		a.SetApprovalForAll(tx, operator, approved)
		return nil
	})
}

func (im *impl) OwnerOf(c ctx.Ctx, contract common.Address, item *big.Int) (common.Address, error) {
	v, ok := im.devnet.Contract(contract)
	if !ok {
		return common.Address{}, domain.ErrNoContract
	}
	t, ok := v.(domain.Erc721Token)
	if !ok {
		return common.Address{}, domain.ErrBadParamInput
	}
	var (
		owner common.Address
		err   error
	)
	im.devnet.View(func() { owner, err = t.OwnerOf(item) })
	return owner, err
}

func (im *impl) BalanceOf(c ctx.Ctx, contract, holder common.Address, item *big.Int) (*big.Int, error) {
	v, ok := im.devnet.Contract(contract)
	if !ok {
		return nil, domain.ErrNoContract
	}
	t, ok := v.(domain.Erc1155Token)
	if !ok {
		return nil, domain.ErrBadParamInput
	}
	var balance *big.Int
	im.devnet.View(func() { balance = t.BalanceOf(holder, item) })
	return balance, nil
}

func (im *impl) MintCoNFT(c ctx.Ctx, caller common.Address, value *big.Int) (*domain.Receipt, error) {
	return im.devnet.Execute(c, domain.Msg{From: caller, To: im.conft.Address(), Value: value}, func(tx domain.Tx) error {
		_, err := im.conft.Mint(tx)
		return err
	})
}

func (im *impl) CoNFT() (info token.CoNFTInfo) {
	im.devnet.View(func() {
		info = token.CoNFTInfo{
			Address:     im.conft.Address(),
			Owner:       im.conft.Owner(),
			Price:       im.conft.Price(),
			TotalSupply: im.conft.TotalSupply(),
		}
	})
	return info
}

func (im *impl) WithdrawCoNFT(c ctx.Ctx, caller common.Address) (*domain.Receipt, error) {
	return im.devnet.Execute(c, domain.Msg{From: caller, To: im.conft.Address()}, im.conft.Withdraw)
}

func (im *impl) Balance(addr common.Address) (balance *big.Int) {
	im.devnet.View(func() { balance = im.devnet.Balance(addr) })
	return balance
}

func (im *impl) Faucet(c ctx.Ctx, addr common.Address) *big.Int {
	im.faucetMu.Lock()
	defer im.faucetMu.Unlock()

	balance := im.Balance(addr)
	if balance.Cmp(im.faucetAmount) < 0 {
		im.devnet.SetBalance(addr, im.faucetAmount)
		c.WithFields(log.Fields{
			"address": addr.Hex(),
			"from":    balance.String(),
			"to":      im.faucetAmount.String(),
		}).Info("faucet top up")
		return new(big.Int).Set(im.faucetAmount)
	}
	return balance
}
