package http

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/delivery"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/token"
	"github.com/x-xyz/listings/middleware"
	authMiddleware "github.com/x-xyz/listings/stores/auth/delivery/http/middleware"
)

type handler struct {
	token token.UseCase
}

// New registers the dev node routes under /dev
func New(e *echo.Echo, token token.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{token}
	auth := authMiddleware.Auth()

	g := e.Group("/dev")
	g.POST("/faucet/:address", h.faucet, middleware.IsValidAddress("address"))
	g.GET("/balance/:address", h.balance, middleware.IsValidAddress("address"))

	g.POST("/tokens", h.deploy, auth)
	g.POST("/tokens/:contract/mint", h.mint, auth, middleware.IsValidAddress("contract"))
	g.POST("/tokens/:contract/approve", h.approve, auth, middleware.IsValidAddress("contract"))
	g.GET("/tokens/:contract/owner/:item", h.ownerOf, middleware.IsValidAddress("contract"))
	g.GET("/tokens/:contract/balance/:holder/:item", h.balanceOf, middleware.IsValidAddress("contract"), middleware.IsValidAddress("holder"))

	g.GET("/conft", h.conft)
	g.POST("/conft/mint", h.mintCoNFT, auth)
	g.POST("/conft/withdraw", h.withdrawCoNFT, auth)
}

type balanceResp struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Ether   string `json:"ether"`
}

func toBalanceResp(addr common.Address, wei *big.Int) balanceResp {
	return balanceResp{
		Address: addr.Hex(),
		Balance: wei.String(),
		Ether:   decimal.NewFromBigInt(wei, -18).String(),
	}
}

func receipt(c echo.Context, r *domain.Receipt, err error) error {
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, delivery.ToReceiptResp(r))
}

func (h *handler) faucet(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	addr := common.HexToAddress(c.Param("address"))
	return delivery.MakeJsonResp(c, http.StatusOK, toBalanceResp(addr, h.token.Faucet(ctx, addr)))
}

func (h *handler) balance(c echo.Context) error {
	addr := common.HexToAddress(c.Param("address"))
	return delivery.MakeJsonResp(c, http.StatusOK, toBalanceResp(addr, h.token.Balance(addr)))
}

func (h *handler) deploy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Standard token.Standard `json:"standard" validate:"required,oneof=erc721 erc1155"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	res, err := h.token.Deploy(ctx, authMiddleware.Caller(c), p.Standard)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		TokenId string `json:"tokenId" validate:"omitempty,uint256"`
		Amount  string `json:"amount" validate:"omitempty,uint256"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	var item, amount *big.Int
	if p.TokenId != "" {
		item, _ = domain.ParseUint256(p.TokenId)
	}
	if p.Amount != "" {
		amount, _ = domain.ParseUint256(p.Amount)
	}

	r, err := h.token.Mint(ctx, authMiddleware.Caller(c), common.HexToAddress(c.Param("contract")), item, amount)
	return receipt(c, r, err)
}

func (h *handler) approve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Operator string `json:"operator" validate:"required,address"`
		Approved bool   `json:"approved"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	r, err := h.token.SetApprovalForAll(ctx, authMiddleware.Caller(c), common.HexToAddress(c.Param("contract")), common.HexToAddress(p.Operator), p.Approved)
	return receipt(c, r, err)
}

func (h *handler) ownerOf(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	item, err := domain.ParseUint256(c.Param("item"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	owner, err := h.token.OwnerOf(ctx, common.HexToAddress(c.Param("contract")), item)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, owner.Hex())
}

func (h *handler) balanceOf(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	item, err := domain.ParseUint256(c.Param("item"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	balance, err := h.token.BalanceOf(ctx, common.HexToAddress(c.Param("contract")), common.HexToAddress(c.Param("holder")), item)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balance.String())
}

func (h *handler) conft(c echo.Context) error {
	return delivery.MakeJsonResp(c, http.StatusOK, h.token.CoNFT())
}

func (h *handler) mintCoNFT(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Value string `json:"value" validate:"required,uint256"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	value, _ := domain.ParseUint256(p.Value)

	r, err := h.token.MintCoNFT(ctx, authMiddleware.Caller(c), value)
	return receipt(c, r, err)
}

func (h *handler) withdrawCoNFT(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	r, err := h.token.WithdrawCoNFT(ctx, authMiddleware.Caller(c))
	return receipt(c, r, err)
}
