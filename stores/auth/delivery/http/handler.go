package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/delivery"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/middleware"
)

type authHandler struct {
	auth domain.AuthUsecase
}

func New(e *echo.Echo, auth domain.AuthUsecase) {
	handler := &authHandler{
		auth: auth,
	}
	g := e.Group("/auth")
	g.GET("/nonce/:address", handler.nonce, middleware.IsValidAddress("address"))
	g.POST("/sign", handler.sign)
}

type nonceResp struct {
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

// nonce
//
//	@Summary		Get sign-in nonce
//	@Description	Issue a one-time nonce, personal_sign the returned message and post it to /auth/sign
//	@Tags			auth
//	@Produce		json
//	@Param			address	path		string	true	"account address"
//	@Success		200		{object}	object{data=http.nonceResp}
//	@Router			/auth/nonce/{address} [get]
func (h *authHandler) nonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	nonce, err := h.auth.Nonce(ctx, common.HexToAddress(c.Param("address")))
	if err != nil {
		ctx.WithField("err", err).Error("auth.Nonce failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nonceResp{Nonce: nonce, Message: domain.SignInMessage(nonce)})
}

// sign
//
//	@Summary		Get access token
//	@Description	Exchange a signed nonce for an access token of the address
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			params	body		http.sign.params	true	"params"
//	@Success		201		{object}	object{data=string}
//	@Failure		400
//	@Failure		401
//	@Router			/auth/sign [post]
func (h *authHandler) sign(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address   string `json:"address" validate:"required,address"`
		Signature string `json:"signature" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if tkn, err := h.auth.SignIn(ctx, common.HexToAddress(p.Address), p.Signature); err != nil {
		ctx.WithField("err", err).Warn("auth.SignIn failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
	}
}
