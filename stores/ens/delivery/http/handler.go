package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/delivery"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/middleware"
	"github.com/x-xyz/listings/service/ens"
)

type handler struct {
	ens ens.Resolver
}

func New(e *echo.Echo, resolver ens.Resolver) {
	h := &handler{resolver}

	g := e.Group("/ens")
	g.GET("/resolve/:name", h.resolve)
	g.GET("/reverse-resolve/:address", h.reverseResolve, middleware.IsValidAddress("address"))
}

// resolve
//
//	@Summary	Resolve an ENS name
//	@Tags		ens
//	@Produce	json
//	@Param		name	path		string	true	"ENS name"	example(vitalik.eth)
//	@Success	200		{object}	object{data=string}
//	@Failure	400
//	@Failure	404
//	@Router		/ens/resolve/{name} [get]
func (h *handler) resolve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	name := c.Param("name")
	if !ens.IsName(name) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	addr, err := h.ens.Resolve(ctx, name)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, addr.Hex())
}

// reverseResolve
//
//	@Summary	Primary ENS name of an address
//	@Tags		ens
//	@Produce	json
//	@Param		address	path		string	true	"address"
//	@Success	200		{object}	object{data=string}
//	@Failure	400
//	@Router		/ens/reverse-resolve/{address} [get]
func (h *handler) reverseResolve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	name, err := h.ens.ReverseResolve(ctx, common.HexToAddress(c.Param("address")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, name)
}
