package http

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/delivery"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
	"github.com/x-xyz/listings/middleware"
	authMiddleware "github.com/x-xyz/listings/stores/auth/delivery/http/middleware"
)

type HandlerCfg struct {
	Erc721   listing.Erc721UseCase
	Erc1155  listing.Erc1155UseCase
	Precheck listing.PrecheckUseCase
	// ChainId is used for prechecks when the request does not name one
	ChainId int32
	Auth    *authMiddleware.AuthMiddleware
}

type handler struct {
	erc721   listing.Erc721UseCase
	erc1155  listing.Erc1155UseCase
	precheck listing.PrecheckUseCase
	chainId  int32
}

func New(e *echo.Echo, cfg HandlerCfg) {
	h := &handler{
		erc721:   cfg.Erc721,
		erc1155:  cfg.Erc1155,
		precheck: cfg.Precheck,
		chainId:  cfg.ChainId,
	}
	auth := cfg.Auth.Auth()
	validContract := middleware.IsValidAddress("contract")
	validSeller := middleware.IsValidAddress("seller")

	g721 := e.Group("/erc721")
	g721.GET("/listings", h.findAll721)
	g721.GET("/listings/:contract/:item", h.getListing721, validContract)
	g721.POST("/listings", h.addListing721, auth)
	g721.DELETE("/listings/:contract/:item", h.cancelListing721, auth, validContract)
	g721.POST("/listings/:contract/:item/buy", h.buyToken721, auth, validContract)
	h.admin(g721, h.erc721, auth)

	g1155 := e.Group("/erc1155")
	g1155.GET("/listings", h.findAll1155)
	g1155.GET("/listings/:contract/:item/:seller", h.getListing1155, validContract, validSeller)
	g1155.POST("/listings", h.addListing1155, auth)
	g1155.DELETE("/listings/:contract/:item", h.cancelListing1155, auth, validContract)
	g1155.POST("/listings/:contract/:item/:seller/buy", h.buyToken1155, auth, validContract, validSeller)
	h.admin(g1155, h.erc1155, auth)

	if h.precheck != nil {
		g721.GET("/listings/:contract/:item/precheck", h.precheck721, validContract)
		g1155.GET("/listings/:contract/:item/:seller/precheck", h.precheck1155, validContract, validSeller)
	}
}

func (h *handler) admin(g *echo.Group, u listing.AdminUseCase, auth echo.MiddlewareFunc) {
	g.GET("/admin", func(c echo.Context) error {
		return delivery.MakeJsonResp(c, http.StatusOK, toAdminResp(u))
	})
	g.PUT("/admin/commission", func(c echo.Context) error {
		return h.setComission(c, u)
	}, auth)
	g.POST("/admin/withdraw", func(c echo.Context) error {
		return h.withdraw(c, u)
	}, auth)
}

// parseItem reads the :item path param
func parseItem(c echo.Context) (*big.Int, error) {
	return domain.ParseUint256(c.Param("item"))
}

func bindAndValidate(c echo.Context, p interface{}) error {
	if err := c.Bind(p); err != nil {
		return domain.ErrBadParamInput
	}
	return c.Validate(p)
}

func receipt(c echo.Context, op string, r *domain.Receipt, err error) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	if err != nil {
		ctx.WithFields(log.Fields{
			"op":     op,
			"caller": authMiddleware.Caller(c).Hex(),
			"err":    err,
		}).Warn("transaction failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, delivery.ToReceiptResp(r))
}

func badRequest(c echo.Context, err error) error {
	return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
}

// findAll721
//
//	@Summary		List erc721 listings
//	@Tags			erc721
//	@Produce		json
//	@Param			contract	query	string	false	"token contract"
//	@Param			seller		query	string	false	"seller"
//	@Param			item		query	string	false	"token id"
//	@Param			offset		query	int		false	"offset"
//	@Param			limit		query	int		false	"limit"
//	@Success		200			{object}	object{data=[]http.listingResp}
//	@Router			/erc721/listings [get]
func (h *handler) findAll721(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	opts, err := findAllOptions(c)
	if err != nil {
		return badRequest(c, err)
	}
	ls, err := h.erc721.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toListingResps(ls))
}

func (h *handler) getListing721(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	item, err := parseItem(c)
	if err != nil {
		return badRequest(c, err)
	}
	l, err := h.erc721.GetListing(ctx, common.HexToAddress(c.Param("contract")), item)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	if !l.Exists() {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrListingNotFound)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toListingResp(*l))
}

// addListing721
//
//	@Summary		List an erc721 token
//	@Tags			erc721
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.addListing721.params	true	"params"
//	@Success		200		{object}	object{data=delivery.ReceiptResp}
//	@Router			/erc721/listings [post]
func (h *handler) addListing721(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Contract      string `json:"tokenContract" validate:"required,address"`
		TokenId       string `json:"tokenId" validate:"required,uint256"`
		Price         string `json:"price" validate:"required,uint256"`
		DurationHours uint64 `json:"durationHours"`
	}
	p := &params{}
	if err := bindAndValidate(c, p); err != nil {
		return badRequest(c, err)
	}
	item, _ := domain.ParseUint256(p.TokenId)
	price, _ := domain.ParseUint256(p.Price)

	r, err := h.erc721.AddListing(ctx, authMiddleware.Caller(c), common.HexToAddress(p.Contract), item, price, p.DurationHours)
	return receipt(c, "addListing721", r, err)
}

func (h *handler) cancelListing721(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	item, err := parseItem(c)
	if err != nil {
		return badRequest(c, err)
	}
	r, err := h.erc721.CancelListing(ctx, authMiddleware.Caller(c), common.HexToAddress(c.Param("contract")), item)
	return receipt(c, "cancelListing721", r, err)
}

type buyParams struct {
	Value string `json:"value" validate:"required,uint256"`
}

// buyToken721
//
//	@Summary		Buy an erc721 listing
//	@Description	value is the payment in wei, it has to equal the listing price
//	@Tags			erc721
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.buyParams	true	"params"
//	@Success		200		{object}	object{data=delivery.ReceiptResp}
//	@Router			/erc721/listings/{contract}/{item}/buy [post]
func (h *handler) buyToken721(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	item, err := parseItem(c)
	if err != nil {
		return badRequest(c, err)
	}
	p := &buyParams{}
	if err := bindAndValidate(c, p); err != nil {
		return badRequest(c, err)
	}
	value, _ := domain.ParseUint256(p.Value)

	r, err := h.erc721.BuyToken(ctx, authMiddleware.Caller(c), common.HexToAddress(c.Param("contract")), item, value)
	return receipt(c, "buyToken721", r, err)
}

func (h *handler) findAll1155(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	opts, err := findAllOptions(c)
	if err != nil {
		return badRequest(c, err)
	}
	ls, err := h.erc1155.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toListingResps(ls))
}

func (h *handler) getListing1155(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	item, err := parseItem(c)
	if err != nil {
		return badRequest(c, err)
	}
	l, err := h.erc1155.GetListing(ctx, common.HexToAddress(c.Param("contract")), item, common.HexToAddress(c.Param("seller")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	if !l.Exists() {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrListingNotFound)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toListingResp(*l))
}

// addListing1155
//
//	@Summary		List units of an erc1155 token
//	@Description	price is per unit
//	@Tags			erc1155
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.addListing1155.params	true	"params"
//	@Success		200		{object}	object{data=delivery.ReceiptResp}
//	@Router			/erc1155/listings [post]
func (h *handler) addListing1155(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Contract      string `json:"tokenContract" validate:"required,address"`
		TokenId       string `json:"tokenId" validate:"required,uint256"`
		Amount        string `json:"amount" validate:"required,uint256"`
		Price         string `json:"price" validate:"required,uint256"`
		DurationHours uint64 `json:"durationHours"`
	}
	p := &params{}
	if err := bindAndValidate(c, p); err != nil {
		return badRequest(c, err)
	}
	item, _ := domain.ParseUint256(p.TokenId)
	amount, _ := domain.ParseUint256(p.Amount)
	price, _ := domain.ParseUint256(p.Price)

	r, err := h.erc1155.AddListing(ctx, authMiddleware.Caller(c), common.HexToAddress(p.Contract), item, amount, price, p.DurationHours)
	return receipt(c, "addListing1155", r, err)
}

func (h *handler) cancelListing1155(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	item, err := parseItem(c)
	if err != nil {
		return badRequest(c, err)
	}
	r, err := h.erc1155.CancelListing(ctx, authMiddleware.Caller(c), common.HexToAddress(c.Param("contract")), item)
	return receipt(c, "cancelListing1155", r, err)
}

func (h *handler) buyToken1155(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	item, err := parseItem(c)
	if err != nil {
		return badRequest(c, err)
	}
	p := &buyParams{}
	if err := bindAndValidate(c, p); err != nil {
		return badRequest(c, err)
	}
	value, _ := domain.ParseUint256(p.Value)

	r, err := h.erc1155.BuyToken(ctx, authMiddleware.Caller(c), common.HexToAddress(c.Param("contract")), item, common.HexToAddress(c.Param("seller")), value)
	return receipt(c, "buyToken1155", r, err)
}

func (h *handler) setComission(c echo.Context, u listing.AdminUseCase) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Percent *uint64 `json:"comissionPercent" validate:"required"`
	}
	p := &params{}
	if err := bindAndValidate(c, p); err != nil {
		return badRequest(c, err)
	}
	r, err := u.SetComissionPercent(ctx, authMiddleware.Caller(c), *p.Percent)
	return receipt(c, "setComissionPercent", r, err)
}

func (h *handler) withdraw(c echo.Context, u listing.AdminUseCase) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	r, err := u.Withdraw(ctx, authMiddleware.Caller(c))
	return receipt(c, "withdraw", r, err)
}

func (h *handler) chainIdParam(c echo.Context) (int32, error) {
	v := c.QueryParam("chainId")
	if v == "" {
		return h.chainId, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, domain.ErrInvalidChainId
	}
	return int32(n), nil
}

// precheck721
//
//	@Summary		Check an erc721 listing against a live chain
//	@Description	Tells whether the seller still owns the token and the marketplace is still approved
//	@Tags			erc721
//	@Produce		json
//	@Param			chainId	query		int	false	"chain id"
//	@Success		200		{object}	object{data=listing.Precheck}
//	@Router			/erc721/listings/{contract}/{item}/precheck [get]
func (h *handler) precheck721(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	item, err := parseItem(c)
	if err != nil {
		return badRequest(c, err)
	}
	chainId, err := h.chainIdParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	l, err := h.erc721.GetListing(ctx, common.HexToAddress(c.Param("contract")), item)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	res, err := h.precheck.Check(ctx, chainId, domain.TokenType721, h.erc721.Address(), *l)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadGateway, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) precheck1155(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	item, err := parseItem(c)
	if err != nil {
		return badRequest(c, err)
	}
	chainId, err := h.chainIdParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	l, err := h.erc1155.GetListing(ctx, common.HexToAddress(c.Param("contract")), item, common.HexToAddress(c.Param("seller")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	res, err := h.precheck.Check(ctx, chainId, domain.TokenType1155, h.erc1155.Address(), *l)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadGateway, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
