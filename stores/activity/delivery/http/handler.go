package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/delivery"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/activity"
	"github.com/x-xyz/listings/service/ens"
)

const defaultLimit = 50

type handler struct {
	activity activity.UseCase
	resolver ens.Resolver
}

// New registers /activities, mws run in front of it. A nil resolver rejects ENS names
func New(e *echo.Echo, activity activity.UseCase, resolver ens.Resolver, mws ...echo.MiddlewareFunc) {
	h := &handler{activity: activity, resolver: resolver}
	e.GET("/activities", h.getActivities, mws...)
}

type activitiesResp struct {
	Items []activity.Activity `json:"items"`
	Count int                 `json:"count"`
}

// getActivities
//
//	@Summary		List marketplace activities
//	@Description	Listings, cancellations and sales recorded from committed receipts, newest first by default
//	@Tags			activities
//	@Produce		json
//	@Param			market		query		string	false	"marketplace address"
//	@Param			contract	query		string	false	"token contract"
//	@Param			tokenId		query		string	false	"token id"
//	@Param			seller		query		string	false	"seller address or ENS name"
//	@Param			buyer		query		string	false	"buyer address or ENS name"
//	@Param			type		query		string	false	"activity type"	enums(listed, cancelled, sold)
//	@Param			tokenType	query		int		false	"token standard"	enums(721, 1155)
//	@Param			sortDir		query		string	false	"time order"		enums(asc, desc)
//	@Param			offset		query		int		false	"paging offset"	example(0)
//	@Param			limit		query		int		false	"paging size"	example(50)
//	@Success		200			{object}	object{data=http.activitiesResp}
//	@Failure		400
//	@Router			/activities [get]
func (h *handler) getActivities(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Market    string `query:"market"`
		Contract  string `query:"contract"`
		TokenId   string `query:"tokenId"`
		Seller    string `query:"seller"`
		Buyer     string `query:"buyer"`
		Type      string `query:"type"`
		TokenType int    `query:"tokenType"`
		SortDir   string `query:"sortDir"`
		Offset    int    `query:"offset"`
		Limit     int    `query:"limit"`
	}
	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	opts, err := h.toOptions(ctx, p.Market, p.Contract, p.Seller, p.Buyer)
	if err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if p.TokenId != "" {
		opts = append(opts, activity.WithTokenId(p.TokenId))
	}
	if p.Type != "" {
		opts = append(opts, activity.WithType(activity.Type(p.Type)))
	}
	switch domain.TokenType(p.TokenType) {
	case 0:
	case domain.TokenType721, domain.TokenType1155:
		opts = append(opts, activity.WithTokenType(domain.TokenType(p.TokenType)))
	default:
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	switch p.SortDir {
	case "", "desc":
	case "asc":
		opts = append(opts, activity.WithSortDir(domain.SortDirAsc))
	default:
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	count, err := h.activity.Count(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("activity.Count failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	opts = append(opts, activity.WithPagination(p.Offset, limit))
	items, err := h.activity.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("activity.FindAll failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, activitiesResp{Items: items, Count: count})
}

func (h *handler) toOptions(c ctx.Ctx, market, contract, seller, buyer string) ([]activity.FindAllOptions, error) {
	opts := []activity.FindAllOptions{}
	for _, f := range []struct {
		v  string
		fn func(common.Address) activity.FindAllOptions
	}{
		{market, activity.WithMarket},
		{contract, activity.WithContract},
		{seller, activity.WithSeller},
		{buyer, activity.WithBuyer},
	} {
		if f.v == "" {
			continue
		}
		addr, err := h.address(c, f.v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, f.fn(addr))
	}
	return opts, nil
}

func (h *handler) address(c ctx.Ctx, v string) (common.Address, error) {
	if h.resolver == nil || !ens.IsName(v) {
		return domain.ParseAddress(v)
	}
	return h.resolver.Resolve(c, v)
}
