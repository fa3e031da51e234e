package http

import (
	"math/big"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/listing"
)

const etherDecimals = 18

// ToEther formats a wei amount in ether without losing precision
func ToEther(wei *big.Int) string {
	return decimal.NewFromBigInt(domain.BigOrZero(wei), -etherDecimals).String()
}

type listingResp struct {
	Id         uint64 `json:"id"`
	Seller     string `json:"seller"`
	Contract   string `json:"tokenContract"`
	TokenId    string `json:"tokenId"`
	Amount     string `json:"amount"`
	Price      string `json:"price"`
	PriceEther string `json:"priceEther"`
	Total      string `json:"total"`
	TotalEther string `json:"totalEther"`
	ExpireTime uint64 `json:"expireTime"`
}

func toListingResp(l listing.Listing) listingResp {
	total := l.Total()
	return listingResp{
		Id:         l.Id,
		Seller:     l.Seller.Hex(),
		Contract:   l.Contract.Hex(),
		TokenId:    domain.BigOrZero(l.Item).String(),
		Amount:     domain.BigOrZero(l.Amount).String(),
		Price:      domain.BigOrZero(l.Price).String(),
		PriceEther: ToEther(l.Price),
		Total:      total.String(),
		TotalEther: ToEther(total),
		ExpireTime: l.ExpireTime,
	}
}

func toListingResps(ls []listing.Listing) []listingResp {
	res := make([]listingResp, 0, len(ls))
	for _, l := range ls {
		res = append(res, toListingResp(l))
	}
	return res
}

type adminResp struct {
	Market           string `json:"market"`
	Owner            string `json:"owner"`
	ComissionPercent uint64 `json:"comissionPercent"`
	Vault            string `json:"vault"`
	VaultEther       string `json:"vaultEther"`
}

func toAdminResp(u listing.AdminUseCase) adminResp {
	vault := u.VaultBalance()
	return adminResp{
		Market:           u.Address().Hex(),
		Owner:            u.Owner().Hex(),
		ComissionPercent: u.ComissionPercent(),
		Vault:            vault.String(),
		VaultEther:       ToEther(vault),
	}
}

// findAllOptions reads the contract, seller, item, offset and limit query params
func findAllOptions(c echo.Context) ([]listing.FindAllOptionsFunc, error) {
	opts := []listing.FindAllOptionsFunc{}
	if v := c.QueryParam("contract"); v != "" {
		addr, err := domain.ParseAddress(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, listing.WithContract(addr))
	}
	if v := c.QueryParam("seller"); v != "" {
		addr, err := domain.ParseAddress(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, listing.WithSeller(addr))
	}
	if v := c.QueryParam("item"); v != "" {
		item, err := domain.ParseUint256(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, listing.WithItem(item))
	}
	if c.QueryParam("limit") != "" {
		offset, limit, err := pagination(c)
		if err != nil {
			return nil, err
		}
		opts = append(opts, listing.WithPagination(offset, limit))
	}
	return opts, nil
}

func pagination(c echo.Context) (int, int, error) {
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, domain.ErrBadParamInput
		}
		offset = n
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		return 0, 0, domain.ErrBadParamInput
	}
	return offset, limit, nil
}
