package ens

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	goens "github.com/wealdtech/go-ens/v3"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/keys"
	"github.com/x-xyz/listings/service/cache"
	"github.com/x-xyz/listings/service/chain"
)

// registry is the part of go-ens the resolver needs
type registry interface {
	Resolve(name string) (common.Address, error)
	ReverseResolve(addr common.Address) (string, error)
}

type impl struct {
	registry registry
	cache    cache.Service
}

type goensRegistry struct {
	chainService chain.Client
	chainId      int32
}

func (r goensRegistry) backend() (bind.ContractBackend, error) {
	return r.chainService.Backend(r.chainId)
}

func (r goensRegistry) Resolve(name string) (common.Address, error) {
	b, err := r.backend()
	if err != nil {
		return common.Address{}, err
	}
	return goens.Resolve(b, name)
}

func (r goensRegistry) ReverseResolve(addr common.Address) (string, error) {
	b, err := r.backend()
	if err != nil {
		return "", err
	}
	return goens.ReverseResolve(b, addr)
}

// New resolves on the ENS registry of chainId, answers are kept in cacheService
func New(chainService chain.Client, chainId int32, cacheService cache.Service) Resolver {
	return &impl{
		registry: goensRegistry{chainService: chainService, chainId: chainId},
		cache:    cacheService,
	}
}

func (im *impl) Resolve(c ctx.Ctx, name string) (common.Address, error) {
	name = strings.ToLower(name)
	hex := ""
	err := im.cache.GetByFunc(c, keys.CacheKey("resolve", name), &hex, func() (interface{}, error) {
		addr, err := im.registry.Resolve(name)
		if fmt.Sprint(err) == "unregistered name" {
			return "", nil
		}
		if err != nil {
			c.WithFields(log.Fields{"name": name, "err": err}).Error("failed to goens.Resolve")
			return nil, err
		}
		return addr.Hex(), nil
	})
	if err != nil {
		return common.Address{}, err
	}
	if hex == "" {
		return common.Address{}, domain.ErrNotFound
	}
	return common.HexToAddress(hex), nil
}

func (im *impl) ReverseResolve(c ctx.Ctx, addr common.Address) (string, error) {
	name := ""
	err := im.cache.GetByFunc(c, keys.CacheKey("reverse-resolve", strings.ToLower(addr.Hex())), &name, func() (interface{}, error) {
		name, err := im.registry.ReverseResolve(addr)
		if fmt.Sprint(err) == "not a resolver" || fmt.Sprint(err) == "no resolution" {
			return "", nil
		}
		if err != nil {
			c.WithFields(log.Fields{"address": addr.Hex(), "err": err}).Error("failed to goens.ReverseResolve")
			return nil, err
		}
		return name, nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}
