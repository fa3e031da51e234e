package chain

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	bCtx "github.com/x-xyz/listings/base/ctx"
	baseeth "github.com/x-xyz/listings/base/ethereum"
	"github.com/x-xyz/listings/base/log"
)

var ErrUnsupportedChain = errors.New("unsupported chain")

const defaultMaxInflight = 16

type ClientCfg struct {
	RpcUrls map[int32]string
	// MaxInflight caps concurrent calls per chain
	MaxInflight int
}

// Client runs read only contract calls. blk nil means the latest block.
type Client interface {
	Call(ctx bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error)
	ChainIds() []int32
	// Backend is the throttled rpc of chainId, for libraries that bind contracts themselves
	Backend(chainId int32) (bind.ContractBackend, error)
	Close()
}

type clientImpl struct {
	clients map[int32]*baseeth.ThrottledClient
}

// NewClient dials every configured rpc. A failed dial is reported but the other chains stay usable.
func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	var (
		anyerr error
	)
	inflight := cfg.MaxInflight
	if inflight <= 0 {
		inflight = defaultMaxInflight
	}
	clients := make(map[int32]*baseeth.ThrottledClient)
	for chainId, url := range cfg.RpcUrls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			continue
		}
		clients[chainId] = baseeth.NewThrottledClient(client, inflight)
	}
	return &clientImpl{
		clients: clients,
	}, anyerr
}

func (c *clientImpl) ChainIds() []int32 {
	res := make([]int32, 0, len(c.clients))
	for id := range c.clients {
		res = append(res, id)
	}
	return res
}

func (c *clientImpl) Backend(chainId int32) (bind.ContractBackend, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}
	return client, nil
}

func (c *clientImpl) Close() {
	for _, client := range c.clients {
		client.Close()
	}
}

func (c *clientImpl) Call(ctx bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := client.CallContract(ctx, msg, blk)
	if err != nil {
		ctx.WithFields(log.Fields{
			"chainId": chainId,
			"addr":    addr.Hex(),
			"method":  method,
			"err":     err,
		}).Error("client.CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithField("err", err).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}
