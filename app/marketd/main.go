package main

import (
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/x-xyz/listings/app/marketd/docs"
	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/database/mongoclient"
	"github.com/x-xyz/listings/base/database/redisclient"
	"github.com/x-xyz/listings/base/goroutine"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/base/metrics"
	bValidator "github.com/x-xyz/listings/base/validator"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/domain/activity"
	"github.com/x-xyz/listings/domain/keys"
	"github.com/x-xyz/listings/domain/listing"
	mmiddleware "github.com/x-xyz/listings/middleware"
	"github.com/x-xyz/listings/service/cache"
	"github.com/x-xyz/listings/service/cache/provider"
	"github.com/x-xyz/listings/service/cache/provider/compound"
	"github.com/x-xyz/listings/service/cache/provider/primitive"
	redisProvider "github.com/x-xyz/listings/service/cache/provider/redis"
	"github.com/x-xyz/listings/service/chain"
	"github.com/x-xyz/listings/service/chain/contract"
	"github.com/x-xyz/listings/service/ens"
	"github.com/x-xyz/listings/service/ledger"
	"github.com/x-xyz/listings/service/query"
	"github.com/x-xyz/listings/service/token"
	activity_delivery "github.com/x-xyz/listings/stores/activity/delivery/http"
	activity_repository "github.com/x-xyz/listings/stores/activity/repository"
	activity_usecase "github.com/x-xyz/listings/stores/activity/usecase"
	auth_delivery "github.com/x-xyz/listings/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/listings/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/listings/stores/auth/usecase"
	ens_delivery "github.com/x-xyz/listings/stores/ens/delivery/http"
	hc_delivery "github.com/x-xyz/listings/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/listings/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/listings/stores/healthcheck/usecase"
	listing_repository "github.com/x-xyz/listings/stores/listing/repository"
	market_delivery "github.com/x-xyz/listings/stores/market/delivery/http"
	market_usecase "github.com/x-xyz/listings/stores/market/usecase"
	precheck_usecase "github.com/x-xyz/listings/stores/precheck/usecase"
	token_delivery "github.com/x-xyz/listings/stores/token/delivery/http"
	token_usecase "github.com/x-xyz/listings/stores/token/usecase"
)

func init() {
	configFile := pflag.String("config", "infra/configs/config.yaml", "path of the yaml config")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	log.SetDebug(viper.GetBool(`debug`))
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func mustAddress(key string) common.Address {
	addr, err := domain.ParseAddress(viper.GetString(key))
	if err != nil {
		log.Log().WithFields(log.Fields{"key": key, "err": err}).Panic("invalid address in config")
	}
	return addr
}

func mustWei(key string) *big.Int {
	v := viper.GetString(key)
	if v == "" {
		return new(big.Int)
	}
	n, err := domain.ParseUint256(v)
	if err != nil {
		log.Log().WithFields(log.Fields{"key": key, "err": err}).Panic("invalid amount in config")
	}
	return n
}

// newCache keeps entries in process, in front of redis when shared is set
func newCache(pfx string, sizeMb int, ttl time.Duration, shared provider.Provider) cache.Service {
	var p provider.Provider = primitive.NewPrimitive(pfx, sizeMb)
	if shared != nil {
		p = compound.NewCompound(p, shared)
	}
	return cache.New(cache.ServiceConfig{
		Ttl:   ttl,
		Pfx:   pfx,
		Cache: p,
	})
}

//	@title			Listings API
//	@version		1.0
//	@description	P2P marketplace for ERC721 and ERC1155 tokens.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				retrieve a token from /auth/sign and apply it with `bearer {token}`
func main() {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware(metrics.New("http"))
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	context := ctx.Background()

	// ledger and marketplaces
	context.Info("init ledger")
	l := ledger.New(ledger.NewWallClock())
	owner := mustAddress("marketplace.owner")
	for _, a := range viper.GetStringSlice("dev.accounts") {
		addr, err := domain.ParseAddress(a)
		if err != nil {
			context.WithFields(log.Fields{"account": a, "err": err}).Panic("invalid dev account")
		}
		l.SetBalance(addr, mustWei("dev.faucetAmount"))
	}

	var (
		m721  listing.Erc721Market
		m1155 listing.Erc1155Market
	)
	l.Deploy(owner, func(addr common.Address) interface{} {
		m721 = market_usecase.NewErc721Market(&market_usecase.MarketCfg{
			Address: addr,
			Owner:   owner,
			Repo:    listing_repository.NewMemoryRepo(),
			Metrics: metrics.New("erc721market"),
		})
		return m721
	})
	l.Deploy(owner, func(addr common.Address) interface{} {
		m1155 = market_usecase.NewErc1155Market(&market_usecase.MarketCfg{
			Address: addr,
			Owner:   owner,
			Repo:    listing_repository.NewMemoryRepo(),
			Metrics: metrics.New("erc1155market"),
		})
		return m1155
	})
	var conft *token.CoNFT
	l.Deploy(owner, func(addr common.Address) interface{} {
		conft = token.NewCoNFT(addr, owner, mustWei("dev.conft.price"), viper.GetString("dev.conft.baseURI"))
		return conft
	})
	erc721 := market_usecase.NewErc721UseCase(l, m721)
	erc1155 := market_usecase.NewErc1155UseCase(l, m1155)

	percent := uint64(viper.GetInt64("marketplace.comissionPercent"))
	if percent > 0 {
		for _, admin := range []listing.AdminUseCase{erc721, erc1155} {
			if _, err := admin.SetComissionPercent(context, owner, percent); err != nil {
				context.WithFields(log.Fields{"market": admin.Address().Hex(), "err": err}).Panic("failed to set comission")
			}
		}
	}
	context.WithFields(log.Fields{
		"owner":   owner.Hex(),
		"erc721":  m721.Address().Hex(),
		"erc1155": m1155.Address().Hex(),
		"conft":   conft.Address().Hex(),
		"percent": percent,
	}).Info("marketplaces deployed")

	// activity history, mongo when configured
	var (
		activityRepo activity.Repo
		mongoClient  *mongoclient.Client
	)
	if uri := viper.GetString("mongo.uri"); uri != "" {
		context.Info("init mongo")
		mongoClient = mongoclient.MustConnect(context, mongoclient.Config{
			Uri:                uri,
			AuthDBName:         viper.GetString("mongo.authDBName"),
			DbName:             viper.GetString("mongo.dbName"),
			EnableSSL:          viper.GetBool("mongo.enableSSL"),
			Majority:           true,
			PoolSizeMultiplier: 2,
		})
		q := query.New(mongoClient, viper.GetBool("mongo.checkIndex"))
		if err := activity_repository.EnsureIndexes(context, q); err != nil {
			context.WithField("err", err).Panic("failed to ensure activity indexes")
		}
		activityRepo = activity_repository.NewMongoRepo(q)
	} else {
		context.Info("mongo.uri not set, activities are kept in memory")
		activityRepo = activity_repository.NewMemoryRepo()
	}
	activityUC := activity_usecase.New(activityRepo, metrics.New("activity"))
	l.Subscribe(activityUC.Record)

	// caches, shared through redis between replicas when configured
	var shared provider.Provider
	if uri := viper.GetString("redis.uri"); uri != "" {
		context.Info("init redis")
		pool := redisclient.MustConnect(redisclient.Config{
			Uri:            uri,
			Password:       viper.GetString("redis.password"),
			PoolMultiplier: viper.GetFloat64("redis.poolMultiplier"),
		})
		defer pool.Close()
		shared = redisProvider.NewRedis(pool, metrics.New("redis"))
	}
	cacheSize := viper.GetInt("cache.sizeMb")
	if cacheSize <= 0 {
		cacheSize = 16
	}
	nonceCache := newCache(keys.PfxNonce, cacheSize, viper.GetDuration("auth.nonceTtl"), shared)
	httpCache := newCache(keys.PfxHttp, cacheSize, viper.GetDuration("cache.httpTtl"), shared)

	auth := auth_usecase.New(viper.GetString("jwt.secret"), nonceCache)
	authMiddleware := auth_middleware.New(auth)

	// live chain prechecks
	var precheck listing.PrecheckUseCase
	var resolver ens.Resolver
	networks := viper.Sub("networks")
	if networks != nil {
		rpcs := make(map[int32]string)
		for k := range networks.AllSettings() {
			chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
			rpcs[chainId] = networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		}
		chainService, err := chain.NewClient(context, &chain.ClientCfg{
			RpcUrls:     rpcs,
			MaxInflight: viper.GetInt("precheck.maxInflight"),
		})
		if err != nil {
			context.WithField("err", err).Warn("chainService started with error")
		}
		defer chainService.Close()
		precheck = precheck_usecase.New(&precheck_usecase.PrecheckCfg{
			Erc721:  contract.NewErc721(chainService),
			Erc1155: contract.NewErc1155(chainService),
			Cache:   newCache(keys.PfxPrecheck, viper.GetInt("precheck.cacheSizeMb"), viper.GetDuration("precheck.ttl"), nil),
		})
		resolver = ens.New(chainService, viper.GetInt32("ens.chainId"), newCache(keys.PfxEns, 8, viper.GetDuration("ens.ttl"), shared))
	}

	hc := hc_usecase.New(hc_repo.New(mongoClient, httpCache, l, m721.Address(), m1155.Address(), conft.Address()))

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth)
	market_delivery.New(e, market_delivery.HandlerCfg{
		Erc721:   erc721,
		Erc1155:  erc1155,
		Precheck: precheck,
		ChainId:  viper.GetInt32("precheck.defaultChainId"),
		Auth:     authMiddleware,
	})
	activity_delivery.New(e, activityUC, resolver, mmiddleware.CacheHttp(httpCache))
	if resolver != nil {
		ens_delivery.New(e, resolver)
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if viper.GetBool("dev.enabled") {
		token_delivery.New(e, token_usecase.NewTokenUseCase(&token_usecase.TokenUseCaseCfg{
			Devnet:       l,
			CoNFT:        conft,
			FaucetAmount: mustWei("dev.faucetAmount"),
		}), authMiddleware)
	}

	goroutine.RecoverableGo(func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}, goroutine.WithName("http"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
	activityUC.Close()
	if mongoClient != nil {
		if err := mongoClient.Close(ctx); err != nil {
			log.Log().WithField("err", err).Error("closing mongo client")
		}
	}
	log.Sync()
}
