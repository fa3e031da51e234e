package usecase

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/ethereum"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/domain"
	"github.com/x-xyz/listings/service/cache"
)

const tokenTtl = 24 * time.Hour

type impl struct {
	jwtSecret []byte
	nonces    cache.Service
	now       func() time.Time
}

// New signs tokens with jwtSecret, nonces has to be a cache with a short ttl
func New(jwtSecret string, nonces cache.Service) domain.AuthUsecase {
	return &impl{
		jwtSecret: []byte(jwtSecret),
		nonces:    nonces,
		now:       time.Now,
	}
}

func (im *impl) Nonce(ctx ctx.Ctx, address common.Address) (string, error) {
	nonce := uuid.NewString()
	if err := im.nonces.Set(ctx, address.Hex(), nonce); err != nil {
		ctx.WithField("err", err).Error("nonces.Set failed")
		return "", err
	}
	return nonce, nil
}

func (im *impl) SignIn(ctx ctx.Ctx, address common.Address, signature string) (string, error) {
	// a nonce is good for one attempt
	var nonce string
	if err := im.nonces.Take(ctx, address.Hex(), &nonce); err == cache.ErrNotFound {
		return "", domain.ErrUnauthorized
	} else if err != nil {
		ctx.WithField("err", err).Error("nonces.Take failed")
		return "", err
	}

	valid, err := ethereum.ValidateMsgSignature([]byte(domain.SignInMessage(nonce)), signature, address)
	if err != nil {
		ctx.WithFields(log.Fields{"address": address.Hex(), "err": err}).Warn("ValidateMsgSignature failed")
		return "", domain.ErrInvalidSignature
	}
	if !valid {
		return "", domain.ErrInvalidSignature
	}
	return im.SignToken(ctx, address)
}

func (im *impl) SignToken(ctx ctx.Ctx, address common.Address) (string, error) {
	claims := domain.JwtCustomClaims{
		Address: address.Hex(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: im.now().Add(tokenTtl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (common.Address, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		return common.Address{}, err
	}

	if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
		if !common.IsHexAddress(claims.Address) {
			return common.Address{}, domain.ErrInvalidAddress
		}
		return common.HexToAddress(claims.Address), nil
	}

	return common.Address{}, domain.ErrUnauthorized
}
