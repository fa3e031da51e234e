package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt"

	"github.com/x-xyz/listings/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

// SignInMessage is what a wallet personal_signs to prove it controls an address
func SignInMessage(nonce string) string {
	return fmt.Sprintf("Welcome to listings!\n\nSign this message to sign in, it costs no gas.\n\nNonce: %s", nonce)
}

type AuthUsecase interface {
	// Nonce issues a one-time nonce for address, replacing any previous one
	Nonce(ctx ctx.Ctx, address common.Address) (string, error)
	// SignIn consumes the nonce of address and returns a token if signature signs SignInMessage(nonce)
	SignIn(ctx ctx.Ctx, address common.Address, signature string) (string, error)
	SignToken(ctx ctx.Ctx, address common.Address) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (common.Address, error)
}
