package ethereum

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Account is a locally held key, used by dev tooling and tests to sign in
type Account struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

func NewAccount() (*Account, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &Account{Key: key, Address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// SignMessage personal_signs message and returns the 0x prefixed signature
func (a *Account) SignMessage(message []byte) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), a.Key)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(sig), nil
}
