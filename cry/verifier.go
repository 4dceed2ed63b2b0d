// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/thor"
)

// ErrInvalidSignature is returned for malformed or unrecoverable signatures.
var ErrInvalidSignature = errors.New("invalid signature")

// Verifier recovers signers of 65 bytes [R || S || V] signatures.
// V may be 0/1 or 27/28.
type Verifier struct {
	cache *lru.Cache
}

// NewVerifier creates a verifier caching up to cacheSize recovered signers.
func NewVerifier(cacheSize int) *Verifier {
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, _ := lru.New(cacheSize)
	return &Verifier{cache: cache}
}

func (v *Verifier) RecoverSigner(hash thor.Bytes32, sig []byte) (thor.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return thor.Address{}, ErrInvalidSignature
	}
	key := string(hash[:]) + string(sig)
	if cached, ok := v.cache.Get(key); ok {
		return cached.(thor.Address), nil
	}

	normalized := append([]byte(nil), sig...)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	if normalized[64] > 1 {
		return thor.Address{}, ErrInvalidSignature
	}
	pub, err := crypto.SigToPub(hash[:], normalized)
	if err != nil {
		return thor.Address{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	signer := thor.Address(crypto.PubkeyToAddress(*pub))
	v.cache.Add(key, signer)
	return signer, nil
}

// Sign signs the hash with the private key.
func Sign(hash thor.Bytes32, key *ecdsa.PrivateKey) ([]byte, error) {
	return crypto.Sign(hash[:], key)
}
