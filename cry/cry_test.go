// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/mineauction/thor"
)

func TestVerifier(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := thor.Address(crypto.PubkeyToAddress(key.PublicKey))

	domain := Domain{Name: "MINE", Version: "1", Contract: thor.BytesToAddress([]byte("token"))}
	hash := domain.DelegationHash(thor.BytesToAddress([]byte("bob")), 0, 1000)

	sig, err := Sign(hash, key)
	require.NoError(t, err)

	v := NewVerifier(16)
	got, err := v.RecoverSigner(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, signer, got)

	// cached path
	got, err = v.RecoverSigner(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, signer, got)

	// 27/28 style V
	legacy := append([]byte(nil), sig...)
	legacy[64] += 27
	got, err = v.RecoverSigner(hash, legacy)
	require.NoError(t, err)
	assert.Equal(t, signer, got)

	// another hash recovers someone else
	other, err := v.RecoverSigner(domain.DelegationHash(thor.BytesToAddress([]byte("bob")), 1, 1000), sig)
	if err == nil {
		assert.NotEqual(t, signer, other)
	}

	_, err = v.RecoverSigner(hash, sig[:64])
	assert.True(t, errors.Is(err, ErrInvalidSignature))

	bad := append([]byte(nil), sig...)
	bad[64] = 5
	_, err = v.RecoverSigner(hash, bad)
	assert.True(t, errors.Is(err, ErrInvalidSignature))
}

func TestDomainHashes(t *testing.T) {
	a := Domain{Name: "MINE", Version: "1", Contract: thor.BytesToAddress([]byte("a"))}
	b := Domain{Name: "MINE", Version: "1", Contract: thor.BytesToAddress([]byte("b"))}
	assert.NotEqual(t, a.Separator(), b.Separator())

	owner, spender := thor.BytesToAddress([]byte("o")), thor.BytesToAddress([]byte("s"))
	assert.NotEqual(t,
		a.PermitHash(owner, spender, big.NewInt(1), 0, 10),
		a.PermitHash(owner, spender, big.NewInt(2), 0, 10))
	assert.Equal(t,
		a.PermitHash(owner, spender, big.NewInt(1), 0, 10),
		a.PermitHash(owner, spender, big.NewInt(1), 0, 10))
	assert.NotEqual(t,
		a.DelegationHash(spender, 0, 10),
		b.DelegationHash(spender, 0, 10))
}
