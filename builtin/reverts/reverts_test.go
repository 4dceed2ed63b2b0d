// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/mineauction/thor"
)

var (
	codeBalance = NewCode("ERC20InsufficientBalance(address,uint256,uint256)", ResourceExhausted)
	codeOwner   = NewCode("OwnableUnauthorizedOwner(address)", Authorization)
)

func TestErrRevert(t *testing.T) {
	who := thor.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	err := codeBalance.New(who, big.NewInt(1), big.NewInt(2))

	assert.Equal(t, "ERC20InsufficientBalance(0x7567d83b7b8d80addcb281a71d54fc7b3364ffed, 1, 2)", err.Error())
	assert.Equal(t, "ERC20InsufficientBalance", err.Code().Name())
	assert.Equal(t, ResourceExhausted, err.Code().Kind())
	assert.Equal(t, "resource-exhausted", err.Code().Kind().String())

	wrapped := errors.Wrap(err, "transfer")
	assert.True(t, Is(wrapped, codeBalance))
	assert.False(t, Is(wrapped, codeOwner))
	assert.True(t, errors.Is(wrapped, codeBalance.New()))
	assert.False(t, errors.Is(wrapped, codeOwner.New()))
	assert.True(t, IsRevertErr(wrapped))
	assert.False(t, IsRevertErr(errors.New("disk failure")))
	assert.False(t, IsRevertErr(nil))

	r, ok := As(wrapped)
	assert.True(t, ok)
	assert.Len(t, r.Args(), 3)
}

func TestBytes(t *testing.T) {
	// selector of Error(string) is the well known 0x08c379a0
	assert.Equal(t, "08c379a0", hex.EncodeToString(func() []byte {
		s := NewCode("Error(string)", InvalidArgument).Selector()
		return s[:]
	}()))

	who := thor.BytesToAddress([]byte{0xab})
	data := codeBalance.New(who, big.NewInt(1), big.NewInt(256)).Bytes()
	assert.Len(t, data, 4+32*3)
	assert.Equal(t, byte(0xab), data[4+31])
	assert.Equal(t, byte(1), data[4+32+31])
	assert.Equal(t, []byte{1, 0}, data[4+64+30:])

	var nilRevert *ErrRevert
	assert.Nil(t, nilRevert.Bytes())
}

func TestMalformedSignature(t *testing.T) {
	assert.Panics(t, func() { NewCode("NoParens", InvalidArgument) })
}
