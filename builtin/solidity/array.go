// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/mineauction/thor"
)

// Array is a dynamic storage array. The length lives at the base position and
// element i at blake2b(base, i).
type Array[V any] struct {
	context *Context
	basePos thor.Bytes32
	length  *Uint256
}

func NewArray[V any](context *Context, pos thor.Bytes32) *Array[V] {
	return &Array[V]{context: context, basePos: pos, length: NewUint256(context, pos)}
}

func (a *Array[V]) position(i uint64) thor.Bytes32 {
	return thor.Blake2b(a.basePos.Bytes(), binary.BigEndian.AppendUint64(nil, i))
}

func (a *Array[V]) Len() (uint64, error) {
	l, err := a.length.Get()
	if err != nil {
		return 0, err
	}
	return l.Uint64(), nil
}

func (a *Array[V]) Get(i uint64) (value V, err error) {
	l, err := a.Len()
	if err != nil {
		return value, err
	}
	if i >= l {
		return value, fmt.Errorf("array index %d out of range [0, %d)", i, l)
	}
	err = a.context.state.DecodeStorage(a.context.address, a.position(i), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (a *Array[V]) Set(i uint64, value V) error {
	l, err := a.Len()
	if err != nil {
		return err
	}
	if i >= l {
		return fmt.Errorf("array index %d out of range [0, %d)", i, l)
	}
	return a.context.state.EncodeStorage(a.context.address, a.position(i), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Push appends the value and returns its index.
func (a *Array[V]) Push(value V) (uint64, error) {
	l, err := a.Len()
	if err != nil {
		return 0, err
	}
	if err := a.context.state.EncodeStorage(a.context.address, a.position(l), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	}); err != nil {
		return 0, err
	}
	a.length.Set(new(big.Int).SetUint64(l + 1))
	return l, nil
}
