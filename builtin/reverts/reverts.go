// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/thor"
)

// Kind classifies reverts.
type Kind uint8

const (
	Authorization Kind = iota + 1
	InvalidArgument
	TemporalMismatch
	ResourceExhausted
	SignatureInvalid
)

func (k Kind) String() string {
	switch k {
	case Authorization:
		return "authorization"
	case InvalidArgument:
		return "invalid-argument"
	case TemporalMismatch:
		return "temporal-mismatch"
	case ResourceExhausted:
		return "resource-exhausted"
	case SignatureInvalid:
		return "signature-invalid"
	}
	return "unknown"
}

// Code identifies a custom error, declared by its solidity style signature,
// e.g. "ERC20InsufficientBalance(address,uint256,uint256)".
type Code struct {
	signature string
	kind      Kind
}

// NewCode declares a revert code.
func NewCode(signature string, kind Kind) *Code {
	if !strings.HasSuffix(signature, ")") || !strings.Contains(signature, "(") {
		panic(fmt.Sprintf("reverts: malformed signature %q", signature))
	}
	return &Code{signature: signature, kind: kind}
}

// Name returns the error name without argument types.
func (c *Code) Name() string {
	return c.signature[:strings.IndexByte(c.signature, '(')]
}

func (c *Code) Kind() Kind {
	return c.kind
}

// Selector returns the first 4 bytes of keccak256(signature).
func (c *Code) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], thor.Keccak256([]byte(c.signature)).Bytes())
	return sel
}

// New creates a revert with the given arguments.
func (c *Code) New(args ...any) *ErrRevert {
	return &ErrRevert{code: c, args: args}
}

// ErrRevert is the error returned when an operation is rejected. No state change survives it.
type ErrRevert struct {
	code *Code
	args []any
}

func (e *ErrRevert) Code() *Code {
	return e.code
}

func (e *ErrRevert) Args() []any {
	return e.args
}

func (e *ErrRevert) Error() string {
	var b strings.Builder
	b.WriteString(e.code.Name())
	b.WriteByte('(')
	for i, arg := range e.args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, arg)
	}
	b.WriteByte(')')
	return b.String()
}

// Is reports whether target is a revert with the same code, or the code itself.
func (e *ErrRevert) Is(target error) bool {
	if t, ok := target.(*ErrRevert); ok {
		return t.code == e.code
	}
	return false
}

// Bytes abi encodes the revert as selector followed by its static arguments.
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}
	sel := e.code.Selector()
	encoded := append(make([]byte, 0, 4+32*len(e.args)), sel[:]...)
	for _, arg := range e.args {
		encoded = append(encoded, encodeWord(arg)...)
	}
	return encoded
}

func encodeWord(arg any) []byte {
	switch v := arg.(type) {
	case thor.Address:
		return common.LeftPadBytes(v.Bytes(), 32)
	case thor.Bytes32:
		return v.Bytes()
	case *big.Int:
		if v == nil {
			return make([]byte, 32)
		}
		return common.LeftPadBytes(v.Bytes(), 32)
	case bool:
		word := make([]byte, 32)
		if v {
			word[31] = 1
		}
		return word
	case uint64:
		return common.LeftPadBytes(binary.BigEndian.AppendUint64(nil, v), 32)
	case uint32:
		return common.LeftPadBytes(binary.BigEndian.AppendUint32(nil, v), 32)
	}
	return make([]byte, 32)
}

// Is reports whether err is a revert of the code.
func Is(err error, code *Code) bool {
	var r *ErrRevert
	if errors.As(err, &r) {
		return r.code == code
	}
	return false
}

// As extracts the revert carried by err.
func As(err error) (*ErrRevert, bool) {
	var r *ErrRevert
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// IsRevertErr reports whether err is caused by a revert rather than a storage failure.
func IsRevertErr(err any) bool {
	e, ok := err.(error)
	if !ok || e == nil {
		return false
	}
	_, ok = As(e)
	return ok
}
