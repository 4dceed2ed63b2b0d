// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cry provides the secp256k1 signer recovery and the typed message hashes
// signed by delegate-by-signature and permit.
package cry

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/mineauction/thor"
)

var (
	domainTypeHash     = thor.Keccak256([]byte("EIP712Domain(string name,string version,address verifyingContract)"))
	delegationTypeHash = thor.Keccak256([]byte("Delegation(address delegatee,uint256 nonce,uint256 expiry)"))
	permitTypeHash     = thor.Keccak256([]byte("Permit(address owner,address spender,uint256 value,uint256 nonce,uint256 deadline)"))
)

// Domain separates signatures of different contracts.
type Domain struct {
	Name     string
	Version  string
	Contract thor.Address
}

// Separator returns the hash of the domain.
func (d Domain) Separator() thor.Bytes32 {
	return thor.Keccak256(
		domainTypeHash.Bytes(),
		thor.Keccak256([]byte(d.Name)).Bytes(),
		thor.Keccak256([]byte(d.Version)).Bytes(),
		word(d.Contract.Bytes()),
	)
}

func (d Domain) hash(structHash thor.Bytes32) thor.Bytes32 {
	sep := d.Separator()
	return thor.Keccak256([]byte{0x19, 0x01}, sep.Bytes(), structHash.Bytes())
}

func word(b []byte) []byte {
	return common.LeftPadBytes(b, 32)
}

func uintWord(v uint64) []byte {
	return word(binary.BigEndian.AppendUint64(nil, v))
}

// DelegationHash is the signing hash of delegate-by-signature.
func (d Domain) DelegationHash(delegatee thor.Address, nonce, expiry uint64) thor.Bytes32 {
	return d.hash(thor.Keccak256(
		delegationTypeHash.Bytes(),
		word(delegatee.Bytes()),
		uintWord(nonce),
		uintWord(expiry),
	))
}

// PermitHash is the signing hash of permit.
func (d Domain) PermitHash(owner, spender thor.Address, value *big.Int, nonce, deadline uint64) thor.Bytes32 {
	return d.hash(thor.Keccak256(
		permitTypeHash.Bytes(),
		word(owner.Bytes()),
		word(spender.Bytes()),
		word(value.Bytes()),
		uintWord(nonce),
		uintWord(deadline),
	))
}
