// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nonces

import (
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/builtin/reverts"
	"github.com/vechain/mineauction/builtin/solidity"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

var slotNonces = thor.BytesToBytes32([]byte("nonces"))

var (
	ErrSignatureExpired = reverts.NewCode("SignatureExpired(uint64,uint64)", reverts.SignatureInvalid)
	ErrInvalidSignature = reverts.NewCode("InvalidSignature()", reverts.SignatureInvalid)
	ErrInvalidNonce     = reverts.NewCode("InvalidNonce(address,uint64,uint64)", reverts.SignatureInvalid)
)

// Service tracks per account nonces of signed entry points of one contract.
type Service struct {
	nonces   *solidity.Mapping[thor.Address, uint64]
	verifier xenv.SignatureVerifier
}

func New(sctx *solidity.Context, verifier xenv.SignatureVerifier) *Service {
	return &Service{
		nonces:   solidity.NewMapping[thor.Address, uint64](sctx, slotNonces),
		verifier: verifier,
	}
}

// Nonce returns the next nonce expected from account.
func (s *Service) Nonce(account thor.Address) (uint64, error) {
	n, err := s.nonces.Get(account)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get nonce")
	}
	return n, nil
}

// RecoverAndConsume checks the expiry, recovers the signer and consumes its nonce.
// The nonce is left untouched on any failure.
func (s *Service) RecoverAndConsume(now uint64, nonce, expiry uint64, hash thor.Bytes32, sig []byte) (thor.Address, error) {
	if now > expiry {
		return thor.Address{}, ErrSignatureExpired.New(expiry, now)
	}
	if s.verifier == nil {
		return thor.Address{}, ErrInvalidSignature.New()
	}
	signer, err := s.verifier.RecoverSigner(hash, sig)
	if err != nil || signer.IsZero() {
		return thor.Address{}, ErrInvalidSignature.New()
	}
	if err := s.consume(signer, nonce); err != nil {
		return thor.Address{}, err
	}
	return signer, nil
}

// VerifyAndConsume is RecoverAndConsume requiring the signer to be account.
func (s *Service) VerifyAndConsume(now uint64, account thor.Address, nonce, expiry uint64, hash thor.Bytes32, sig []byte) error {
	if now > expiry {
		return ErrSignatureExpired.New(expiry, now)
	}
	if s.verifier == nil {
		return ErrInvalidSignature.New()
	}
	signer, err := s.verifier.RecoverSigner(hash, sig)
	if err != nil || signer != account {
		return ErrInvalidSignature.New()
	}
	return s.consume(account, nonce)
}

func (s *Service) consume(account thor.Address, nonce uint64) error {
	current, err := s.Nonce(account)
	if err != nil {
		return err
	}
	if nonce != current {
		return ErrInvalidNonce.New(account, current, nonce)
	}
	return s.nonces.Set(account, current+1)
}
