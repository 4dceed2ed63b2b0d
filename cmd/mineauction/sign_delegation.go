// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/mineauction/builtin"
	"github.com/vechain/mineauction/builtin/mine"
	"github.com/vechain/mineauction/cry"
	"github.com/vechain/mineauction/thor"
)

// delegationRequest is the body accepted by POST /votes/delegate-by-sig.
type delegationRequest struct {
	Delegatee thor.Address  `json:"delegatee"`
	Nonce     uint64        `json:"nonce"`
	Expiry    uint64        `json:"expiry"`
	Signature hexutil.Bytes `json:"signature"`
}

func signDelegationAction(ctx *cli.Context) error {
	delegatee, err := thor.ParseAddress(ctx.String(delegateeFlag.Name))
	if err != nil {
		return errors.WithMessage(err, delegateeFlag.Name)
	}
	if !ctx.IsSet(expiryFlag.Name) {
		return errors.Errorf("-%s must be set", expiryFlag.Name)
	}

	key, err := readPrivateKey()
	if err != nil {
		return err
	}
	req, err := signDelegation(key, delegatee, ctx.Uint64(nonceFlag.Name), ctx.Uint64(expiryFlag.Name))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(req)
}

func signDelegation(key *ecdsa.PrivateKey, delegatee thor.Address, nonce, expiry uint64) (*delegationRequest, error) {
	domain := cry.Domain{
		Name:     mine.DefaultConfig().Name,
		Version:  "1",
		Contract: builtin.Mine.Address,
	}
	sig, err := cry.Sign(domain.DelegationHash(delegatee, nonce, expiry), key)
	if err != nil {
		return nil, errors.Wrap(err, "sign delegation")
	}
	return &delegationRequest{
		Delegatee: delegatee,
		Nonce:     nonce,
		Expiry:    expiry,
		Signature: sig,
	}, nil
}

// readPrivateKey prompts on the terminal without echo, or reads a line from a piped stdin.
func readPrivateKey() (*ecdsa.PrivateKey, error) {
	var input string
	if isatty.IsTerminal(os.Stdin.Fd()) {
		t, err := tty.Open()
		if err != nil {
			return nil, errors.Wrap(err, "open tty")
		}
		defer t.Close()

		fmt.Fprint(t.Output(), "Enter private key: ")
		if input, err = t.ReadPasswordNoEcho(); err != nil {
			return nil, errors.Wrap(err, "read private key")
		}
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "read private key")
		}
		input = line
	}
	return parsePrivateKey(input)
}

func parsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, errors.WithMessage(err, "private key")
	}
	return key, nil
}
