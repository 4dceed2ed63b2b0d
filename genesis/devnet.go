// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/mineauction/thor"
)

// DevAccount account for development.
type DevAccount struct {
	Address    thor.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{thor.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevLaunchTime is the launch time of the solo network.
const DevLaunchTime = uint64(1735689600) // 2025-01-01T00:00:00Z

// NewDevnet create genesis for solo mode. The first dev account owns everything and
// the second is the default delegatee; every dev account holds 1M UNIT.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	million := new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e18))

	var unit Token
	for _, a := range accs {
		unit.Accounts = append(unit.Accounts, Account{Address: a.Address, Balance: (*math.HexOrDecimal256)(million)})
	}
	unit.Minters = []thor.Address{accs[0].Address}
	unit.Burners = []thor.Address{accs[0].Address}

	gen, err := NewCustomNet(&CustomGenesis{
		Name:             "devnet",
		LaunchTime:       DevLaunchTime,
		Owner:            accs[0].Address,
		DefaultDelegatee: accs[1].Address,
		AuctionReward:    (*math.HexOrDecimal256)(thor.InitialAuctionReward),
		Unit:             unit,
		AuctionGroups: []AuctionGroup{{
			StartTime:      DevLaunchTime,
			SettleDuration: thor.DefaultSettleDuration,
			BidDuration:    thor.DefaultBidDuration,
		}},
	})
	if err != nil {
		panic(err)
	}
	return gen
}
