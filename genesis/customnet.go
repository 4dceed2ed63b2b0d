// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/builtin"
	"github.com/vechain/mineauction/builtin/auction"
	"github.com/vechain/mineauction/builtin/mine"
	"github.com/vechain/mineauction/builtin/schedule"
	"github.com/vechain/mineauction/builtin/token"
	"github.com/vechain/mineauction/thor"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Name             string                `yaml:"name" json:"name"`
	LaunchTime       uint64                `yaml:"launchTime" json:"launchTime"`
	Owner            thor.Address          `yaml:"owner" json:"owner"`
	DefaultDelegatee thor.Address          `yaml:"defaultDelegatee" json:"defaultDelegatee"`
	AuctionReward    *math.HexOrDecimal256 `yaml:"auctionReward" json:"auctionReward"`
	Unit             Token                 `yaml:"unit" json:"unit"`
	Mine             Token                 `yaml:"mine" json:"mine"`
	AuctionGroups    []AuctionGroup        `yaml:"auctionGroups" json:"auctionGroups"`
}

// Token is the initial state of a token.
type Token struct {
	Minters  []thor.Address `yaml:"minters" json:"minters,omitempty"`
	Burners  []thor.Address `yaml:"burners" json:"burners,omitempty"`
	Accounts []Account      `yaml:"accounts" json:"accounts,omitempty"`
}

// Account is an initial balance.
type Account struct {
	Address thor.Address          `yaml:"address" json:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance" json:"balance"`
}

// AuctionGroup is an initial auction group.
type AuctionGroup struct {
	StartTime      uint64 `yaml:"startTime" json:"startTime"`
	SettleDuration uint64 `yaml:"settleDuration" json:"settleDuration"`
	BidDuration    uint64 `yaml:"bidDuration" json:"bidDuration"`
}

func (t *Token) genesisConfig(owner thor.Address) (*token.GenesisConfig, error) {
	cfg := &token.GenesisConfig{
		Owner:   owner,
		Minters: t.Minters,
		Burners: t.Burners,
	}
	for _, a := range t.Accounts {
		if a.Balance == nil {
			return nil, fmt.Errorf("%s: balance must be set", a.Address)
		}
		bal := (*big.Int)(a.Balance)
		if bal.Sign() < 1 {
			return nil, fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
		cfg.Allocations = append(cfg.Allocations, token.Allocation{Account: a.Address, Amount: new(big.Int).Set(bal)})
	}
	return cfg, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.Owner.IsZero() {
		return nil, errors.New("owner must be set")
	}
	if gen.DefaultDelegatee.IsZero() {
		return nil, errors.New("defaultDelegatee must be set")
	}
	reward := thor.InitialAuctionReward
	if gen.AuctionReward != nil {
		if (*big.Int)(gen.AuctionReward).Sign() < 0 {
			return nil, errors.New("auctionReward must be a non-negative integer")
		}
		reward = (*big.Int)(gen.AuctionReward)
	}
	unitCfg, err := gen.Unit.genesisConfig(gen.Owner)
	if err != nil {
		return nil, errors.WithMessage(err, "unit")
	}
	mineCfg, err := gen.Mine.genesisConfig(gen.Owner)
	if err != nil {
		return nil, errors.WithMessage(err, "mine")
	}
	// the auction mints rewards
	mineCfg.Minters = append([]thor.Address{builtin.Auction.Address}, mineCfg.Minters...)

	groups := make([]*schedule.Group, 0, len(gen.AuctionGroups))
	for _, g := range gen.AuctionGroups {
		groups = append(groups, &schedule.Group{
			StartTime:      g.StartTime,
			SettleDuration: g.SettleDuration,
			BidDuration:    g.BidDuration,
		})
	}

	id, err := computeID(gen)
	if err != nil {
		return nil, err
	}
	name := gen.Name
	if name == "" {
		name = "customnet"
	}

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		State(func(c *builtin.Contracts) error {
			return c.Params.Set(thor.KeyAuctionReward, reward)
		}).
		State(func(c *builtin.Contracts) error {
			return token.Genesis(c.Unit, unitCfg)
		}).
		State(func(c *builtin.Contracts) error {
			return mine.Genesis(c.Mine, &mine.GenesisConfig{
				GenesisConfig:    *mineCfg,
				DefaultDelegatee: gen.DefaultDelegatee,
			})
		}).
		State(func(c *builtin.Contracts) error {
			return auction.Genesis(c.Auction, gen.Owner, groups)
		})

	return &Genesis{builder, id, name}, nil
}

func computeID(gen *CustomGenesis) (thor.Bytes32, error) {
	data, err := json.Marshal(gen)
	if err != nil {
		return thor.Bytes32{}, errors.Wrap(err, "encode genesis")
	}
	return thor.Blake2b(data), nil
}
