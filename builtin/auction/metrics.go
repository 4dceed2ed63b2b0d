// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import "github.com/vechain/mineauction/metrics"

var (
	metricBids   = metrics.LazyLoadCounterVec("auction_bids_count", []string{"group"})
	metricClaims = metrics.LazyLoadCounterVec("auction_claims_count", []string{"group"})
	metricOpened = metrics.LazyLoadCounter("auction_slots_opened_count")
)
