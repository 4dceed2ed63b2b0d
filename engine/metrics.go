// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import "github.com/vechain/mineauction/metrics"

var (
	metricCallCount    = metrics.LazyLoadCounterVec("engine_call_count", []string{"status"})
	metricCallDuration = metrics.LazyLoadHistogram("engine_call_duration_ms", metrics.BucketHTTPReqs)
)
