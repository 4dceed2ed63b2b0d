// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"op"}).AddWithLabel(1, map[string]string{"nonsense": "ok"})
	Histogram("noop_hist", nil).Observe(3)
	GaugeVec("noop_gauge_vec", nil).SetWithLabel(2, nil)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLazyLoadingAndPrometheus(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyBids := LazyLoadCounterVec("test_bids_total", []string{"group"})
	lazyClaimed := LazyLoadCounter("test_claims_total")
	lazyGauge := LazyLoadGauge("test_current_group")
	lazyGaugeVec := LazyLoadGaugeVec("test_auction_total_bids", []string{"auction"})
	lazyHist := LazyLoadHistogram("test_exec_ms", BucketHTTPReqs)
	lazyHistVec := LazyLoadHistogramVec("test_req_ms", []string{"method"}, BucketHTTPReqs)

	InitializePrometheusMetrics()

	require.IsType(t, &promCountVecMeter{}, lazyBids())
	require.IsType(t, &promCountMeter{}, lazyClaimed())
	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promHistogramMeter{}, lazyHist())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistVec())

	lazyBids().AddWithLabel(2, map[string]string{"group": "0"})
	lazyBids().AddWithLabel(3, map[string]string{"group": "1"})
	lazyClaimed().Add(1)
	lazyGauge().Set(7)
	lazyGaugeVec().SetWithLabel(5, map[string]string{"auction": "3"})
	require.Same(t, lazyClaimed(), Counter("test_claims_total"))

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	bids := byName["mineauction_test_bids_total"]
	require.NotNil(t, bids)
	require.Len(t, bids.Metric, 2)
	require.Equal(t, float64(5), bids.Metric[0].GetCounter().GetValue()+bids.Metric[1].GetCounter().GetValue())
	require.Equal(t, float64(1), byName["mineauction_test_claims_total"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(7), byName["mineauction_test_current_group"].Metric[0].GetGauge().GetValue())
}
