// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/mineauction/api/accounts"
	"github.com/vechain/mineauction/api/auctions"
	"github.com/vechain/mineauction/api/events"
	"github.com/vechain/mineauction/api/middleware"
	"github.com/vechain/mineauction/api/node"
	"github.com/vechain/mineauction/api/subscriptions"
	"github.com/vechain/mineauction/api/transfers"
	"github.com/vechain/mineauction/api/votes"
	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/log"
	"github.com/vechain/mineauction/logdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins        string
	AllowCalls            bool
	LogsLimit             uint64
	SubscriptionCacheSize uint32
	PprofOn               bool
	EnableMetrics         bool
	EnableReqLogger       *atomic.Bool
	SlowQueriesThreshold  time.Duration
	Log5xxErrors          bool
}

// New return api router
func New(e *engine.Engine, logDB *logdb.LogDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(e, opts.AllowCalls).
		Mount(router, "/accounts")
	votes.New(e, opts.AllowCalls, opts.LogsLimit).
		Mount(router, "/votes")
	auctions.New(e, opts.AllowCalls).
		Mount(router, "/auctions")
	if logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/logs/event")
		transfers.New(logDB, opts.LogsLimit).
			Mount(router, "/logs/transfer")
	}
	node.New(e, logDB != nil, opts.AllowCalls).
		Mount(router, "/node")
	subs := subscriptions.New(e, origins, opts.SubscriptionCacheSize)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	enableReqLogger := opts.EnableReqLogger
	if enableReqLogger == nil {
		enableReqLogger = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id", "x-mineauction-ver"}),
	)(handler)
	handler = versionHeaders(handler, e)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}

// versionHeaders tags every response with the genesis id and the engine version.
func versionHeaders(next http.Handler, e *engine.Engine) http.Handler {
	genesisID := e.GenesisID().String()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-genesis-id", genesisID)
		w.Header().Set("x-mineauction-ver", e.Version())
		next.ServeHTTP(w, r)
	})
}
