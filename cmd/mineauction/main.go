// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/mineauction/api"
	"github.com/vechain/mineauction/cmd/mineauction/httpserver"
	"github.com/vechain/mineauction/cry"
	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/genesis"
	"github.com/vechain/mineauction/health"
	"github.com/vechain/mineauction/log"
	"github.com/vechain/mineauction/logdb"
	"github.com/vechain/mineauction/lvldb"
	"github.com/vechain/mineauction/metrics"
	"github.com/vechain/mineauction/xenv"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

const clockCheckInterval = 10 * time.Minute

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "MineAuction",
		Usage:     "Recurring sealed-price auction of the Mine token",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			apiAllowCallsFlag,
			apiSubscriptionCacheFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			skipLogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			skipNTPFlag,
			ntpServerFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "export-events",
				Usage: "write the persisted event log as JSON lines",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					outputFlag,
					verbosityFlag,
				},
				Action: exportEventsAction,
			},
			{
				Name:  "sign-delegation",
				Usage: "sign a vote delegation with a private key read from the terminal",
				Flags: []cli.Flag{
					delegateeFlag,
					nonceFlag,
					expiryFlag,
				},
				Action: signDelegationAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}

	var (
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		if mainDB, err = openMainDB(ctx, instanceDir); err != nil {
			return err
		}
		if !ctx.Bool(skipLogsFlag.Name) {
			if logDB, err = openLogDB(instanceDir); err != nil {
				mainDB.Close()
				return err
			}
		}
	} else {
		instanceDir = "Memory"
		if mainDB, err = lvldb.NewMem(); err != nil {
			return err
		}
		if !ctx.Bool(skipLogsFlag.Name) {
			if logDB, err = logdb.NewMem(); err != nil {
				mainDB.Close()
				return err
			}
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	if logDB != nil {
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	eng, err := engine.New(mainDB, gene, engine.Options{
		Clock:    &xenv.SystemClock{GenesisTime: gene.LaunchTime()},
		Verifier: cry.NewVerifier(1024),
		LogDB:    logDB,
		Version:  fullVersion(),
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler, apiCloser := api.New(eng, logDB, api.Options{
		AllowedOrigins:        ctx.String(apiCorsFlag.Name),
		AllowCalls:            ctx.Bool(apiAllowCallsFlag.Name),
		LogsLimit:             ctx.Uint64(apiLogsLimitFlag.Name),
		SubscriptionCacheSize: uint32(ctx.Uint64(apiSubscriptionCacheFlag.Name)),
		PprofOn:               ctx.Bool(pprofFlag.Name),
		EnableMetrics:         ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:       apiLogs,
		SlowQueriesThreshold:  time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:          ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	defer func() { logger.Info("stopping API server..."); apiCloser() }()

	apiURL, srvCloser, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		apiHandler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer srvCloser()

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	ntpServer := ctx.String(ntpServerFlag.Name)
	if ctx.Bool(skipNTPFlag.Name) {
		ntpServer = ""
	}
	nodeHealth := health.New(ntpServer)

	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, nodeHealth)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	printStartupMessage(gene, eng, instanceDir, apiURL, metricsURL, adminURL)

	group, groupCtx := errgroup.WithContext(exitSignal)
	group.Go(func() error {
		nodeHealth.Run(groupCtx, eng, clockCheckInterval)
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return nil
	})
	return group.Wait()
}

func printStartupMessage(gene *genesis.Genesis, eng *engine.Engine, dataDir, apiURL, metricsURL, adminURL string) {
	head := eng.Head()
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Head         [ sequence %v | time %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		"MineAuction",
		gene.ID(), gene.Name(),
		head.Sequence, time.Unix(int64(head.Time), 0).UTC(),
		dataDir,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL),
	)
}

func orDisabled(url string) string {
	if url == "" {
		return "Disabled"
	}
	return url
}
