package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	txtracker "github.com/0xPolygonHermez/zkevm-tx-tracker"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/activity"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/analytics"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/chain"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/config"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/db"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/delegation"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/ethprovider"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/migrations"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/monitor"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/persist"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/replacer"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/server"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/store"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/submitter"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/wallet"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func start(cliCtx *cli.Context) error {
	// Load config file
	c, err := config.Load(cliCtx)
	if err != nil {
		return err
	}

	// Setup logger
	log.Init(c.Log)
	if c.Log.Environment == log.EnvironmentDevelopment {
		txtracker.PrintVersion(os.Stdout)
		log.Info("starting application...")
	} else if c.Log.Environment == log.EnvironmentProduction {
		logVersion()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, closeStorage, err := newStorage(c, !cliCtx.Bool(config.FlagNoMigrations))
	if err != nil {
		return err
	}
	defer closeStorage()

	state, err := persist.Rehydrate(ctx, storage, migrations.NewMigrator())
	if err != nil {
		return err
	}
	log.Infof("rehydrated %d transactions and %d signatures", state.Transactions.Len(), len(state.Signatures))

	saver := persist.NewSaver(storage, migrations.CurrentVersion)
	txStore := store.NewStore(store.WithPersister(saver))
	txStore.Load(state.Transactions, state.Signatures)

	registry, err := chain.NewRegistry(c.Chains)
	if err != nil {
		return fmt.Errorf("error loading chain registry: %w", err)
	}
	providers := ethprovider.NewManager(c.Ethprovider, registry)
	defer providers.Close()

	accounts, err := wallet.NewWallet(c.Wallet)
	if err != nil {
		return fmt.Errorf("error loading wallet: %w", err)
	}

	sink, _ := analytics.NewSink(c.Analytics)
	notifier := notification.NewNotifier(c.Notification)
	popups := notification.NewRegistry()

	sub := submitter.NewSubmitter(c.Submitter, delegation.NewResolver(registry))
	rep := replacer.NewReplacer(txStore, accounts, replacerProviders(providers), sub, accounts, notifier, sink)
	reconciler := activity.NewReconciler(c.Activity, txStore, popups, registry, sink)

	var (
		bridges monitor.BridgeStatusFetcher
		orders  monitor.OrderFetcher
	)
	if c.Monitor.APIURL != "" {
		api := monitor.NewAPIClient(c.Monitor.APIURL, c.Monitor.APITimeout.Duration)
		bridges, orders = api, api
	} else {
		log.Warnf("Monitor.APIURL is not set, bridge and order polling disabled")
	}
	mon := monitor.NewMonitor(c.Monitor, txStore, monitorProviders(providers), reconciler, bridges, orders)

	srv := server.NewServer(c.Server, server.NewEndpoints(c.Server, txStore, rep, popups, notifier))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return saver.Run(gCtx) })
	g.Go(func() error { return mon.Run(gCtx) })
	g.Go(srv.Start)

	if c.Metrics.Enabled {
		go startMetricsHttpServer(c.Metrics)
	}

	if c.Metrics.ProfilingEnabled {
		go startProfilingHttpServer(c.Metrics)
	}

	waitSignal(gCtx)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Errorf("error stopping server: %v", err)
	}
	cancel()

	return g.Wait()
}

// newStorage opens the backend holding the persisted document
func newStorage(c *config.Config, runMigrations bool) (persist.Storage, func(), error) {
	switch c.Persistence.Backend {
	case persist.BackendPostgres:
		if runMigrations {
			log.Infof("running database migrations, host: %s:%s, db: %s, user: %s", c.DB.Host, c.DB.Port, c.DB.Name, c.DB.User)
			if err := db.RunMigrationsUp(c.DB, db.StateMigrationName); err != nil {
				return nil, nil, err
			}
		}
		stateDB, err := db.NewStateDB(c.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("error when creating state DB instance: %w", err)
		}
		return stateDB, stateDB.Close, nil
	default:
		log.Infof("persisting state to %s", c.Persistence.FilePath)
		return persist.NewFileStorage(afero.NewOsFs(), c.Persistence.FilePath), func() {}, nil
	}
}

func replacerProviders(m *ethprovider.Manager) replacer.ProviderFunc {
	return func(ctx context.Context, chainID types.ChainID, private bool) (submitter.Provider, error) {
		var (
			c   *ethprovider.Client
			err error
		)
		if private {
			c, err = m.PrivateProvider(ctx, chainID)
		} else {
			c, err = m.Provider(ctx, chainID)
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func monitorProviders(m *ethprovider.Manager) monitor.ProviderFunc {
	return func(ctx context.Context, chainID types.ChainID) (monitor.Provider, error) {
		c, err := m.Provider(ctx, chainID)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// waitSignal blocks until the process is interrupted or ctx is done
func waitSignal(ctx context.Context) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		log.Infof("received %v, terminating application gracefully...", sig)
	case <-ctx.Done():
		log.Warnf("service stopped, terminating application...")
	}
}

func logVersion() {
	log.Infow("version",
		"Version", txtracker.Version,
		"Git revision", txtracker.GitRev,
		"Git branch", txtracker.GitBranch,
		"Go version", runtime.Version(),
		"Built", txtracker.BuildDate,
		"OS/Arch", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	)
}

func startProfilingHttpServer(c metrics.Config) {
	const two = 2
	mux := http.NewServeMux()
	address := fmt.Sprintf("%s:%d", c.ProfilingHost, c.ProfilingPort)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		log.Errorf("failed to create tcp listener for profiling: %v", err)
		return
	}
	mux.HandleFunc(metrics.ProfilingIndexEndpoint, pprof.Index)
	mux.HandleFunc(metrics.ProfileEndpoint, pprof.Profile)
	mux.HandleFunc(metrics.ProfilingCmdEndpoint, pprof.Cmdline)
	mux.HandleFunc(metrics.ProfilingSymbolEndpoint, pprof.Symbol)
	mux.HandleFunc(metrics.ProfilingTraceEndpoint, pprof.Trace)
	profilingServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: two * time.Minute,
		ReadTimeout:       two * time.Minute,
	}
	log.Infof("profiling server listening on port %d", c.ProfilingPort)
	if err := profilingServer.Serve(lis); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Warnf("http server for profiling stopped")
			return
		}
		log.Errorf("closed http connection for profiling server: %v", err)
		return
	}
}

func startMetricsHttpServer(c metrics.Config) {
	const ten = 10
	mux := http.NewServeMux()
	address := fmt.Sprintf("%s:%d", c.Host, c.Port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		log.Errorf("failed to create tcp listener for metrics: %v", err)
		return
	}
	mux.Handle(metrics.Endpoint, promhttp.Handler())

	metricsServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: ten * time.Second,
		ReadTimeout:       ten * time.Second,
	}
	log.Infof("metrics server listening on port %d", c.Port)
	if err := metricsServer.Serve(lis); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Warnf("http server for metrics stopped")
			return
		}
		log.Errorf("closed http connection for metrics server: %v", err)
		return
	}
}
