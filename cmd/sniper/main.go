package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"solana-sniper/internal/chaindata"
	"solana-sniper/internal/config"
	"solana-sniper/internal/dex"
	"solana-sniper/internal/discovery"
	"solana-sniper/internal/engine"
	"solana-sniper/internal/execution"
	"solana-sniper/internal/logging"
	"solana-sniper/internal/observability"
	"solana-sniper/internal/risk"
	"solana-sniper/internal/solana"
	"solana-sniper/internal/storage"
	clickstore "solana-sniper/internal/storage/clickhouse"
	"solana-sniper/internal/storage/memory"
	"solana-sniper/internal/storage/migrations"
	pgstore "solana-sniper/internal/storage/postgres"
	"solana-sniper/internal/strategy"
)

func main() {
	network := flag.String("network", "mainnet", "Solana cluster: mainnet or devnet")
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint (overrides cluster default)")
	wsEndpoint := flag.String("ws-endpoint", "", "Solana WebSocket endpoint (overrides cluster default)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for the snapshot archive")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	monitorInterval := flag.Duration("monitor-interval", 0, "Open position re-evaluation interval")
	dedupSize := flag.Int("dedup-size", 0, "Discovery seen-mint cache size")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	logLevel := flag.String("log-level", "", "Log level: trace, debug, info, warn, error")
	logFormat := flag.String("log-format", "", "Log format: json or console")
	envFile := flag.String("env-file", ".env", "Env file to load before reading the environment")

	flag.Parse()

	// A missing env file is fine; explicit flags and real env still apply.
	_ = godotenv.Load(*envFile)

	cfg := config.Default(config.Network(*network)).FromEnv()
	if *rpcEndpoint != "" {
		cfg.RPCURL = *rpcEndpoint
	}
	if *wsEndpoint != "" {
		cfg.WSURL = *wsEndpoint
	}
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.ClickhouseDSN = *clickhouseDSN
	}
	cfg.MetricsAddr = *metricsAddr
	if *monitorInterval > 0 {
		cfg.MonitorInterval = *monitorInterval
	}
	if *dedupSize > 0 {
		cfg.DedupSize = *dedupSize
	}
	if *useMemory {
		cfg.PostgresDSN = ""
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}

	logger := logging.NewLogger(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	metrics := observability.NewMetrics("", prometheus.DefaultRegisterer)

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
		cancel()

		select {
		case sig := <-sigCh:
			logger.Error().Str("signal", sig.String()).Msg("second signal, forcing immediate shutdown")
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Error().Msg("graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err := run(ctx, cfg, logger, metrics)

	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("sniper exited with error")
	}

	logger.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, metrics *observability.Metrics) error {
	rpc := solana.NewHTTPClient(cfg.RPCURL,
		solana.WithRateLimit(10, 20),
		solana.WithCallObserver(func(method string, elapsed time.Duration) {
			metrics.RPCCallLatency.WithLabelValues(method).Observe(elapsed.Seconds())
		}),
	)

	wsConfig := solana.DefaultWSConfig()
	wsConfig.OnReconnect = metrics.WSReconnects.Inc

	ws, err := solana.NewWSClient(ctx, cfg.WSURL, &wsConfig, logger)
	if err != nil {
		return fmt.Errorf("create websocket client: %w", err)
	}
	defer ws.Close()

	pools := dex.NewRaydiumPoolProvider(rpc, logger)
	provider := chaindata.NewRPCProvider(rpc, pools, logger,
		chaindata.WithLockInspector(chaindata.NewLPBurnInspector(rpc)))

	var tokenStore storage.TokenStore = memory.NewTokenStore()
	var signalStore storage.SignalStore = memory.NewSignalStore()
	var tradeStore storage.TradeStore = memory.NewTradeStore()

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		tokenStore = pgstore.NewTokenStore(pool)
		signalStore = pgstore.NewSignalStore(pool)
		tradeStore = pgstore.NewTradeStore(pool)
	}

	var archiver storage.SnapshotArchiver
	if cfg.ClickhouseDSN != "" {
		conn, err := clickstore.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return fmt.Errorf("connect to clickhouse: %w", err)
		}
		defer conn.Close()

		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			return fmt.Errorf("run clickhouse migrations: %w", err)
		}

		archiver = clickstore.NewSnapshotArchive(conn)
	}

	scanner, err := discovery.NewScanner(ws, provider, cfg.DedupSize, logger,
		discovery.WithResolveFailureHook(metrics.ResolveFailures.Inc))
	if err != nil {
		return fmt.Errorf("create scanner: %w", err)
	}

	eng := engine.New(engine.Options{
		Provider:        provider,
		Risk:            risk.NewAnalyzer(),
		Strategy:        strategy.New(strategy.DefaultConfig()),
		Executor:        execution.NewPaperExecutor(pools, logger),
		TokenStore:      tokenStore,
		SignalStore:     signalStore,
		TradeStore:      tradeStore,
		Archiver:        archiver,
		Metrics:         metrics,
		MonitorInterval: cfg.MonitorInterval,
		Logger:          logger,
	})

	if err := scanner.Start(ctx); err != nil {
		return fmt.Errorf("start scanner: %w", err)
	}
	defer scanner.Stop()

	logger.Info().
		Str("network", string(cfg.Network)).
		Str("rpc", cfg.RPCURL).
		Msg("sniper running")

	return eng.Run(ctx, scanner.Tokens())
}
