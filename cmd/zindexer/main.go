// Command zindexer is the indexer's process entry point: it builds an
// IndexerConfig from the environment, probes the node, and runs until a
// signal or a fatal error takes it down. Deployments with richer
// configuration needs are expected to front this with their own loader
// rather than this binary growing a flag surface.
package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"zindexer/internal/config"
	"zindexer/internal/indexer"
	"zindexer/internal/metrics"
)

const banner = `
 ________  ___  ________   ________  _______   ___    ___  _______   ________
|\_____  \|\  \|\   ___  \|\   ___ \|\  ___ \ |\  \  /  /|\  ___ \ |\   __  \
 \|___/  /\ \  \ \  \\ \  \ \  \_|\ \ \   __/|\ \  \/  / | \   __/|\ \  \|\  \
     /  / /\ \  \ \  \\ \  \ \  \ \\ \ \  \_|/_\ \    / / \ \  \_|/_\ \   _  _\
    /  /_/__\ \  \ \  \\ \  \ \  \_\\ \ \  \_|\ \/     \/   \ \  \_|\ \ \  \\  \|
   |\________\ \__\ \__\\ \__\ \_______\ \_______\  /\  \    \ \_______\ \__\\ _\
    \|_______|\|__|\|__| \|__|\|_______|\|_______| /  \/__\    \|_______|\|__|\|__|

 zindexer -- wallet-protocol gateway, listening for compact transaction streamer requests
`

func main() {
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stdout)

	cfg, err := loadConfigFromEnv()
	if err != nil {
		logger.WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	ctx := context.Background()
	idx, err := indexer.New(ctx, cfg, nil, logger)
	if err != nil {
		logger.WithError(err).Error("zindexer: fatal startup error")
		os.Exit(1)
	}

	logger.Info(banner)

	if err := idx.Run(ctx); err != nil {
		logger.WithError(err).Error("zindexer: fatal runtime error")
		os.Exit(1)
	}
	os.Exit(0)
}

// serveMetrics exposes the Prometheus registry on its own HTTP listener,
// separate from the gRPC listener the worker pool bridges connections
// into. A failure here is logged but not fatal: metrics are not part of
// the wallet request path.
func serveMetrics(addr string, logger *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Warn("metrics listener exited")
	}
}

// loadConfigFromEnv reads the configuration surface from environment
// variables. A production deployment would replace this with its own
// flag/file-backed loader that constructs the same config.IndexerConfig
// and calls Validate.
func loadConfigFromEnv() (*config.IndexerConfig, error) {
	cfg := &config.IndexerConfig{
		NodeHost:           getEnvDefault("ZINDEXER_NODE_HOST", "127.0.0.1"),
		TCPActive:          getEnvBool("ZINDEXER_TCP_ACTIVE", true),
		MaxQueueSize:       getEnvInt("ZINDEXER_MAX_QUEUE_SIZE", 128),
		IdleWorkerPoolSize: getEnvInt("ZINDEXER_IDLE_WORKER_POOL_SIZE", 2),
		MaxWorkerPoolSize:  getEnvInt("ZINDEXER_MAX_WORKER_POOL_SIZE", 16),
		MetricsAddr:        os.Getenv("ZINDEXER_METRICS_ADDR"),
	}

	nodePort := getEnvInt("ZINDEXER_NODE_PORT", 8232)
	cfg.NodePort = uint16(nodePort)

	if lp := os.Getenv("ZINDEXER_LISTEN_PORT"); lp != "" {
		v, err := strconv.ParseUint(lp, 10, 16)
		if err != nil {
			return nil, err
		}
		port := uint16(v)
		cfg.ListenPort = &port
	}

	if nu, np := os.Getenv("ZINDEXER_NODE_USER"), os.Getenv("ZINDEXER_NODE_PASSWORD"); nu != "" || np != "" {
		cfg.NodeCredentials = &config.NodeCredentials{User: nu, Password: np}
	}

	if ncp := os.Getenv("ZINDEXER_NYM_CONF_PATH"); ncp != "" {
		cfg.NymConfPath = &ncp
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
