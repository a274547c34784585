// Command knapsackd serves the knapsack solvers over HTTP.
//
// Configuration comes from defaults, an optional --config YAML file,
// KNAPSACK_* environment variables and flags, in increasing precedence.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/knapsack/config"
	"github.com/katalvlaran/knapsack/logging"
	"github.com/katalvlaran/knapsack/server"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "knapsackd:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	d := config.Default()
	fs := pflag.NewFlagSet("knapsackd", pflag.ContinueOnError)
	fs.String("addr", d.Server.Addr, "listen address")
	fs.String(config.KeyAlgo, d.Algo, "default solver: branch-and-bound or dynamic")
	fs.Duration(config.KeyTimeLimit, d.TimeLimit, "default wall-clock budget per request")
	fs.Int(config.KeyNodeLimit, d.NodeLimit, "default branch-and-bound node budget")
	fs.Int("cache-size", d.Server.CacheSize, "response cache entries, 0 disables the cache")
	fs.Duration("cache-ttl", d.Server.CacheTTL, "response cache entry lifetime")
	fs.Int64("max-body-bytes", d.Server.MaxBodyBytes, "largest accepted request body")
	fs.String(config.KeyLogLevel, d.LogLevel, "log level: error, warn, info, debug or trace")
	fs.Bool(config.KeyDevelopment, d.Development, "human-readable development logging")
	cfgPath := fs.String("config", "", "optional YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath, fs)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}
	log = log.WithName("knapsackd")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := server.New(cfg, log, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting", "algo", cfg.Algo, "cacheSize", cfg.Server.CacheSize, "timeLimit", cfg.TimeLimit)

	return srv.Run(ctx)
}
