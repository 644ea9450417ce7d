// Command routerd wires together the metadata cache, destination
// resolver and plugin config into a runnable process: it periodically
// refreshes the cluster topology and exposes both the resolved backend
// list and a Prometheus metrics endpoint. It does not itself splice
// client sockets — that per-connection proxy is a collaborator outside
// this repository's scope.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shiyingzhe/mysql-router/catalog/mysql"
	"github.com/shiyingzhe/mysql-router/config"
	zapadapter "github.com/shiyingzhe/mysql-router/contrib/logging/zap"
	vmmetrics "github.com/shiyingzhe/mysql-router/contrib/metrics/vm"
	"github.com/shiyingzhe/mysql-router/metadata"
	"github.com/shiyingzhe/mysql-router/router"
	"github.com/shiyingzhe/mysql-router/types"
)

func main() {
	var (
		destinations = flag.String("destinations", "mysql://cluster/replicaset/rs-1", "destination spec, per §4.3")
		mode         = flag.String("mode", "read-write", "access mode: read-write or read-only")
		bindPort     = flag.Uint("bind-port", 6446, "TCP port the dispatcher listens on")
		clusterName  = flag.String("cluster-name", "mycluster", "InnoDB cluster name to query")
		seedsFlag    = flag.String("seeds", "127.0.0.1:3306", "comma-separated metadata seed servers")
		user         = flag.String("user", "router", "monitoring account username")
		password     = flag.String("password", "", "monitoring account password")
		tickInterval = flag.Duration("tick-interval", 5*time.Second, "metadata refresh interval")
		metricsAddr  = flag.String("metrics-addr", ":8080", "address to serve /metrics on")
	)
	flag.Parse()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "routerd: failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger := zapadapter.New(zapLogger.Sugar())

	opts, err := config.New(*destinations, *mode, config.WithBindPort(uint16(*bindPort)))
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	seeds, err := parseSeeds(*seedsFlag)
	if err != nil {
		logger.Error("invalid seeds", "error", err)
		os.Exit(1)
	}

	metricsCollector := vmmetrics.New(vmmetrics.WithPrefix("routerd"))
	http.HandleFunc("/metrics", metricsCollector.Handler)
	go func() {
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			logger.Error("metrics server exited", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var resolver router.Resolver
	if opts.Destination.Kind == types.DestinationMetadataCache {
		fetcher := metadata.NewFetcher(mysql.Factory{},
			metadata.WithLogger(logger),
			metadata.WithMetrics(metricsCollector),
			metadata.WithTickInterval(*tickInterval),
			metadata.WithCredentials(*user, *password),
		)
		go fetcher.Run(ctx, seeds, *clusterName)
		resolver, err = router.NewResolver(opts.Destination, fetcher)
	} else {
		resolver, err = router.NewResolver(opts.Destination, nil)
	}
	if err != nil {
		logger.Error("failed to build resolver", "error", err)
		os.Exit(1)
	}

	logger.Info("routerd started",
		"destination_kind", opts.Destination.Kind,
		"mode", opts.Mode.String(),
		"bind_port", opts.BindPort,
	)

	replicaSet := opts.Destination.Target
	ticker := time.NewTicker(*tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("routerd shutting down")
			return
		case <-ticker.C:
			backends := resolver.Lookup(replicaSet, opts.Mode)
			logger.Debug("current backend list", "replicaset", replicaSet, "count", len(backends))
		}
	}
}

func parseSeeds(s string) ([]types.Address, error) {
	var out []types.Address
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		host, portStr, found := strings.Cut(part, ":")
		port := uint16(3306)
		if found {
			var p int
			if _, err := fmt.Sscanf(portStr, "%d", &p); err != nil || p < 1 || p > 65535 {
				return nil, fmt.Errorf("invalid seed port in %q", part)
			}
			port = uint16(p)
		}
		out = append(out, types.Address{Host: host, Port: port})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no seed servers configured")
	}
	return out, nil
}
