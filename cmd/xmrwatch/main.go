package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/hedisam/monerorpc"
	"github.com/hedisam/monerorpc/chainwatch"
)

type Options struct {
	MetricsAddr       string
	DaemonURL         string
	Username          string
	Password          string
	PollInterval      time.Duration
	ConfirmationDepth uint
	Verbose           bool
}

func main() {
	var opts Options
	flag.StringVar(&opts.MetricsAddr, "metrics-addr", "localhost:9090", "Addr to serve the prometheus metrics on")
	flag.StringVar(&opts.DaemonURL, "daemon-url", "http://localhost:18081", "The monerod rpc server to watch")
	flag.StringVar(&opts.Username, "rpc-login-user", "", "Username for the daemon rpc login, if any")
	flag.StringVar(&opts.Password, "rpc-login-password", "", "Password for the daemon rpc login, if any")
	flag.DurationVar(&opts.PollInterval, "poll-interval", time.Second*30, "Daemon polling interval. Monero targets a block every two minutes")
	flag.UintVar(&opts.ConfirmationDepth, "confirmation-depth", 10, "Number of blocks a header must be buried under before it is reported")
	flag.BoolVar(&opts.Verbose, "v", false, "Verbose output")
	flag.Parse()

	logger := logrus.New()
	ensureValidOpts(logger, opts)

	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := monerorpc.New(logger, monerorpc.Config{
		URL:      opts.DaemonURL,
		Username: opts.Username,
		Password: opts.Password,
	})
	if err != nil {
		logger.WithError(err).Fatal("Invalid daemon configuration")
	}

	headers := chainwatch.Stream(ctx, logger, client.Daemon(), opts.PollInterval)
	confirmed := chainwatch.ConfirmationFilter(ctx, logger, headers, opts.ConfirmationDepth)
	go logConfirmed(logger, confirmed)

	mux := http.NewServeMux()
	// the client keeps its collectors in a private registry
	mux.Handle("/metrics", promhttp.HandlerFor(monerorpc.MetricsRegistry(), promhttp.HandlerOpts{}))

	mustListenAndServe(ctx, logger, opts.MetricsAddr, mux)
}

func logConfirmed(logger *logrus.Logger, confirmed <-chan *monerorpc.BlockHeader) {
	for header := range confirmed {
		logger.WithFields(logrus.Fields{
			"height":    header.Height,
			"hash":      header.Hash,
			"num_txes":  header.NumTxes,
			"reward":    header.Reward,
			"timestamp": header.Timestamp,
		}).Info("Block confirmed")
	}
}

func mustListenAndServe(ctx context.Context, logger *logrus.Logger, addr string, handler http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", addr).Info("Serving metrics...")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Metrics server failed with error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	logger.Info("Shutting down metrics server...")
	err := srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.WithError(err).Error("Failed to shutdown metrics server gracefully")
	}
}

func ensureValidOpts(logger *logrus.Logger, opts Options) {
	if opts.MetricsAddr == "" {
		logger.Error("--metrics-addr is required")
		flag.Usage()
		os.Exit(1)
	}
	if opts.DaemonURL == "" {
		logger.Error("--daemon-url is required")
		flag.Usage()
		os.Exit(1)
	}
	if opts.PollInterval < time.Second {
		logger.Error("--poll-interval is too small, it cannot be less than a second")
		flag.Usage()
		os.Exit(1)
	}
}
