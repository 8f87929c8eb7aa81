package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/beanscript/internal/compile"
	"github.com/aledsdavies/beanscript/internal/driver"
	"github.com/aledsdavies/beanscript/internal/metrics"
	"github.com/aledsdavies/beanscript/internal/runtime"
)

func main() {
	var (
		debug       bool
		noColor     bool
		dryRun      bool
		metricsAddr string
	)

	rootCmd := &cobra.Command{
		Use:           "beanscript [file.bs]",
		Short:         "Run a BeanScript keystroke schedule",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			exitCode, err := run(cmd.Context(), path, debug, noColor, dryRun, metricsAddr)
			if err != nil {
				FormatError(os.Stderr, err, !noColor)
			}
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug-level structured logging")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored diagnostic output")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compile and print the execution plan without delivering keystrokes")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090); disabled if empty")

	ctx, cancel := newCancellableContext()
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCancellableContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

// run compiles path (or a .bs file from the working directory) and,
// unless dryRun, executes it. Exit codes follow spec.md §6: 0 success, 1
// parse/semantic error, 2 driver unavailable.
func run(ctx context.Context, path string, debug, noColor, dryRun bool, metricsAddr string) (int, error) {
	logger := newLogger(debug)

	if dsn := os.Getenv("BEANSCRIPT_SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			logger.Warn("sentry init failed", "err", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			defer sentry.Recover()
		}
	}

	resolved, err := resolveScriptPath(path)
	if err != nil {
		return 1, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return 1, fmt.Errorf("opening %s: %w", resolved, err)
	}
	defer func() { _ = f.Close() }()

	program, err := compile.Source(f)
	if err != nil {
		return 1, err
	}

	if dryRun {
		DisplayPlan(os.Stdout, program, !noColor)
		return 0, nil
	}

	var collectors *metrics.Collectors
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collectors = metrics.New(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "err", err)
			}
		}()
		defer srv.Close()
	}

	sink := &driver.Logging{Next: driver.Noop{}, Logger: logger}
	rt := runtime.New(program.Table, sink, realNow, runtime.WithLogger(logger), runtime.WithMetrics(collectors))

	if err := rt.Drain(program.ExecutionList); err != nil {
		return 1, err
	}
	if err := rt.Run(ctx); err != nil && ctx.Err() == nil {
		return 2, err
	}
	return 0, nil
}

func realNow() int64 {
	return time.Now().UnixMilli()
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolveScriptPath returns path unchanged if non-empty; otherwise it picks
// a .bs file in the working directory (the first in lexical order when
// there are several), per spec.md §6.
func resolveScriptPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	matches, err := filepath.Glob("*.bs")
	if err != nil {
		return "", fmt.Errorf("scanning working directory: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no script path given and no .bs file found in the working directory")
	}
	return matches[0], nil
}
