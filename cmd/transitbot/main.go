// Command transitbot plays the transit-network game: it reads one turn at a
// time from stdin and prints that turn's actions as a single line on stdout.
// Logs and trace output go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dsetzer/codingame-fall-2024/engine"
	"github.com/dsetzer/codingame-fall-2024/internal/config"
	"github.com/dsetzer/codingame-fall-2024/internal/journal"
	"github.com/dsetzer/codingame-fall-2024/internal/logging"
	"github.com/dsetzer/codingame-fall-2024/internal/observability"
	"github.com/dsetzer/codingame-fall-2024/protocol"
	"github.com/dsetzer/codingame-fall-2024/tsp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("transitbot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a YAML config file (defaults apply when empty)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	runID := journal.NewRunID()
	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: stderr}).
		With(logging.String("run_id", runID))

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Exporter:    cfg.Tracing.Exporter,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
		Writer:      stderr,
	}, log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		return 1
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := observability.NewDecisionCollector(reg)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Err(err))
		return 1
	}
	if srv := serve(ctx, cfg.Metrics.Addr, "/metrics", collector.Handler(), log); srv != nil {
		defer shutdown(srv)
	}

	ecfg, err := engineConfig(cfg)
	if err != nil {
		log.Error(ctx, "invalid engine configuration", logging.Err(err))
		return 1
	}
	eng, err := engine.New(ecfg, engine.WithLogger(log), engine.WithRecorder(collector))
	if err != nil {
		log.Error(ctx, "failed to build engine", logging.Err(err))
		return 1
	}

	rec, err := newRecorder(ctx, cfg, runID, log)
	if err != nil {
		log.Error(ctx, "failed to open journal", logging.Err(err))
		return 1
	}
	defer rec.Close()

	log.Info(ctx, "transitbot started", logging.String("budget_mode", ecfg.BudgetMode.String()))

	session := protocol.NewSession(stdin)
	for {
		w, err := session.ReadTurn()
		if errors.Is(err, io.EOF) {
			log.Info(ctx, "input closed", logging.Int("turns", session.Turn()))
			return 0
		}
		if err != nil {
			log.Error(ctx, "failed to read turn", logging.Err(err))
			return 1
		}

		turnCtx, cancel := turnContext(ctx, cfg.Limits.TurnTimeLimit)
		d := eng.Decide(turnCtx, w)
		cancel()

		if _, err := fmt.Fprintln(stdout, d.Line()); err != nil {
			log.Error(ctx, "failed to write actions", logging.Err(err))
			return 1
		}
		tr := journal.NewRecord(runID, session.Turn(), d)
		log.Info(ctx, tr.Status())
		rec.Record(ctx, tr)

		if ctx.Err() != nil {
			log.Info(ctx, "interrupted", logging.Int("turns", session.Turn()))
			return 0
		}
	}
}

func engineConfig(cfg config.Config) (engine.Config, error) {
	mode, err := engine.ParseBudgetMode(cfg.Engine.BudgetMode)
	if err != nil {
		return engine.Config{}, err
	}
	two := tsp.DefaultOptions()
	two.MaxPasses = cfg.Limits.TwoOptMaxPasses
	two.TimeLimit = cfg.Limits.TwoOptTimeLimit
	return engine.Config{
		Rules:             cfg.NetworkRules(),
		BudgetMode:        mode,
		MaxLinkCandidates: cfg.Limits.MaxLinkCandidates,
		MaxLinkPairs:      cfg.Limits.MaxLinkPairs,
		TwoOpt:            two,
	}, nil
}

func turnContext(ctx context.Context, limit time.Duration) (context.Context, context.CancelFunc) {
	if limit <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, limit)
}

// serve starts an HTTP server for h at addr; it returns nil when addr is
// empty.
func serve(ctx context.Context, addr, pattern string, h http.Handler, log logging.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(pattern, h)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(ctx, "http server exited", logging.String("addr", addr), logging.Err(err))
		}
	}()

	log.Info(ctx, "serving", logging.String("addr", addr), logging.String("path", pattern))
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
