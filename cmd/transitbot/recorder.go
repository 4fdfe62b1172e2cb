package main

import (
	"context"
	"net/http"

	"github.com/dsetzer/codingame-fall-2024/internal/config"
	"github.com/dsetzer/codingame-fall-2024/internal/journal"
	"github.com/dsetzer/codingame-fall-2024/internal/logging"
	"github.com/dsetzer/codingame-fall-2024/internal/observe"
)

// turnRecorder fans each decided turn out to the optional journal, index
// and observer feed. Failures are logged; they never stop the turn loop.
type turnRecorder struct {
	log    logging.Logger
	writer *journal.Writer
	index  *journal.Index
	hub    *observe.Hub
	srv    *http.Server
	stop   context.CancelFunc
}

func newRecorder(ctx context.Context, cfg config.Config, runID string, log logging.Logger) (*turnRecorder, error) {
	r := &turnRecorder{log: log}

	if cfg.Journal.Dir != "" {
		r.writer = journal.NewWriter(cfg.Journal.Dir, runID)
		log.Info(ctx, "journaling turns", logging.String("path", r.writer.Path()))
	}
	if cfg.Journal.Index != "" {
		idx, err := journal.OpenIndex(cfg.Journal.Index)
		if err != nil {
			return nil, err
		}
		r.index = idx
	}
	if cfg.Observer.Addr != "" {
		hubCtx, stop := context.WithCancel(context.Background())
		r.hub = observe.NewHub(log)
		r.stop = stop
		go r.hub.Run(hubCtx)
		r.srv = serve(ctx, cfg.Observer.Addr, "/ws", r.hub, log)
	}
	return r, nil
}

func (r *turnRecorder) Record(ctx context.Context, rec journal.Record) {
	if r.writer != nil {
		if err := r.writer.Write(rec); err != nil {
			r.log.Warn(ctx, "journal write failed", logging.Int("turn", rec.Turn), logging.Err(err))
		}
	}
	if r.index != nil {
		if err := r.index.Insert(ctx, rec); err != nil {
			r.log.Warn(ctx, "index insert failed", logging.Int("turn", rec.Turn), logging.Err(err))
		}
	}
	if r.hub != nil {
		if err := r.hub.PublishTurn(rec); err != nil {
			r.log.Debug(ctx, "observer publish skipped", logging.Err(err))
		}
	}
}

func (r *turnRecorder) Close() {
	if r.srv != nil {
		shutdown(r.srv)
	}
	if r.stop != nil {
		r.stop()
	}
	if r.writer != nil {
		if err := r.writer.Close(); err != nil {
			r.log.Warn(context.Background(), "journal close failed", logging.Err(err))
		}
	}
	if r.index != nil {
		_ = r.index.Close()
	}
}
