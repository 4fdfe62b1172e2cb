// Package engine runs one turn of the transit controller: it indexes the
// world, derives diagnostics, and runs the planning stages in fixed order
// (links, teleports, fleet, routes), concatenating their actions.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dsetzer/codingame-fall-2024/action"
	"github.com/dsetzer/codingame-fall-2024/bfs"
	"github.com/dsetzer/codingame-fall-2024/candidate"
	"github.com/dsetzer/codingame-fall-2024/internal/logging"
	"github.com/dsetzer/codingame-fall-2024/network"
	"github.com/dsetzer/codingame-fall-2024/planner"
	"github.com/dsetzer/codingame-fall-2024/route"
)

const tracerName = "github.com/dsetzer/codingame-fall-2024/engine"

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Default: logging.Noop().
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRecorder sets the metrics sink. Default: discard.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.rec = r
		}
	}
}

// WithTracer sets the tracer. Default: the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// Engine decides turns. It holds no per-turn state and may be reused.
type Engine struct {
	cfg    Config
	log    logging.Logger
	rec    Recorder
	tracer trace.Tracer
}

// New validates cfg and builds an Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	if cfg.MaxLinkCandidates < 0 {
		return nil, fmt.Errorf("%w: MaxLinkCandidates %d", ErrBadConfig, cfg.MaxLinkCandidates)
	}
	if cfg.MaxLinkPairs < 0 {
		return nil, fmt.Errorf("%w: MaxLinkPairs %d", ErrBadConfig, cfg.MaxLinkPairs)
	}
	if cfg.TwoOpt.Eps < 0 || cfg.TwoOpt.MaxPasses < 0 || cfg.TwoOpt.TimeLimit < 0 {
		return nil, fmt.Errorf("%w: 2-opt options %+v", ErrBadConfig, cfg.TwoOpt)
	}

	e := &Engine{
		cfg:    cfg,
		log:    logging.Noop(),
		rec:    noopRecorder{},
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Decide runs one turn over w. It never fails: bad references become
// Decision.Issues, unreachable routes become degenerate routes, and an
// ended ctx leaves the remaining vehicles untouched with Truncated set.
func (e *Engine) Decide(ctx context.Context, w network.World) Decision {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "engine.decide", trace.WithAttributes(
		attribute.Int("budget", w.Budget),
		attribute.String("budget_mode", e.cfg.BudgetMode.String()),
	))
	defer span.End()

	s := network.Build(w, e.cfg.Rules)
	d := Decision{
		Budget: s.Budget,
		Counts: Counts{
			Stations:  len(s.Stations),
			Links:     len(s.Links),
			Teleports: len(s.Teleports),
			Vehicles:  len(s.Vehicles),
		},
		Issues: s.Issues,
	}
	e.diagnose(ctx, s, &d)

	var shared *planner.Ledger
	ledger := func() *planner.Ledger {
		if e.cfg.BudgetMode == BudgetShared {
			if shared == nil {
				shared = planner.NewLedger(s.Budget)
			}
			return shared
		}
		return planner.NewLedger(s.Budget)
	}

	e.runStage(ctx, &d, StageLinks, ledger(), func(l *planner.Ledger) []action.Action {
		cands, err := candidate.Links(s,
			candidate.WithContext(ctx),
			candidate.WithMaxPairs(e.cfg.MaxLinkPairs),
			candidate.WithMaxCandidates(e.cfg.MaxLinkCandidates),
		)
		switch {
		case errors.Is(err, candidate.ErrOptionViolation):
			e.log.Error(ctx, "link candidates", logging.Err(err))
			return nil
		case err != nil:
			e.log.Warn(ctx, "link enumeration cut short", logging.Err(err), logging.Int("candidates", len(cands)))
		}
		return planner.Links(s, cands, l)
	})
	e.runStage(ctx, &d, StageTeleports, ledger(), func(l *planner.Ledger) []action.Action {
		return planner.Teleports(s, candidate.Teleports(s), l)
	})
	fleet := e.runStage(ctx, &d, StageFleet, ledger(), func(l *planner.Ledger) []action.Action {
		return planner.Fleet(s, l)
	})

	destroyed := make(map[int]bool)
	for _, a := range fleet {
		if a.Kind == action.KindDestroy {
			destroyed[a.Vehicle] = true
		}
	}
	e.runStage(ctx, &d, StageRoutes, nil, func(*planner.Ledger) []action.Action {
		plan := route.Optimize(ctx, s, destroyed, route.Options{TwoOpt: e.cfg.TwoOpt})
		d.Routes = plan.Outcomes
		d.Truncated = plan.Truncated
		return plan.Actions
	})

	d.Duration = time.Since(start)
	e.record(d)

	span.SetAttributes(
		attribute.Int("actions", len(d.Actions)),
		attribute.Int("committed", d.Committed()),
		attribute.Bool("truncated", d.Truncated),
	)
	e.log.Debug(ctx, "turn decided",
		logging.Int("budget", d.Budget),
		logging.Int("actions", len(d.Actions)),
		logging.Int("committed", d.Committed()),
		logging.Bool("truncated", d.Truncated),
		logging.String("duration", d.Duration.String()),
	)
	if d.Truncated {
		e.log.Warn(ctx, "route optimisation truncated by deadline")
	}

	return d
}

// runStage executes one planner inside its own span and appends its actions
// and report to d. A nil ledger marks a stage that spends nothing.
func (e *Engine) runStage(ctx context.Context, d *Decision, stage Stage, l *planner.Ledger,
	fn func(*planner.Ledger) []action.Action) []action.Action {
	_, span := e.tracer.Start(ctx, "engine.stage."+string(stage))
	defer span.End()

	rep := StageReport{Stage: stage}
	var spent0, refunded0 int
	if l != nil {
		rep.Budget = l.Remaining()
		spent0, refunded0 = l.Spent(), l.Refunded()
	}

	acts := fn(l)

	if l != nil {
		rep.Committed = (l.Spent() - spent0) - (l.Refunded() - refunded0)
	}
	rep.Actions = len(acts)
	d.Actions = append(d.Actions, acts...)
	d.Stages = append(d.Stages, rep)

	span.SetAttributes(
		attribute.Int("budget", rep.Budget),
		attribute.Int("committed", rep.Committed),
		attribute.Int("actions", rep.Actions),
	)
	e.log.Debug(ctx, "stage planned",
		logging.String("stage", string(stage)),
		logging.Int("budget", rep.Budget),
		logging.Int("committed", rep.Committed),
		logging.Int("actions", rep.Actions),
	)
	return acts
}

// diagnose fills the demand report and unreachable demand edges, and logs
// snapshot issues. Nothing here changes what the planners do.
func (e *Engine) diagnose(ctx context.Context, s *network.Snapshot, d *Decision) {
	for _, is := range s.Issues {
		e.log.Warn(ctx, "snapshot issue", logging.String("kind", string(is.Kind)), logging.String("detail", is.Detail))
	}

	d.Demand = network.AnalyzeDemand(s)
	for _, td := range d.Demand.Flagged() {
		e.log.Debug(ctx, "demand imbalance",
			logging.Int("type", td.Type),
			logging.Int("pending", td.Pending),
			logging.Int("delivery_stations", td.DeliveryCount),
			logging.Bool("unserved", td.Unserved),
			logging.Bool("bottleneck", td.Bottleneck),
		)
	}

	unreachable, err := unreachableEdges(ctx, s)
	if err != nil {
		e.log.Warn(ctx, "reachability check abandoned", logging.Err(err))
	}
	d.Unreachable = unreachable
	if len(d.Unreachable) > 0 {
		e.log.Debug(ctx, "demand edges without a path", logging.Int("count", len(d.Unreachable)))
	}
}

// errTargetsFound ends a walk once every delivery station of interest has
// been visited.
var errTargetsFound = errors.New("engine: targets found")

// unreachableEdges walks once from every supply station over the arcs the
// route search uses (links both ways, teleports entrance to exit) and
// returns the demand edges whose delivery station was not reached. It stops
// at the first walk the context cuts short and returns what it has so far
// with the context error.
func unreachableEdges(ctx context.Context, s *network.Snapshot) ([]Unreachable, error) {
	edges := planner.DemandEdges(s)
	var out []Unreachable

	// DemandEdges groups edges by supply station.
	for lo := 0; lo < len(edges); {
		hi := lo
		pending := make(map[int]bool)
		for hi < len(edges) && edges[hi].Supply == edges[lo].Supply {
			pending[edges[hi].Delivery] = true
			hi++
		}

		res, err := bfs.Walk(s, edges[lo].Supply,
			bfs.WithContext(ctx),
			bfs.WithOnVisit(func(station, _ int) error {
				delete(pending, station)
				if len(pending) == 0 {
					return errTargetsFound
				}
				return nil
			}),
		)
		if err != nil && !errors.Is(err, errTargetsFound) {
			return out, err
		}

		for _, edge := range edges[lo:hi] {
			if res.Reached(edge.Delivery) {
				continue
			}
			out = append(out, Unreachable{
				Supply:   s.Stations[edge.Supply].ID,
				Delivery: s.Stations[edge.Delivery].ID,
				Type:     edge.Type,
			})
		}
		lo = hi
	}
	return out, nil
}

func (e *Engine) record(d Decision) {
	e.rec.ObserveTurn(d.Duration)
	e.rec.SetEntityCounts(d.Counts.Stations, d.Counts.Links, d.Counts.Teleports, d.Counts.Vehicles)
	for kind, n := range action.CountByKind(d.Actions) {
		e.rec.AddActions(string(kind), n)
	}
	for _, st := range d.Stages {
		e.rec.AddCommitted(string(st.Stage), st.Committed)
	}
	issues := make(map[network.IssueKind]int)
	for _, is := range d.Issues {
		issues[is.Kind]++
	}
	for kind, n := range issues {
		e.rec.AddIssues(string(kind), n)
	}
}
