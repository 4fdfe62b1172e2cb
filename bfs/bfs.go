package bfs

import (
	"context"
	"fmt"

	"github.com/dsetzer/codingame-fall-2024/network"
)

// queueItem pairs a station with its BFS depth.
type queueItem struct {
	station int
	depth   int
}

// walker encapsulates mutable BFS state.
type walker struct {
	snap  *network.Snapshot
	opts  Options
	ctx   context.Context
	queue []queueItem
	res   *Result
}

// Walk runs breadth-first search over s starting from station index start.
// Links are followed in both directions, teleports from entrance to exit.
// Returns ErrSnapshotNil or ErrStartNotFound for invalid input,
// ErrOptionViolation for bad options, the context error on cancellation,
// or any OnVisit error.
func Walk(s *network.Snapshot, start int, opts ...Option) (*Result, error) {
	if s == nil {
		return nil, ErrSnapshotNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := s.Validate(start); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartNotFound, err)
	}

	n := len(s.Stations)
	w := &walker{
		snap:  s,
		opts:  o,
		ctx:   o.Ctx,
		queue: make([]queueItem, 0, n),
		res: &Result{
			Start: start,
			Order: make([]int, 0, n),
			Depth: make([]int, n),
		},
	}
	for i := 0; i < n; i++ {
		w.res.Depth[i] = -1
	}

	w.enqueue(start, 0)

	return w.res, w.loop()
}

func (w *walker) enqueue(station, d int) {
	w.res.Depth[station] = d
	w.queue = append(w.queue, queueItem{station: station, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]

		w.res.Order = append(w.res.Order, item.station)
		if err := w.opts.OnVisit(item.station, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at station %d: %w", item.station, err)
		}
		w.enqueueNeighbors(item)
	}
	return nil
}

// enqueueNeighbors enqueues each unseen neighbor in arc order.
func (w *walker) enqueueNeighbors(item queueItem) {
	for _, arc := range w.snap.Arcs(item.station) {
		if w.res.Depth[arc.To] < 0 {
			w.enqueue(arc.To, item.depth+1)
		}
	}
}
