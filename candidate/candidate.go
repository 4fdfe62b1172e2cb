// Package candidate enumerates not-yet-built construction opportunities:
// new links ranked by ascending length and teleport pairs ranked by
// descending length.
package candidate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dsetzer/codingame-fall-2024/geom"
	"github.com/dsetzer/codingame-fall-2024/network"
)

// ErrOptionViolation is returned when an invalid Option is supplied.
var ErrOptionViolation = errors.New("candidate: invalid option supplied")

// Pair is an order-independent pairing of two stations (arena indices).
type Pair struct {
	A, B     int
	Distance float64
}

// Key returns the pair as (min, max), identical for (A,B) and (B,A).
func (p Pair) Key() [2]int {
	if p.A > p.B {
		return [2]int{p.B, p.A}
	}
	return [2]int{p.A, p.B}
}

// Equal reports whether p and q join the same two stations.
func (p Pair) Equal(q Pair) bool { return p.Key() == q.Key() }

// Option configures link enumeration.
type Option func(*Options)

// Options bounds link enumeration.
type Options struct {
	// Ctx is checked once per station row; when it ends, enumeration stops.
	Ctx context.Context

	// MaxPairs caps how many station pairs are examined; 0 means no cap.
	// Every examined pair pays for a crossing test against existing links.
	MaxPairs int

	// MaxCandidates caps the returned slice after sorting; 0 means no cap.
	MaxCandidates int

	err error
}

// WithContext stops enumeration when ctx ends. Links then returns the
// candidates found so far together with ctx.Err().
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx == nil {
			o.err = fmt.Errorf("%w: nil context", ErrOptionViolation)
			return
		}
		o.Ctx = ctx
	}
}

// WithMaxPairs stops enumeration after n station pairs have been examined.
// n < 0 is an ErrOptionViolation; n == 0 disables the cap.
func WithMaxPairs(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxPairs cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxPairs = n
	}
}

// WithMaxCandidates keeps only the n shortest candidates. n < 0 is an
// ErrOptionViolation; n == 0 disables the cap.
func WithMaxCandidates(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxCandidates cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxCandidates = n
	}
}

// Segment is a straight link between two stations, by arena index.
type Segment struct {
	A, B int
}

// Crosses reports whether the straight segment between stations a and b
// conflicts with seg. Segments sharing an endpoint station only conflict
// when they overlap collinearly; touching at the shared station is allowed.
func Crosses(s *network.Snapshot, a, b int, seg Segment) bool {
	p1, q1 := s.Stations[a].Pos, s.Stations[b].Pos
	p2, q2 := s.Stations[seg.A].Pos, s.Stations[seg.B].Pos

	shared := -1
	other, otherSeg := -1, -1
	switch {
	case a == seg.A:
		shared, other, otherSeg = a, b, seg.B
	case a == seg.B:
		shared, other, otherSeg = a, b, seg.A
	case b == seg.A:
		shared, other, otherSeg = b, a, seg.B
	case b == seg.B:
		shared, other, otherSeg = b, a, seg.A
	}
	if shared < 0 {
		return geom.SegmentsIntersect(p1, q1, p2, q2)
	}
	if other == otherSeg {
		return true
	}

	o := s.Stations[shared].Pos
	x, y := s.Stations[other].Pos, s.Stations[otherSeg].Pos
	if geom.Orient(o, x, y) != geom.Collinear {
		return false
	}
	// Collinear through o: overlap unless x and y lie on opposite sides.
	return geom.OnSegment(o, x, y) || geom.OnSegment(o, y, x)
}

// Links returns every unordered station pair that could receive a new link:
// both endpoints below Rules.MaxLinksPerStation, no existing link between
// them, and no conflict with an existing link segment. The result is sorted
// by ascending distance; ties keep enumeration order (i ascending, then j).
//
// WithMaxPairs and WithContext bound the enumeration itself; the pairs
// examined before the bound are still sorted and returned. A context stop
// also returns the context error.
//
// Complexity: O(min(S², MaxPairs)·L) time, O(S²) memory.
func Links(s *network.Snapshot, opts ...Option) ([]Pair, error) {
	o := Options{Ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	existing := make([]Segment, len(s.Links))
	for k, l := range s.Links {
		existing[k] = Segment{A: l.A, B: l.B}
	}

	limit := s.Rules.MaxLinksPerStation
	var (
		out      []Pair
		examined int
		ctxErr   error
	)
rows:
	for i := range s.Stations {
		if ctxErr = o.Ctx.Err(); ctxErr != nil {
			break
		}
		if s.Degree(i) >= limit {
			continue
		}
		for j := i + 1; j < len(s.Stations); j++ {
			if s.Degree(j) >= limit {
				continue
			}
			if o.MaxPairs > 0 && examined >= o.MaxPairs {
				break rows
			}
			examined++
			if _, ok := s.LinkBetween(i, j); ok {
				continue
			}
			if crossesAny(s, i, j, existing) {
				continue
			}
			out = append(out, Pair{A: i, B: j, Distance: s.Distance(i, j)})
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Distance < out[b].Distance })
	if o.MaxCandidates > 0 && len(out) > o.MaxCandidates {
		out = out[:o.MaxCandidates]
	}

	return out, ctxErr
}

func crossesAny(s *network.Snapshot, a, b int, segs []Segment) bool {
	for _, seg := range segs {
		if Crosses(s, a, b, seg) {
			return true
		}
	}
	return false
}

// Teleports groups delivery stations by accepted type and, for each type
// with at least two stations lacking a teleporter, returns its most distant
// pair. Stations already holding a teleporter endpoint are skipped, a
// narrower rule than ranking every delivery station of the type, so a
// station never receives a second teleporter. The first pair found wins ties. Results are sorted by descending
// distance, ties by ascending type.
//
// Complexity: O(Σ n_t²) over types t.
func Teleports(s *network.Snapshot) []Pair {
	byType := make(map[int][]int)
	var types []int
	for i := range s.Stations {
		st := &s.Stations[i]
		switch st.Kind {
		case network.KindDelivery:
			if st.Teleporter {
				continue
			}
			if _, seen := byType[st.Accepts]; !seen {
				types = append(types, st.Accepts)
			}
			byType[st.Accepts] = append(byType[st.Accepts], i)
		default:
			continue
		}
	}
	sort.Ints(types)

	var out []Pair
	for _, typ := range types {
		members := byType[typ]
		if len(members) < 2 {
			continue
		}
		best := Pair{A: -1, Distance: -1}
		for x := 0; x < len(members); x++ {
			for y := x + 1; y < len(members); y++ {
				d := s.Distance(members[x], members[y])
				if d > best.Distance {
					best = Pair{A: members[x], B: members[y], Distance: d}
				}
			}
		}
		out = append(out, best)
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Distance > out[b].Distance })

	return out
}
