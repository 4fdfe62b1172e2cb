// Package protocol reads the per-turn game input into network.World values.
//
// Each turn is a whitespace-separated token stream:
//
//	resources
//	numTravelRoutes   { id1 id2 capacity }          capacity 0 is a teleport
//	numPods           { id numStops stop... }
//	numNewBuildings   { type id x y [n type...] }    type 0 is a landing pad
//
// Buildings are only announced once, so a Session remembers every station
// it has seen and includes all of them in each World.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dsetzer/codingame-fall-2024/network"
)

// ErrMalformed wraps every parse failure inside a turn.
var ErrMalformed = errors.New("protocol: malformed input")

// Session parses consecutive turns from one input stream.
type Session struct {
	sc   *bufio.Scanner
	turn int

	stations []network.StationSpec
	byID     map[int]int
}

// NewSession reads tokens from r.
func NewSession(r io.Reader) *Session {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	sc.Split(bufio.ScanWords)
	return &Session{sc: sc, byID: make(map[int]int)}
}

// Turn returns the number of turns read so far.
func (s *Session) Turn() int { return s.turn }

// Stations returns the number of stations known to the session.
func (s *Session) Stations() int { return len(s.stations) }

// ReadTurn parses the next turn. It returns io.EOF when the input ends
// cleanly before a turn starts; input ending mid-turn is ErrMalformed.
func (s *Session) ReadTurn() (network.World, error) {
	var w network.World

	budget, err := s.next("resources")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return w, io.EOF
		}
		return w, err
	}
	w.Budget = budget

	if w.Links, err = s.readLinks(); err != nil {
		return w, s.fail(err)
	}
	if w.Vehicles, err = s.readVehicles(); err != nil {
		return w, s.fail(err)
	}
	if err = s.readBuildings(); err != nil {
		return w, s.fail(err)
	}

	s.turn++
	w.Stations = make([]network.StationSpec, len(s.stations))
	copy(w.Stations, s.stations)
	return w, nil
}

func (s *Session) readLinks() ([]network.LinkSpec, error) {
	n, err := s.count("numTravelRoutes")
	if err != nil {
		return nil, err
	}
	links := make([]network.LinkSpec, 0, n)
	for i := 0; i < n; i++ {
		var l network.LinkSpec
		if l.A, err = s.next("route building 1"); err != nil {
			return nil, err
		}
		if l.B, err = s.next("route building 2"); err != nil {
			return nil, err
		}
		if l.Capacity, err = s.next("route capacity"); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, nil
}

func (s *Session) readVehicles() ([]network.VehicleSpec, error) {
	n, err := s.count("numPods")
	if err != nil {
		return nil, err
	}
	pods := make([]network.VehicleSpec, 0, n)
	for i := 0; i < n; i++ {
		var v network.VehicleSpec
		if v.ID, err = s.next("pod id"); err != nil {
			return nil, err
		}
		stops, err := s.count("numStops")
		if err != nil {
			return nil, err
		}
		v.Route = make([]int, stops)
		for j := range v.Route {
			if v.Route[j], err = s.next("pod stop"); err != nil {
				return nil, err
			}
		}
		pods = append(pods, v)
	}
	return pods, nil
}

func (s *Session) readBuildings() error {
	n, err := s.count("numNewBuildings")
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		var st network.StationSpec
		if st.Type, err = s.next("building type"); err != nil {
			return err
		}
		if st.Type < 0 {
			return fmt.Errorf("%w: building type %d", ErrMalformed, st.Type)
		}
		if st.ID, err = s.next("building id"); err != nil {
			return err
		}
		if st.X, err = s.next("building x"); err != nil {
			return err
		}
		if st.Y, err = s.next("building y"); err != nil {
			return err
		}
		if st.Type == 0 {
			if st.Pending, err = s.readAstronauts(); err != nil {
				return err
			}
		}
		s.register(st)
	}
	return nil
}

func (s *Session) readAstronauts() (map[int]int, error) {
	n, err := s.count("numAstronauts")
	if err != nil {
		return nil, err
	}
	pending := make(map[int]int)
	for j := 0; j < n; j++ {
		typ, err := s.next("astronaut type")
		if err != nil {
			return nil, err
		}
		pending[typ]++
	}
	return pending, nil
}

// register adds st, replacing an earlier announcement of the same id.
func (s *Session) register(st network.StationSpec) {
	if idx, ok := s.byID[st.ID]; ok {
		s.stations[idx] = st
		return
	}
	s.byID[st.ID] = len(s.stations)
	s.stations = append(s.stations, st)
}

func (s *Session) next(what string) (int, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return 0, fmt.Errorf("protocol: read %s: %w", what, err)
		}
		return 0, io.EOF
	}
	v, err := strconv.Atoi(s.sc.Text())
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrMalformed, what, s.sc.Text())
	}
	return v, nil
}

func (s *Session) count(what string) (int, error) {
	n, err := s.next(what)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative %s %d", ErrMalformed, what, n)
	}
	return n, nil
}

// fail converts an end of input inside a turn into ErrMalformed.
func (s *Session) fail(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: turn %d: %w", ErrMalformed, s.turn+1, io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("turn %d: %w", s.turn+1, err)
}
