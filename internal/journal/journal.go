// Package journal persists decided turns: every turn is appended to a
// zstd-compressed JSONL file per run, and optionally indexed in SQLite for
// querying across runs.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/dsetzer/codingame-fall-2024/engine"
)

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("journal: writer closed")

// maxLine bounds a single JSONL record when reading back.
const maxLine = 16 << 20

// MaxMonths is the length of a game. One turn is one month; turns past the
// last month stay on it.
const MaxMonths = 12

// Month returns the game month turn belongs to, 1 through MaxMonths.
func Month(turn int) int {
	switch {
	case turn < 1:
		return 1
	case turn > MaxMonths:
		return MaxMonths
	default:
		return turn
	}
}

// Record is one journaled turn.
type Record struct {
	RunID    string          `json:"run_id"`
	Turn     int             `json:"turn"`
	Month    int             `json:"month"`
	At       time.Time       `json:"at"`
	Line     string          `json:"line"`
	Decision engine.Decision `json:"decision"`
}

// NewRecord stamps d with its run, turn number, game month and the current
// UTC time.
func NewRecord(runID string, turn int, d engine.Decision) Record {
	return Record{
		RunID:    runID,
		Turn:     turn,
		Month:    Month(turn),
		At:       time.Now().UTC(),
		Line:     d.Line(),
		Decision: d,
	}
}

// Status is the one-line progress summary logged after every turn.
func (r Record) Status() string {
	return fmt.Sprintf("month %d/%d, turn %d, committed %d of %d",
		r.Month, MaxMonths, r.Turn, r.Decision.Committed(), r.Decision.Budget)
}

// NewRunID returns a fresh identifier for a controller run.
func NewRunID() string { return uuid.NewString() }

// Writer appends records to <dir>/<runID>.jsonl.zst. The file is created on
// the first Write.
type Writer struct {
	path string

	mu     sync.Mutex
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
	closed bool
}

// NewWriter prepares a journal for runID under dir.
func NewWriter(dir, runID string) *Writer {
	return &Writer{path: filepath.Join(dir, runID+".jsonl.zst")}
}

// Path returns the journal file location.
func (w *Writer) Path() string { return w.path }

// Write appends rec as one JSON line and flushes it into the encoder.
func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.w == nil {
		if err := w.openLocked(); err != nil {
			return err
		}
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("journal: encode turn %d: %w", rec.Turn, err)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes and finalizes the zstd frame. Further writes fail.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return w.closeLocked()
}

func (w *Writer) openLocked() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("journal: zstd: %w", err)
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	return nil
}

func (w *Writer) closeLocked() error {
	var err error
	if w.w != nil {
		err = w.w.Flush()
	}
	if w.enc != nil {
		if cerr := w.enc.Close(); err == nil {
			err = cerr
		}
		w.enc = nil
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	w.w = nil
	return err
}

// ReadFile decodes every record of a journal file in write order.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("journal: zstd: %w", err)
	}
	defer dec.Close()

	var out []Record
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return out, fmt.Errorf("journal: record %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("journal: read: %w", err)
	}
	return out, nil
}
