// Package replay records simulator journals to disk and verifies them.
//
// A recording is a zstd-compressed JSONL file. The first line is a Header;
// every following line is one gridsim.Event in the order it was applied.
package replay

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vovakirdan/grid-arcade/internal/gridsim"
)

// Version is the current file format version.
const Version = 1

// ErrDigestMismatch is returned by Verify when the replayed state differs
// from the recorded one.
var ErrDigestMismatch = errors.New("replay: digest mismatch")

//go:embed replay.schema.json
var headerSchemaJSON string

var headerSchema = jsonschema.MustCompileString("replay.schema.json", headerSchemaJSON)

// Header is the first line of a recording.
type Header struct {
	Version int            `json:"version"`
	GameID  string         `json:"game_id"`
	Seed    int64          `json:"seed"`
	Config  gridsim.Config `json:"config"`
	Events  int            `json:"events"`
	Digest  string         `json:"digest"` // %016x of the final Simulator.Digest
}

// Recording is a complete replay: header plus journal.
type Recording struct {
	Header Header
	Events []gridsim.Event
}

// FormatDigest renders a digest the way headers store it.
func FormatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}

// Recorder collects journal events of one simulator run. It is safe to
// call Record from a different goroutine than Recording.
type Recorder struct {
	gameID string

	mu      sync.Mutex
	started bool
	cfg     gridsim.Config
	seed    int64
	events  []gridsim.Event
}

// NewRecorder creates a recorder for the given game.
func NewRecorder(gameID string) *Recorder {
	return &Recorder{gameID: gameID}
}

// Begin starts a new run, dropping events of the previous one.
func (r *Recorder) Begin(cfg gridsim.Config, seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	r.cfg = cfg
	r.seed = seed
	r.events = r.events[:0]
}

// Started reports whether Begin has been called.
func (r *Recorder) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Seed returns the seed passed to the last Begin.
func (r *Recorder) Seed() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seed
}

// Record appends one journal event. It is meant to be passed to
// Simulator.SetJournal.
func (r *Recorder) Record(ev gridsim.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Len returns the number of events recorded in the current run.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Recording snapshots the current run, stamped with the final digest.
func (r *Recorder) Recording(digest uint64) *Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]gridsim.Event, len(r.events))
	copy(events, r.events)
	return &Recording{
		Header: Header{
			Version: Version,
			GameID:  r.gameID,
			Seed:    r.seed,
			Config:  r.cfg,
			Events:  len(events),
			Digest:  FormatDigest(digest),
		},
		Events: events,
	}
}

// Write encodes rec as zstd-compressed JSONL.
func Write(w io.Writer, rec *Recording) error {
	if rec.Header.Events != len(rec.Events) {
		return fmt.Errorf("replay: header counts %d events, have %d", rec.Header.Events, len(rec.Events))
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("replay: zstd: %w", err)
	}
	bw := bufio.NewWriterSize(enc, 64*1024)
	if err := writeLine(bw, rec.Header); err != nil {
		enc.Close()
		return err
	}
	for _, ev := range rec.Events {
		if err := writeLine(bw, ev); err != nil {
			enc.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("replay: flush: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("replay: zstd close: %w", err)
	}
	return nil
}

func writeLine(w *bufio.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("replay: marshal: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("replay: write: %w", err)
	}
	return w.WriteByte('\n')
}

// Save writes rec to path, creating parent directories.
func Save(path string, rec *Recording) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("replay: cannot create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if err := Write(f, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read decodes a recording and validates its header.
func Read(r io.Reader) (*Recording, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("replay: zstd: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("replay: read header: %w", err)
		}
		return nil, errors.New("replay: empty recording")
	}
	header, err := parseHeader(sc.Bytes())
	if err != nil {
		return nil, err
	}

	rec := &Recording{Header: header, Events: make([]gridsim.Event, 0, header.Events)}
	for line := 2; sc.Scan(); line++ {
		var ev gridsim.Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return nil, fmt.Errorf("replay: line %d: %w", line, err)
		}
		rec.Events = append(rec.Events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	if len(rec.Events) != header.Events {
		return nil, fmt.Errorf("replay: header counts %d events, file has %d", header.Events, len(rec.Events))
	}
	return rec, nil
}

func parseHeader(line []byte) (Header, error) {
	d := json.NewDecoder(bytes.NewReader(line))
	d.UseNumber()
	var doc any
	if err := d.Decode(&doc); err != nil {
		return Header{}, fmt.Errorf("replay: header: %w", err)
	}
	if err := headerSchema.Validate(doc); err != nil {
		return Header{}, fmt.Errorf("replay: invalid header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return Header{}, fmt.Errorf("replay: header: %w", err)
	}
	return h, nil
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Result describes a verification run.
type Result struct {
	Events int
	Ticks  uint64
	Want   string
	Got    string
}

// Verify rebuilds the simulator from the header, applies every event and
// compares the final digest. A mismatch returns the result together with
// ErrDigestMismatch.
func Verify(rec *Recording) (Result, error) {
	sim, err := gridsim.New(rec.Header.Config, rand.New(rand.NewSource(rec.Header.Seed)))
	if err != nil {
		return Result{}, fmt.Errorf("replay: rebuild: %w", err)
	}
	for i, ev := range rec.Events {
		if _, err := sim.Apply(ev); err != nil {
			return Result{Events: i}, fmt.Errorf("replay: event %d (%s): %w", i, ev.Op, err)
		}
	}
	res := Result{
		Events: len(rec.Events),
		Ticks:  sim.Ticks(),
		Want:   rec.Header.Digest,
		Got:    FormatDigest(sim.Digest()),
	}
	if res.Got != res.Want {
		return res, fmt.Errorf("%w: got %s, want %s", ErrDigestMismatch, res.Got, res.Want)
	}
	return res, nil
}
