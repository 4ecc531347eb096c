// Package gridsim is a stepped grid simulator shared by Snake, Tetris and
// Conway's Game of Life.
//
// A Simulator owns a fixed-size grid and exactly one ruleset. An external
// driver calls Tick once per logical frame and reads the returned Outcome and
// the accessors to render. The package performs no I/O, timing or rendering
// and uses no global state: all randomness comes from the Rand passed to New,
// so runs with the same config, seed and inputs are identical.
//
// A Simulator is not safe for concurrent use. Each game session owns one.
package gridsim

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// Rand is the random source used for item placement and piece selection.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// rules is the per-ruleset transition logic.
type rules interface {
	step(in Input) Outcome
	digest(h hash.Hash64)
}

// Simulator holds canonical grid state and applies one ruleset per tick.
type Simulator struct {
	cfg      Config
	rng      Rand
	grid     *Grid
	rules    rules
	ticks    uint64
	terminal bool
	running  bool
	journal  func(Event)
}

// New builds a simulator for cfg drawing randomness from rng.
func New(cfg Config, rng Rand) (*Simulator, error) {
	if rng == nil {
		return nil, configErr("rng", "random source is required")
	}
	s := &Simulator{rng: rng}
	if err := s.Reset(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset reinitialises the simulator from cfg. On error the previous state is
// left untouched.
func (s *Simulator) Reset(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.clone()
	grid := cfg.staticGrid()

	var (
		r   rules
		out Outcome
	)
	switch cfg.Ruleset {
	case RulesetSnake:
		sr := newSnakeRules(cfg, grid, s.rng)
		out.GameOver = !sr.hasItem
		r = sr
	case RulesetTetris:
		tr := newTetrisRules(cfg, grid, s.rng)
		out.GameOver = !tr.fits(tr.cur)
		r = tr
	case RulesetLife:
		r = newLifeRules(cfg, grid)
	}

	s.cfg = cfg
	s.grid = grid
	s.rules = r
	s.ticks = 0
	s.terminal = out.GameOver
	s.running = false
	return nil
}

// Tick advances the simulation by one step. After the simulator becomes
// terminal it is a no-op that reports GameOver.
func (s *Simulator) Tick(in Input) Outcome {
	if s.terminal {
		return Outcome{GameOver: true}
	}
	out := s.rules.step(in)
	s.ticks++
	if out.GameOver {
		s.terminal = true
	}
	s.record(Event{Op: OpTick, Input: in})
	return out
}

// IsTerminal reports whether the ruleset's game-over condition holds.
func (s *Simulator) IsTerminal() bool {
	return s.terminal
}

// ChangeDirection queues a SNAKE direction for the next tick. The exact
// reverse of the current direction is ignored.
func (s *Simulator) ChangeDirection(d Dir) error {
	sr, err := s.snake(OpTurn)
	if err != nil {
		return err
	}
	if !d.Valid() {
		return opErr(OpTurn, "invalid direction %d", d)
	}
	sr.turn(d)
	s.record(Event{Op: OpTurn, Dir: d})
	return nil
}

// MoveHorizontal shifts the TETRIS piece one column left (-1) or right (+1).
func (s *Simulator) MoveHorizontal(dx int) error {
	tr, err := s.tetris(OpShift)
	if err != nil {
		return err
	}
	if dx != -1 && dx != 1 {
		return opErr(OpShift, "dx must be -1 or 1, got %d", dx)
	}
	if err := tr.shift(dx); err != nil {
		return err
	}
	s.record(Event{Op: OpShift, DX: dx})
	return nil
}

// Rotate advances the TETRIS piece to its next rotation state. If the rotated
// piece would leave the board or overlap a locked cell the rotation index is
// restored and an error is returned.
func (s *Simulator) Rotate() error {
	tr, err := s.tetris(OpRotate)
	if err != nil {
		return err
	}
	if err := tr.rotate(); err != nil {
		return err
	}
	s.record(Event{Op: OpRotate})
	return nil
}

// SoftDrop moves the TETRIS piece one row down for one point. It never locks:
// a piece resting on the stack returns an error and waits for gravity.
func (s *Simulator) SoftDrop() error {
	tr, err := s.tetris(OpSoftDrop)
	if err != nil {
		return err
	}
	if err := tr.softDrop(); err != nil {
		return err
	}
	s.record(Event{Op: OpSoftDrop})
	return nil
}

// HardDrop moves the TETRIS piece down until blocked and locks it.
func (s *Simulator) HardDrop() (Outcome, error) {
	tr, err := s.tetris(OpDrop)
	if err != nil {
		return Outcome{}, err
	}
	out := tr.hardDrop()
	if out.GameOver {
		s.terminal = true
	}
	s.record(Event{Op: OpDrop})
	return out, nil
}

// Toggle flips a LIFE cell. Only valid while the simulator is not running.
func (s *Simulator) Toggle(x, y int) error {
	lr, err := s.life(OpToggle)
	if err != nil {
		return err
	}
	if s.running {
		return opErr(OpToggle, "cannot edit while running")
	}
	if err := lr.toggle(C(x, y)); err != nil {
		return err
	}
	s.record(Event{Op: OpToggle, At: C(x, y)})
	return nil
}

// SetRunning records whether the driver is auto-stepping LIFE. Toggle is
// rejected while running.
func (s *Simulator) SetRunning(on bool) error {
	if _, err := s.life(OpRun); err != nil {
		return err
	}
	s.running = on
	s.record(Event{Op: OpRun, On: on})
	return nil
}

// Running reports whether LIFE is marked as auto-stepping.
func (s *Simulator) Running() bool {
	return s.running
}

// Apply performs a journalled operation. It is how replays re-drive a
// simulator.
func (s *Simulator) Apply(ev Event) (Outcome, error) {
	switch ev.Op {
	case OpTick:
		return s.Tick(ev.Input), nil
	case OpTurn:
		return Outcome{}, s.ChangeDirection(ev.Dir)
	case OpShift:
		return Outcome{}, s.MoveHorizontal(ev.DX)
	case OpRotate:
		return Outcome{}, s.Rotate()
	case OpDrop:
		return s.HardDrop()
	case OpSoftDrop:
		return Outcome{}, s.SoftDrop()
	case OpToggle:
		return Outcome{}, s.Toggle(ev.At.X, ev.At.Y)
	case OpRun:
		return Outcome{}, s.SetRunning(ev.On)
	default:
		return Outcome{}, opErr(ev.Op, "unknown operation")
	}
}

// SetJournal installs fn to receive every successfully applied operation.
// Pass nil to stop journalling.
func (s *Simulator) SetJournal(fn func(Event)) {
	s.journal = fn
}

func (s *Simulator) record(ev Event) {
	if s.journal != nil {
		s.journal(ev)
	}
}

// --- ruleset access ---

func (s *Simulator) snake(op Op) (*snakeRules, error) {
	sr, ok := s.rules.(*snakeRules)
	if !ok {
		return nil, opErr(op, "not supported by ruleset %s", s.cfg.Ruleset)
	}
	if s.terminal {
		return nil, opErr(op, "simulator is terminal")
	}
	return sr, nil
}

func (s *Simulator) tetris(op Op) (*tetrisRules, error) {
	tr, ok := s.rules.(*tetrisRules)
	if !ok {
		return nil, opErr(op, "not supported by ruleset %s", s.cfg.Ruleset)
	}
	if s.terminal {
		return nil, opErr(op, "simulator is terminal")
	}
	return tr, nil
}

func (s *Simulator) life(op Op) (*lifeRules, error) {
	lr, ok := s.rules.(*lifeRules)
	if !ok {
		return nil, opErr(op, "not supported by ruleset %s", s.cfg.Ruleset)
	}
	if s.terminal {
		return nil, opErr(op, "simulator is terminal")
	}
	return lr, nil
}

// --- accessors ---

// Config returns a copy of the active configuration.
func (s *Simulator) Config() Config { return s.cfg.clone() }

// Ruleset returns the active ruleset.
func (s *Simulator) Ruleset() Ruleset { return s.cfg.Ruleset }

// Width returns the board width.
func (s *Simulator) Width() int { return s.grid.w }

// Height returns the board height.
func (s *Simulator) Height() int { return s.grid.h }

// Ticks returns the number of ticks applied since the last Reset.
func (s *Simulator) Ticks() uint64 { return s.ticks }

// Grid returns a snapshot of the board. Mutating it does not affect the simulator.
func (s *Simulator) Grid() *Grid { return s.grid.Clone() }

// Cell returns the cell at (x, y); out-of-range coordinates read as walls.
func (s *Simulator) Cell(x, y int) Cell { return s.grid.At(C(x, y)) }

// Score returns the ruleset score: 10 per item for SNAKE, line and drop
// points for TETRIS, 0 for LIFE.
func (s *Simulator) Score() int {
	switch r := s.rules.(type) {
	case *snakeRules:
		return r.score
	case *tetrisRules:
		return r.score
	default:
		return 0
	}
}

// Body returns the SNAKE segments, head first.
func (s *Simulator) Body() []Coord {
	if r, ok := s.rules.(*snakeRules); ok {
		return append([]Coord(nil), r.body...)
	}
	return nil
}

// Direction returns the current SNAKE direction.
func (s *Simulator) Direction() Dir {
	if r, ok := s.rules.(*snakeRules); ok {
		return r.dir
	}
	return DirNone
}

// NextDirection returns the queued SNAKE direction.
func (s *Simulator) NextDirection() Dir {
	if r, ok := s.rules.(*snakeRules); ok {
		return r.next
	}
	return DirNone
}

// Item returns the SNAKE item position and whether one is on the board.
func (s *Simulator) Item() (Coord, bool) {
	if r, ok := s.rules.(*snakeRules); ok {
		return r.item, r.hasItem
	}
	return Coord{}, false
}

// ItemsEaten returns how many items the snake has consumed.
func (s *Simulator) ItemsEaten() int {
	if r, ok := s.rules.(*snakeRules); ok {
		return r.eaten
	}
	return 0
}

// Current returns the falling TETRIS piece.
func (s *Simulator) Current() (Piece, bool) {
	if r, ok := s.rules.(*tetrisRules); ok {
		return r.cur, true
	}
	return Piece{}, false
}

// CurrentCells returns the board cells covered by the falling TETRIS piece.
func (s *Simulator) CurrentCells() []Coord {
	if r, ok := s.rules.(*tetrisRules); ok {
		cells := r.cur.Cells()
		return cells[:]
	}
	return nil
}

// GhostCells returns where the falling piece would lock after a hard drop.
func (s *Simulator) GhostCells() []Coord {
	if r, ok := s.rules.(*tetrisRules); ok {
		cells := r.landing().Cells()
		return cells[:]
	}
	return nil
}

// Next returns the queued TETRIS piece kind.
func (s *Simulator) Next() PieceKind {
	if r, ok := s.rules.(*tetrisRules); ok {
		return r.next
	}
	return PieceNone
}

// Lines returns the monotonic TETRIS lines-cleared counter.
func (s *Simulator) Lines() int {
	if r, ok := s.rules.(*tetrisRules); ok {
		return r.lines
	}
	return 0
}

// Level returns the TETRIS level: the start level plus lines/10.
func (s *Simulator) Level() int {
	if r, ok := s.rules.(*tetrisRules); ok {
		return r.level()
	}
	return 0
}

// FallInterval returns the number of driver frames between TETRIS gravity
// ticks at the current level.
func (s *Simulator) FallInterval() int {
	if r, ok := s.rules.(*tetrisRules); ok {
		return r.fallInterval()
	}
	return 0
}

// Population returns the number of live LIFE cells.
func (s *Simulator) Population() int {
	if _, ok := s.rules.(*lifeRules); ok {
		return s.grid.Count(KindOccupied)
	}
	return 0
}

// Digest returns a hash of the complete simulator state. Two simulators with
// equal digests render identically and evolve identically for equal inputs
// and random draws.
func (s *Simulator) Digest() uint64 {
	h := fnv.New64a()
	writeInt(h, int64(s.grid.w))
	writeInt(h, int64(s.grid.h))
	for _, c := range s.grid.cells {
		h.Write([]byte{byte(c.Kind), c.Payload})
	}
	writeInt(h, int64(s.ticks))
	writeBool(h, s.terminal)
	writeBool(h, s.running)
	s.rules.digest(h)
	return h.Sum64()
}

func writeInt(h hash.Hash64, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	h.Write(buf[:])
}

func writeBool(h hash.Hash64, v bool) {
	if v {
		h.Write([]byte{1})
		return
	}
	h.Write([]byte{0})
}

func writeCoord(h hash.Hash64, c Coord) {
	writeInt(h, int64(c.X))
	writeInt(h, int64(c.Y))
}
