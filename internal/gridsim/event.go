package gridsim

// Input is the externally decided intent for one tick.
// SNAKE reads Turn, TETRIS reads Shift, Rotate and Drop, LIFE reads nothing.
type Input struct {
	Turn   Dir  `json:"turn,omitempty"`
	Shift  int  `json:"shift,omitempty"`
	Rotate bool `json:"rotate,omitempty"`
	Drop   bool `json:"drop,omitempty"`
}

// Outcome describes what happened during one tick or manual drop.
type Outcome struct {
	Moved        bool `json:"moved"`
	Collided     bool `json:"collided"`
	LinesCleared int  `json:"lines_cleared"`
	ItemConsumed bool `json:"item_consumed"`
	GameOver     bool `json:"game_over"`

	Locked  bool `json:"locked,omitempty"`  // TETRIS: the falling piece was locked
	Changed int  `json:"changed,omitempty"` // LIFE: cells that flipped state
}

// Op names a simulator operation in the journal.
type Op string

const (
	OpTick   Op = "tick"
	OpTurn   Op = "turn"
	OpShift  Op = "shift"
	OpRotate Op = "rotate"
	OpDrop   Op = "drop"
	OpToggle Op = "toggle"
	OpRun    Op = "run"

	OpSoftDrop Op = "soft_drop"
)

// Event is one successfully applied operation. Replaying the same events
// against a simulator built from the same config and seed reproduces its state.
type Event struct {
	Op    Op    `json:"op"`
	Input Input `json:"input,omitzero"`
	Dir   Dir   `json:"dir,omitempty"`
	DX    int   `json:"dx,omitempty"`
	At    Coord `json:"at,omitzero"`
	On    bool  `json:"on,omitempty"`
}
