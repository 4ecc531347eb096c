package gridsim

// Ruleset selects the transition rules a simulator applies on every tick.
type Ruleset string

const (
	RulesetSnake  Ruleset = "snake"
	RulesetTetris Ruleset = "tetris"
	RulesetLife   Ruleset = "life"
)

// Randomizer selects how TETRIS draws the next piece.
type Randomizer string

const (
	RandomUniform Randomizer = "uniform" // each piece independently, 1/7 per kind
	RandomBag     Randomizer = "bag"     // shuffled bags of all seven kinds
)

// Config describes a simulator: board size, ruleset and initial placement.
type Config struct {
	Ruleset Ruleset `json:"ruleset"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`

	// Walled turns the border ring into permanent walls.
	Walled bool `json:"walled,omitempty"`
	// Walls are extra permanent wall cells inside the board.
	Walls []Coord `json:"walls,omitempty"`

	Snake  SnakeConfig  `json:"snake,omitzero"`
	Tetris TetrisConfig `json:"tetris,omitzero"`
	Life   LifeConfig   `json:"life,omitzero"`
}

// SnakeConfig is the initial SNAKE placement.
type SnakeConfig struct {
	// Body lists the segments head first. Empty means three segments
	// centred on the board, facing right.
	Body      []Coord `json:"body,omitempty"`
	Direction Dir     `json:"direction,omitempty"`
	// Item pins the first item. Nil spawns it at random.
	Item *Coord `json:"item,omitempty"`
}

// TetrisConfig is the initial TETRIS setup.
type TetrisConfig struct {
	Randomizer Randomizer `json:"randomizer,omitempty"`
	// Sequence is drawn before the randomizer takes over.
	Sequence []PieceKind `json:"sequence,omitempty"`
	// Filled cells start locked (as garbage).
	Filled []Coord `json:"filled,omitempty"`
	// StartLevel is the level before any lines are cleared. Zero means 1.
	StartLevel int `json:"start_level,omitempty"`
}

// LifeConfig is the initial LIFE population.
type LifeConfig struct {
	Alive []Coord `json:"alive,omitempty"`
	// HaltOnStable makes the simulator terminal once a tick changes nothing.
	HaltOnStable bool `json:"halt_on_stable,omitempty"`
}

// Minimum board sizes. Anything at or below 2 in either axis is rejected for
// every ruleset; TETRIS also needs room for the widest piece.
const (
	minSide         = 3
	minTetrisWidth  = 5
	minTetrisHeight = 4
)

// Validate checks cfg without building anything.
func (cfg Config) Validate() error {
	if cfg.Width < minSide {
		return configErr("width", "must be greater than 2, got %d", cfg.Width)
	}
	if cfg.Height < minSide {
		return configErr("height", "must be greater than 2, got %d", cfg.Height)
	}
	inBounds := func(c Coord) bool {
		return c.X >= 0 && c.X < cfg.Width && c.Y >= 0 && c.Y < cfg.Height
	}
	for _, w := range cfg.Walls {
		if !inBounds(w) {
			return configErr("walls", "wall %v outside %dx%d board", w, cfg.Width, cfg.Height)
		}
	}

	switch cfg.Ruleset {
	case RulesetSnake:
		return cfg.validateSnake()
	case RulesetTetris:
		return cfg.validateTetris(inBounds)
	case RulesetLife:
		for _, c := range cfg.Life.Alive {
			if !inBounds(c) {
				return configErr("life.alive", "cell %v outside %dx%d board", c, cfg.Width, cfg.Height)
			}
		}
		return nil
	default:
		return configErr("ruleset", "unknown ruleset %q", cfg.Ruleset)
	}
}

func (cfg Config) validateSnake() error {
	// Build the static board so body and item checks see the walls.
	g := cfg.staticGrid()
	body := cfg.snakeBody()
	seen := make(map[Coord]bool, len(body))
	for i, seg := range body {
		if g.At(seg).Kind != KindEmpty {
			return configErr("snake.body", "segment %v is not on a free interior cell", seg)
		}
		if seen[seg] {
			return configErr("snake.body", "segment %v appears twice", seg)
		}
		seen[seg] = true
		if i > 0 && seg.Manhattan(body[i-1]) != 1 {
			return configErr("snake.body", "segments %v and %v are not adjacent", body[i-1], seg)
		}
	}
	if d := cfg.Snake.Direction; d != DirNone && !d.Valid() {
		return configErr("snake.direction", "invalid direction %d", d)
	}
	if it := cfg.Snake.Item; it != nil {
		if g.At(*it).Kind != KindEmpty || seen[*it] {
			return configErr("snake.item", "item %v is not on a free interior cell", *it)
		}
	}
	return nil
}

func (cfg Config) validateTetris(inBounds func(Coord) bool) error {
	if cfg.Walled || len(cfg.Walls) > 0 {
		return configErr("walled", "tetris boards cannot contain walls")
	}
	if cfg.Width < minTetrisWidth {
		return configErr("width", "tetris needs at least %d columns, got %d", minTetrisWidth, cfg.Width)
	}
	if cfg.Height < minTetrisHeight {
		return configErr("height", "tetris needs at least %d rows, got %d", minTetrisHeight, cfg.Height)
	}
	if cfg.Tetris.StartLevel < 0 {
		return configErr("tetris.start_level", "must not be negative, got %d", cfg.Tetris.StartLevel)
	}
	switch cfg.Tetris.Randomizer {
	case "", RandomUniform, RandomBag:
	default:
		return configErr("tetris.randomizer", "unknown randomizer %q", cfg.Tetris.Randomizer)
	}
	for _, k := range cfg.Tetris.Sequence {
		if !k.Valid() {
			return configErr("tetris.sequence", "unknown piece kind %d", k)
		}
	}
	for _, c := range cfg.Tetris.Filled {
		if !inBounds(c) {
			return configErr("tetris.filled", "cell %v outside %dx%d board", c, cfg.Width, cfg.Height)
		}
	}
	return nil
}

// staticGrid builds the board with only the permanent walls in place.
func (cfg Config) staticGrid() *Grid {
	g := NewGrid(cfg.Width, cfg.Height)
	if cfg.Walled {
		g.fillBorder()
	}
	for _, w := range cfg.Walls {
		g.Set(w, Wall())
	}
	return g
}

// snakeBody returns the configured body or the default centred one.
func (cfg Config) snakeBody() []Coord {
	if len(cfg.Snake.Body) > 0 {
		return cfg.Snake.Body
	}
	cx, cy := cfg.Width/2, cfg.Height/2
	return []Coord{C(cx, cy), C(cx-1, cy), C(cx-2, cy)}
}

// clone returns a copy of cfg that shares no slices with the caller.
func (cfg Config) clone() Config {
	out := cfg
	out.Walls = append([]Coord(nil), cfg.Walls...)
	out.Snake.Body = append([]Coord(nil), cfg.Snake.Body...)
	if cfg.Snake.Item != nil {
		it := *cfg.Snake.Item
		out.Snake.Item = &it
	}
	out.Tetris.Sequence = append([]PieceKind(nil), cfg.Tetris.Sequence...)
	out.Tetris.Filled = append([]Coord(nil), cfg.Tetris.Filled...)
	out.Life.Alive = append([]Coord(nil), cfg.Life.Alive...)
	return out
}
