package web

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/grid-arcade/internal/core"
	"github.com/vovakirdan/grid-arcade/internal/registry"
	"github.com/vovakirdan/grid-arcade/internal/storage"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// InputMessage is sent by the browser.
type InputMessage struct {
	Type   string `json:"type"` // "input"
	Action string `json:"action"`
}

// FrameMessage is pushed to the browser once per frame.
type FrameMessage struct {
	Type   string     `json:"type"` // "frame"
	Tick   uint64     `json:"tick"`
	Screen string     `json:"screen"`
	State  FrameState `json:"state"`
}

// FrameState mirrors core.GameState on the wire.
type FrameState struct {
	Score    int  `json:"score"`
	GameOver bool `json:"game_over"`
	Paused   bool `json:"paused"`
}

// session drives one game for one WebSocket connection. The run loop owns
// the game and all writes; a reader goroutine feeds it actions.
type session struct {
	game   registry.Game
	conn   *websocket.Conn
	store  *storage.Store
	log    *log.Logger
	fps    int
	screen *core.Screen

	tick  uint64
	saved bool
}

func newSession(game registry.Game, conn *websocket.Conn, cfg Config, logger *log.Logger) *session {
	return &session{
		game:   game,
		conn:   conn,
		store:  cfg.Store,
		log:    logger,
		fps:    cfg.FPS,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
	}
}

func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.game.Reset(core.RuntimeConfig{
		ScreenW:  s.screen.Width(),
		ScreenH:  s.screen.Height(),
		TickRate: s.fps,
		Seed:     time.Now().UnixNano(),
	})
	s.log.Info("Session started")
	defer func() { s.log.Info("Session ended", "ticks", s.tick, "score", s.game.State().Score) }()

	actions := make(chan core.Action, 32)
	go s.readLoop(ctx, cancel, actions)

	frames := time.NewTicker(time.Second / time.Duration(s.fps))
	defer frames.Stop()
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()

	in := core.NewInputFrame()
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-actions:
			if a == core.ActionQuit {
				_ = s.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(writeWait))
				return
			}
			in.Set(a)
		case <-pings.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-frames.C:
			s.step(in)
			in.Clear()
			if err := s.writeFrame(); err != nil {
				s.log.Debug("Write frame", "err", err)
				return
			}
		}
	}
}

// step advances the game and saves the score the first time a run ends.
func (s *session) step(in core.InputFrame) {
	s.tick++
	state := s.game.Step(in).State
	if !state.GameOver {
		s.saved = false
		return
	}
	if s.saved || state.Score <= 0 {
		return
	}
	s.saved = true
	if s.store == nil {
		return
	}
	if _, err := s.store.SaveScore(s.game.ID(), state.Score); err != nil {
		s.log.Warn("Save score", "err", err)
	}
}

func (s *session) writeFrame() error {
	s.game.Render(s.screen)
	st := s.game.State()
	b, err := json.Marshal(FrameMessage{
		Type:   "frame",
		Tick:   s.tick,
		Screen: s.screen.String(),
		State:  FrameState{Score: st.Score, GameOver: st.GameOver, Paused: st.Paused},
	})
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, b)
}

func (s *session) readLoop(ctx context.Context, cancel context.CancelFunc, out chan<- core.Action) {
	defer cancel()
	s.conn.SetReadLimit(1024)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var m InputMessage
		if err := json.Unmarshal(msg, &m); err != nil || m.Type != "input" {
			continue
		}
		a, ok := core.ParseAction(m.Action)
		if !ok {
			continue
		}
		select {
		case out <- a:
		case <-ctx.Done():
			return
		}
	}
}
