// Package web serves the arcade over HTTP: an index of game cards, a JSON
// API and live game sessions streamed over WebSocket.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/grid-arcade/internal/registry"
	"github.com/vovakirdan/grid-arcade/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Config configures a Server.
type Config struct {
	Store   *storage.Store // nil disables score endpoints and saving
	Logger  *log.Logger
	FPS     int
	Game    registry.Options
	ScreenW int
	ScreenH int
}

// Server is the HTTP front end.
type Server struct {
	cfg      Config
	log      *log.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server, filling unset config with defaults.
func NewServer(cfg Config) *Server {
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		cfg.ScreenW, cfg.ScreenH = 80, 30
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg: cfg,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /play/{id}", s.handlePlayPage)
	mux.HandleFunc("GET /api/games", s.handleGames)
	mux.HandleFunc("GET /api/games/{id}/scores", s.handleScores)
	mux.HandleFunc("GET /api/games/{id}/play", s.handlePlay)
	mux.HandleFunc("GET /healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// Hijacked WebSocket sessions are not closed by Shutdown; they
		// watch ctx instead.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx2)
	}()

	s.log.Info("Starting web server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("Web server stopped")
	return nil
}

func (s *Server) handleIndex(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Games []registry.GameInfo }{registry.List()}
	if err := templates.ExecuteTemplate(rw, "index.html", data); err != nil {
		s.log.Error("Render index", "err", err)
	}
}

func (s *Server) handlePlayPage(rw http.ResponseWriter, r *http.Request) {
	info, ok := registry.Info(r.PathValue("id"))
	if !ok {
		http.NotFound(rw, r)
		return
	}
	data := struct {
		ID    string
		Title string
		Keys  map[string]string
	}{info.ID, info.Title, info.Keys.Browser()}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(rw, "play.html", data); err != nil {
		s.log.Error("Render play page", "game", info.ID, "err", err)
	}
}

func (s *Server) handleGames(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, http.StatusOK, registry.List())
}

// ScoreEntry is the JSON form of a stored score.
type ScoreEntry struct {
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleScores(rw http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !registry.Exists(id) {
		writeJSON(rw, http.StatusNotFound, map[string]string{"error": "unknown game"})
		return
	}
	if s.cfg.Store == nil {
		writeJSON(rw, http.StatusServiceUnavailable, map[string]string{"error": "scores disabled"})
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeJSON(rw, http.StatusBadRequest, map[string]string{"error": "limit must be 1..100"})
			return
		}
		limit = n
	}
	entries, err := s.cfg.Store.TopScores(id, limit)
	if err != nil {
		s.log.Error("Load scores", "game", id, "err", err)
		writeJSON(rw, http.StatusInternalServerError, map[string]string{"error": "storage error"})
		return
	}
	out := make([]ScoreEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, ScoreEntry{Score: e.Score, CreatedAt: e.CreatedAt})
	}
	writeJSON(rw, http.StatusOK, out)
}

func (s *Server) handlePlay(rw http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !registry.Exists(id) {
		http.NotFound(rw, r)
		return
	}
	game, err := registry.Create(id, s.cfg.Game)
	if err != nil {
		s.log.Error("Create game", "game", id, "err", err)
		http.Error(rw, "cannot create game", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sess := newSession(game, conn, s.cfg, s.log.With("game", id, "remote", r.RemoteAddr))
	sess.run(r.Context())
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
