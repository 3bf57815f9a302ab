package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/planetsim/internal/sim"
)

const (
	DefaultAddr = ":8080"
	DefaultHz   = 30

	writeTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is a control message sent by a client.
type Command struct {
	Cmd string `json:"cmd"`
}

type errorReply struct {
	Error string `json:"error"`
}

type Options struct {
	Addr string
	// Hz is the number of frames simulated and broadcast per second.
	Hz     int
	Logger *slog.Logger
}

// Server runs a clock at a fixed rate and broadcasts every frame to the
// connected websocket clients.
type Server struct {
	opts Options
	log  *slog.Logger

	mu    sync.Mutex // guards clock
	clock *sim.Clock

	upgrader     websocket.Upgrader
	clients      map[*websocket.Conn]*sync.Mutex
	clientsMutex sync.RWMutex
}

func NewServer(clock *sim.Clock, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Hz <= 0 {
		opts.Hz = DefaultHz
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		opts:  opts,
		log:   opts.Logger,
		clock: clock,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Handler serves /ws and /snapshot.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	return mux
}

func (s *Server) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotOf(s.clock)
}

// Apply runs a client command against the clock.
func (s *Server) Apply(cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd {
	case "pause":
		s.clock.SetPaused(true)
	case "resume":
		s.clock.SetPaused(false)
	case "faster":
		s.clock.Faster()
	case "slower":
		s.clock.Slower()
	case "step":
		return s.clock.StepOnce()
	case "reset":
		s.clock.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	return nil
}

// Tick advances the clock by one frame and broadcasts the result.
func (s *Server) Tick() {
	s.mu.Lock()
	if _, err := s.clock.Frame(); err != nil {
		s.log.Error("simulation halted", "err", err)
	}
	snap := snapshotOf(s.clock)
	s.mu.Unlock()

	s.broadcast(snap)
}

// Run listens on the configured address and ticks until ctx is cancelled.
// All clients are closed on return.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.Info("streaming", "addr", ln.Addr().String(), "hz", s.opts.Hz)

	ticker := time.NewTicker(time.Second / time.Duration(s.opts.Hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeClients()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		case err, ok := <-errCh:
			s.closeClients()
			if ok {
				return err
			}
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(jsonSafe(s.Snapshot())); err != nil {
		s.log.Warn("snapshot encode failed", "err", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMutex.Lock()
	s.clients[conn] = connMutex
	s.clientsMutex.Unlock()
	defer s.removeClient(conn)

	s.log.Debug("client connected", "remote", conn.RemoteAddr().String())

	if err := s.send(conn, connMutex, jsonSafe(s.Snapshot())); err != nil {
		return
	}

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read failed", "err", err)
			}
			return
		}

		var reply any
		if err := s.Apply(cmd.Cmd); err != nil {
			reply = errorReply{Error: err.Error()}
		} else {
			reply = jsonSafe(s.Snapshot())
		}
		if err := s.send(conn, connMutex, reply); err != nil {
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, mu *sync.Mutex, v any) error {
	mu.Lock()
	defer mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(v)
}

// broadcast writes snap to every client and drops those that fail.
func (s *Server) broadcast(snap Snapshot) {
	snap = jsonSafe(snap)

	s.clientsMutex.RLock()
	clientsToRemove := []*websocket.Conn{}
	for client, mutex := range s.clients {
		if err := s.send(client, mutex, snap); err != nil {
			clientsToRemove = append(clientsToRemove, client)
		}
	}
	s.clientsMutex.RUnlock()

	for _, client := range clientsToRemove {
		s.log.Debug("dropping client", "remote", client.RemoteAddr().String())
		s.removeClient(client)
		client.Close()
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMutex.Lock()
	delete(s.clients, conn)
	s.clientsMutex.Unlock()
}

func (s *Server) closeClients() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for client, mutex := range s.clients {
		mutex.Lock()
		_ = client.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeTimeout))
		mutex.Unlock()
		client.Close()
		delete(s.clients, client)
	}
}

// Clients is the number of connected clients.
func (s *Server) Clients() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

// jsonSafe replaces a NaN energy, which encoding/json rejects, with zero.
func jsonSafe(snap Snapshot) Snapshot {
	if math.IsNaN(snap.Energy) || math.IsInf(snap.Energy, 0) {
		snap.Energy = 0
	}
	return snap
}
