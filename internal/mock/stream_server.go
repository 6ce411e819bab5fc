package mock

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamServer is a loopback websocket server that speaks the upstream
// protocol: it waits for a subscribe frame, then streams synthetic
// position and static reports.
type StreamServer struct {
	generator *DataGenerator
	interval  time.Duration

	listener net.Listener
	srv      *http.Server

	mu      sync.Mutex
	running bool
}

// NewStreamServer builds a server over the given generator. interval is
// the gap between frames.
func NewStreamServer(gen *DataGenerator, interval time.Duration) *StreamServer {
	return &StreamServer{generator: gen, interval: interval}
}

// Start binds a loopback port and begins serving. Returns the websocket
// URL clients should dial.
func (s *StreamServer) Start() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/stream", s.handleStream)
	s.srv = &http.Server{Handler: mux}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("mock stream server failed", "error", err)
		}
	}()

	url := "ws://" + ln.Addr().String() + "/stream"
	slog.Info("mock stream server started", "url", url, "vessels", s.generator.Count())
	return url, nil
}

// Stop shuts the listener down.
func (s *StreamServer) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	if s.srv != nil {
		s.srv.Close()
	}
}

func (s *StreamServer) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("mock upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// The protocol starts with the client's subscription; its content is
	// accepted as-is.
	var sub map[string]any
	if err := conn.ReadJSON(&sub); err != nil {
		slog.Warn("mock subscribe read failed", "error", err)
		return
	}
	slog.Debug("mock subscriber connected", "remote", conn.RemoteAddr().String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	i := 0
	for range ticker.C {
		s.mu.Lock()
		running := s.running
		s.mu.Unlock()
		if !running {
			return
		}

		// Interleave one static frame per few position frames, like the
		// real feed does.
		frame := s.generator.PositionFrame(i)
		if i%4 == 3 {
			frame = s.generator.StaticFrame(i)
		}
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}

		i++
		if i%s.generator.Count() == 0 {
			s.generator.Advance()
		}
	}
}
