// Package observer streams a generation run to preview clients: a JSON
// bootstrap endpoint plus a websocket that replays the pipeline step by
// step, one compressed grid frame per sub-step. Presentation policy (how
// often to redraw, colors on screen) stays with the client.
package observer

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/protocol"
)

type Server struct {
	runID string
	log   *log.Logger

	// The scheduler is single-threaded by contract; all stepping goes
	// through mu so concurrent observers cannot interleave replays.
	mu    sync.Mutex
	sched *pipeline.Scheduler

	upgrader websocket.Upgrader
	enc      *zstd.Encoder
}

func NewServer(runID string, sched *pipeline.Scheduler, logger *log.Logger) *Server {
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	return &Server{
		runID: runID,
		log:   logger,
		sched: sched,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		enc: enc,
	}
}

func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		regions := s.sched.Regions()
		steps := make([]string, s.sched.Total())
		for i := range steps {
			steps[i] = s.sched.StepName(i)
		}
		resp := protocol.BootstrapResponse{
			ProtocolVersion: protocol.Version,
			RunID:           s.runID,
			Seed:            s.sched.Seed(),
			Width:           s.sched.Grid().W,
			Height:          s.sched.Grid().H,
			Palette:         regions.Palette,
			Colors:          paletteColors(regions),
			Steps:           steps,
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: the client must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub protocol.SubscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != protocol.TypeSubscribe || sub.ProtocolVersion != protocol.Version {
			closeMsg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE")
			_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second))
			return
		}
		if sub.EveryN < 1 {
			sub.EveryN = 1
		}

		s.stream(conn, sub.EveryN)
	}
}

// stream restarts the pipeline and replays it to completion, pushing one
// frame every everyN sub-steps plus a final frame.
func (s *Server) stream(conn *websocket.Conn, everyN int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sched.Reset()
	total := s.sched.Total()
	for s.sched.Cursor() < total {
		stepName := s.sched.StepName(s.sched.Cursor())
		if err := s.sched.StepForward(); err != nil {
			s.log.Printf("step %d (%s) failed: %v", s.sched.Cursor(), stepName, err)
			_ = conn.WriteJSON(protocol.ErrorMsg{
				Type:    protocol.TypeError,
				Cursor:  s.sched.Cursor(),
				Message: err.Error(),
			})
			return
		}
		cursor := s.sched.Cursor()
		if cursor%everyN != 0 && cursor != total {
			continue
		}
		if err := conn.WriteJSON(s.frame(cursor, total, stepName)); err != nil {
			return
		}
	}
	_ = conn.WriteJSON(protocol.DoneMsg{
		Type:   protocol.TypeDone,
		Cursor: s.sched.Cursor(),
		Digest: s.sched.Grid().Digest(),
	})
}

func (s *Server) frame(cursor, total int, step string) protocol.FrameMsg {
	g := s.sched.Grid()
	compressed := s.enc.EncodeAll(g.Cells(), nil)
	return protocol.FrameMsg{
		Type:   protocol.TypeFrame,
		Cursor: cursor,
		Total:  total,
		Step:   step,
		Width:  g.W,
		Height: g.H,
		Cells:  base64.StdEncoding.EncodeToString(compressed),
		Digest: g.Digest(),
	}
}

func paletteColors(cat *catalogs.Catalog) map[string]string {
	out := make(map[string]string, len(cat.Palette))
	for _, key := range cat.Palette {
		out[key] = cat.Defs[key].Color
	}
	return out
}

func isLoopbackRemote(remote string) bool {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
