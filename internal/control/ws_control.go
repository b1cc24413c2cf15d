// Package control handles the websocket input protocol and gesture routing.
package control

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/stuartlink/internal/debounce"
	"github.com/frudas24/stuartlink/internal/dispatch"
	"github.com/frudas24/stuartlink/internal/gesture"
	"github.com/frudas24/stuartlink/internal/geometry"
	"github.com/frudas24/stuartlink/internal/state"
	"github.com/gorilla/websocket"
)

// Sink receives the commands emitted by gesture and button handling.
type Sink interface {
	DispatchMove(cmd geometry.Polar) *dispatch.Pending
	DispatchAction(name, value string) *dispatch.Pending
}

// Server handles the control websocket: pointer gestures and action buttons.
type Server struct {
	sink     Sink
	session  *state.Session
	logger   *log.Logger
	window   time.Duration
	upgrader websocket.Upgrader
}

// NewServer creates a control websocket server. window is the double-press
// disambiguation window for debounced buttons.
func NewServer(sink Sink, sess *state.Session, window time.Duration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		sink:    sink,
		session: sess,
		logger:  logger,
		window:  window,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages. Messages
// on one connection are handled strictly in arrival order, which carries the
// per-surface ordering guarantee.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	cs := newConnState(s, conn)
	defer cs.close()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		cs.handle(msg)
	}
}

// connState owns the per-connection gesture machines and debounced buttons.
// Machines are keyed by surface ID so multiple joysticks stay isolated.
type connState struct {
	server   *Server
	conn     *websocket.Conn
	writeMu  sync.Mutex
	machines map[string]*gesture.Machine

	buttonMu    sync.Mutex
	buttons     map[string]*debounce.Button
	pressValues map[string]string
}

// newConnState prepares per-connection state.
func newConnState(s *Server, conn *websocket.Conn) *connState {
	return &connState{
		server:      s,
		conn:        conn,
		machines:    make(map[string]*gesture.Machine),
		buttons:     make(map[string]*debounce.Button),
		pressValues: make(map[string]string),
	}
}

// handle dispatches a single control message. Unknown types and malformed
// payloads are skipped; they never tear the connection down.
func (cs *connState) handle(msg Message) {
	switch msg.T {
	case msgStart:
		cs.handleStart(msg)
	case msgMove:
		cs.handleMove(msg)
	case msgEnd, msgLeave, msgCancel:
		cs.handleEnd(msg)
	case msgPress:
		cs.handlePress(msg)
	case msgAction:
		cs.handleAction(msg)
	case msgInput:
		if msg.Enabled != nil {
			cs.server.session.SetInputEnabled(*msg.Enabled)
		}
	default:
	}
}

// handleStart begins a gesture with the bounds measured for this gesture.
func (cs *connState) handleStart(msg Message) {
	if !cs.server.session.InputEnabled() {
		return
	}
	if msg.Rect == nil {
		cs.server.logger.Printf("control: start without bounds, ignoring")
		return
	}
	cs.machine(msg.SID).Start(gesture.Rect{
		X: msg.Rect.X,
		Y: msg.Rect.Y,
		W: msg.Rect.W,
		H: msg.Rect.H,
	})
}

// handleMove resolves one pointer sample. Missing coordinates are a
// malformed event and skip emission without changing state.
func (cs *connState) handleMove(msg Message) {
	if msg.X == nil || msg.Y == nil {
		return
	}
	if !cs.server.session.InputEnabled() {
		return
	}
	sample, ok := cs.machine(msg.SID).Move(geometry.PointerSample{
		X:     *msg.X,
		Y:     *msg.Y,
		Touch: msg.Touch,
	})
	if !ok {
		return
	}
	cs.server.sink.DispatchMove(sample.Command)
	cs.send(markerMessage(surfaceID(msg.SID), sample.MarkerX, sample.MarkerY))
}

// handleEnd releases a gesture. End, leave, and cancel all emit the terminal
// zero command, even when input was disabled mid-drag, so the robot never
// keeps driving.
func (cs *connState) handleEnd(msg Message) {
	sample, ok := cs.machine(msg.SID).End()
	if !ok {
		return
	}
	cs.server.sink.DispatchMove(sample.Command)
	cs.send(markerMessage(surfaceID(msg.SID), sample.MarkerX, sample.MarkerY))
}

// handlePress routes a press through the button's debounce window.
func (cs *connState) handlePress(msg Message) {
	if msg.Name == "" || !cs.server.session.InputEnabled() {
		return
	}
	cs.button(msg.Name, msg.Value).Press()
}

// handleAction dispatches a discrete command immediately, without debouncing.
func (cs *connState) handleAction(msg Message) {
	if msg.Name == "" || !cs.server.session.InputEnabled() {
		return
	}
	cs.server.sink.DispatchAction(msg.Name, msg.Value)
}

// machine returns the gesture machine for a surface, creating it on first
// use. Each surface gets its own machine; there is no shared drag state.
func (cs *connState) machine(sid string) *gesture.Machine {
	id := surfaceID(sid)
	m, ok := cs.machines[id]
	if !ok {
		m = gesture.NewMachine()
		cs.machines[id] = m
	}
	return m
}

// button returns the debounced button for an action, creating it on first
// use, and records the latest value for the eventual fire.
func (cs *connState) button(name, value string) *debounce.Button {
	cs.buttonMu.Lock()
	defer cs.buttonMu.Unlock()

	cs.pressValues[name] = value
	b, ok := cs.buttons[name]
	if !ok {
		b = debounce.NewButton(cs.server.window, func() {
			cs.buttonMu.Lock()
			v := cs.pressValues[name]
			cs.buttonMu.Unlock()
			cs.server.sink.DispatchAction(name, v)
		})
		cs.buttons[name] = b
	}
	return b
}

// send writes an outbound message, serialized against the debounce timers.
func (cs *connState) send(msg Message) {
	cs.writeMu.Lock()
	defer cs.writeMu.Unlock()
	if cs.conn == nil {
		return
	}
	if err := cs.conn.WriteJSON(msg); err != nil {
		cs.server.logger.Printf("control: write failed: %v", err)
	}
}

// close releases connection state. A drag cut off by a dropped connection
// behaves as a release: the terminal zero command still goes out.
func (cs *connState) close() {
	for _, m := range cs.machines {
		if sample, ok := m.End(); ok {
			cs.server.sink.DispatchMove(sample.Command)
		}
	}
	cs.buttonMu.Lock()
	for _, b := range cs.buttons {
		b.Stop()
	}
	cs.buttonMu.Unlock()
	if cs.conn != nil {
		_ = cs.conn.Close()
	}
}

// surfaceID applies the default surface when the client sends none.
func surfaceID(sid string) string {
	if sid == "" {
		return defaultSurface
	}
	return sid
}
