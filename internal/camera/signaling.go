package camera

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
)

// SignalMessage is one signaling payload on the camera websocket.
type SignalMessage struct {
	T         string                   `json:"t"`
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
}

// Handler negotiates the camera peer connection over a websocket: the
// browser sends an SDP offer and trickled ICE candidates, the server answers
// with the camera track attached. A new viewer replaces the previous one.
type Handler struct {
	relay    *Relay
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn
}

// NewHandler creates the signaling handler for a relay.
func NewHandler(relay *Relay, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		relay:  relay,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and runs the signaling loop.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.replaceConn(conn)
	defer h.dropConn(conn)

	peer, err := h.relay.NewPeer()
	if err != nil {
		h.logger.Printf("camera: peer setup failed: %v", err)
		return
	}

	peer.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		candidate := c.ToJSON()
		_ = h.sendTo(conn, SignalMessage{T: "ice", Candidate: &candidate})
	})

	for {
		var msg SignalMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := h.handleMessage(conn, peer, msg); err != nil {
			h.logger.Printf("camera: signaling: %v", err)
			return
		}
	}
}

// replaceConn makes conn the active viewer, closing any previous one.
func (h *Handler) replaceConn(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conn != nil {
		_ = h.conn.Close()
	}
	h.conn = conn
}

// dropConn clears state when the active viewer disconnects.
func (h *Handler) dropConn(conn *websocket.Conn) {
	h.mu.Lock()
	if h.conn == conn {
		h.conn = nil
		h.relay.ClosePeer()
	}
	h.mu.Unlock()
	_ = conn.Close()
}

// handleMessage routes one signaling message.
func (h *Handler) handleMessage(conn *websocket.Conn, peer *webrtc.PeerConnection, msg SignalMessage) error {
	switch msg.T {
	case "offer":
		return h.handleOffer(conn, peer, msg.SDP)
	case "ice":
		if msg.Candidate == nil {
			return nil
		}
		return peer.AddICECandidate(*msg.Candidate)
	default:
		return nil
	}
}

// handleOffer answers the browser's SDP offer once ICE gathering completes.
func (h *Handler) handleOffer(conn *websocket.Conn, peer *webrtc.PeerConnection, sdp string) error {
	if sdp == "" {
		return fmt.Errorf("empty offer")
	}
	if err := peer.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  sdp,
	}); err != nil {
		return err
	}
	answer, err := peer.CreateAnswer(nil)
	if err != nil {
		return err
	}
	gathered := webrtc.GatheringCompletePromise(peer)
	if err := peer.SetLocalDescription(answer); err != nil {
		return err
	}
	<-gathered
	local := peer.LocalDescription()
	if local == nil {
		return fmt.Errorf("missing local description")
	}
	return h.sendTo(conn, SignalMessage{T: "answer", SDP: local.SDP})
}

// sendTo writes to conn if it is still the active viewer.
func (h *Handler) sendTo(conn *websocket.Conn, msg SignalMessage) error {
	h.mu.Lock()
	active := h.conn
	h.mu.Unlock()
	if active != conn {
		return fmt.Errorf("viewer no longer active")
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return conn.WriteJSON(msg)
}
