// Package camera republishes the robot camera's RTP stream over WebRTC.
package camera

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v3"
)

// Relay binds a UDP port the robot pushes RTP H264 packets to and forwards
// them into a WebRTC track served to the browser.
type Relay struct {
	mu     sync.Mutex
	api    *webrtc.API
	peer   *webrtc.PeerConnection
	track  *webrtc.TrackLocalStaticRTP
	conn   *net.UDPConn
	cancel context.CancelFunc
}

// NewRelay initializes the WebRTC stack with default codecs and interceptors.
func NewRelay() (*Relay, error) {
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	relay := &Relay{
		api: webrtc.NewAPI(
			webrtc.WithMediaEngine(media),
			webrtc.WithInterceptorRegistry(interceptors),
		),
	}

	track, err := webrtc.NewTrackLocalStaticRTP(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264},
		"video",
		"stuartlink",
	)
	if err != nil {
		return nil, err
	}
	relay.track = track
	return relay, nil
}

// Listen binds the RTP ingest port and starts forwarding. The robot pushes
// from the network, so the socket binds all interfaces.
func (r *Relay) Listen(port int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil {
		return fmt.Errorf("camera: already listening")
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return fmt.Errorf("camera: bind rtp port %d: %w", port, err)
	}
	r.conn = conn

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go r.forward(ctx, conn)
	return nil
}

// forward reads RTP packets and writes them to the track. Packets that fail
// to parse are skipped; the robot's encoder occasionally hiccups.
func (r *Relay) forward(ctx context.Context, conn *net.UDPConn) {
	buf := make([]byte, 1600)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		var pkt rtp.Packet
		if err := pkt.Unmarshal(buf[:n]); err != nil {
			continue
		}
		_ = r.track.WriteRTP(&pkt)
	}
}

// NewPeer creates a peer connection carrying the camera track. Any previous
// peer is closed first: one viewer at a time, newest wins.
func (r *Relay) NewPeer() (*webrtc.PeerConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.peer != nil {
		_ = r.peer.Close()
		r.peer = nil
	}

	peer, err := r.api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, err
	}
	sender, err := peer.AddTrack(r.track)
	if err != nil {
		_ = peer.Close()
		return nil, err
	}

	// Drain RTCP so interceptors keep running.
	go func() {
		buf := make([]byte, 1500)
		for {
			if _, _, err := sender.Read(buf); err != nil {
				return
			}
		}
	}()

	r.peer = peer
	return peer, nil
}

// ClosePeer drops the current viewer's peer connection.
func (r *Relay) ClosePeer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.peer != nil {
		_ = r.peer.Close()
		r.peer = nil
	}
}

// Close stops forwarding and releases the UDP socket and peer.
func (r *Relay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.conn != nil {
		_ = r.conn.Close()
		r.conn = nil
	}
	if r.peer != nil {
		_ = r.peer.Close()
		r.peer = nil
	}
}
