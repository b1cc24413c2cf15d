package app

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/frudas24/stuartlink/internal/geometry"
	"github.com/frudas24/stuartlink/internal/web"
)

// maxResultWait bounds how long the HTTP fallback handlers wait to report a
// command's outcome before answering "queued".
const maxResultWait = 2 * time.Second

// RegisterRoutes wires API, websocket, and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		staticDir = filepath.Join("internal", "web", "static")
	}

	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/phrases", a.handlePhrases)
	mux.HandleFunc("/api/move", a.handleMove)
	mux.HandleFunc("/api/action", a.handleAction)
	mux.Handle("/ws/control", a.control)
	if a.cameraWS != nil {
		mux.Handle("/ws/camera", a.cameraWS)
	}
	if a.relayStore != nil {
		mux.HandleFunc("/get_wheel_values", a.handleWheelValues)
	}
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/favicon.ico", handleFavicon)

	mux.Handle("/", staticFileServer(staticDir))
}

type stateResponse struct {
	Mode          string `json:"mode"`
	InputEnabled  bool   `json:"inputEnabled"`
	RobotURL      string `json:"robotUrl,omitempty"`
	CameraEnabled bool   `json:"cameraEnabled"`
}

type moveRequest struct {
	Angle    *float64 `json:"angle"`
	Distance *float64 `json:"distance"`
}

type actionRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type commandResponse struct {
	OK     bool   `json:"ok"`
	Queued bool   `json:"queued,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleState returns current session state.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	snap := a.session.Snapshot()
	writeJSON(w, stateResponse{
		Mode:          snap.Mode,
		InputEnabled:  snap.InputEnabled,
		RobotURL:      snap.RobotURL,
		CameraEnabled: snap.CameraEnabled,
	})
}

// handlePhrases returns the say-phrase catalog.
func (a *App) handlePhrases(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.catalog)
}

// handleMove is the plain-HTTP fallback for clients without a websocket. It
// validates and dispatches one movement command.
func (a *App) handleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !a.session.InputEnabled() {
		http.Error(w, "input disabled", http.StatusConflict)
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Angle == nil || req.Distance == nil ||
		!isFinite(*req.Angle) || !isFinite(*req.Distance) || *req.Distance < 0 {
		http.Error(w, "angle and distance required", http.StatusBadRequest)
		return
	}

	pending := a.dispatcher.DispatchMove(geometry.Polar{Angle: *req.Angle, Distance: *req.Distance})
	a.writeOutcome(w, r, pending.Done(), pending.Err)
}

// handleAction is the plain-HTTP fallback for discrete commands.
func (a *App) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !a.session.InputEnabled() {
		http.Error(w, "input disabled", http.StatusConflict)
		return
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "action name required", http.StatusBadRequest)
		return
	}

	pending := a.dispatcher.DispatchAction(req.Name, req.Value)
	a.writeOutcome(w, r, pending.Done(), pending.Err)
}

// writeOutcome waits briefly for a dispatch to settle so transport failures
// surface to the caller, then falls back to reporting it as queued.
func (a *App) writeOutcome(w http.ResponseWriter, r *http.Request, done <-chan struct{}, errFn func() error) {
	select {
	case <-done:
		if err := errFn(); err != nil {
			writeJSON(w, commandResponse{OK: false, Error: err.Error()})
			return
		}
		writeJSON(w, commandResponse{OK: true})
	case <-time.After(maxResultWait):
		writeJSON(w, commandResponse{OK: true, Queued: true})
	case <-r.Context().Done():
	}
}

// handleWheelValues serves the robot's poll in relay mode, in the format the
// robot's control loop expects.
func (a *App) handleWheelValues(w http.ResponseWriter, _ *http.Request) {
	wheels, coffee := a.relayStore.Values()
	writeJSON(w, map[string]any{
		"left_vel":    wheels.Left,
		"right_vel":   wheels.Right,
		"make_coffee": coffee,
	})
}

// handleHealthz reports liveness.
func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]bool{"ok": true})
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// isFinite rejects NaN and infinities from client payloads.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// staticFileServer returns a handler for static assets, preferring disk then
// embed.
func staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		log.Printf("static assets unavailable: %v", err)
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}
