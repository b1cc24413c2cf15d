// Package state holds runtime state for the teleoperation session.
package state

import "sync"

// ModeDirect pushes commands to the robot's HTTP server.
const ModeDirect = "direct"

// ModeRelay stores commands for the robot to poll.
const ModeRelay = "relay"

// Snapshot is a read-only view of the current session state.
type Snapshot struct {
	Mode          string
	InputEnabled  bool
	RobotURL      string
	CameraEnabled bool
}

// Session holds the operator-facing runtime switches. One instance serves the
// whole server; the per-surface gesture state lives with each connection.
type Session struct {
	mu            sync.RWMutex
	mode          string
	inputEnabled  bool
	robotURL      string
	cameraEnabled bool
}

// New returns a session with input forwarding enabled.
func New(mode, robotURL string, cameraEnabled bool) *Session {
	return &Session{
		mode:          mode,
		inputEnabled:  true,
		robotURL:      robotURL,
		cameraEnabled: cameraEnabled,
	}
}

// SetInputEnabled toggles whether operator input reaches the robot.
func (s *Session) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputEnabled = enabled
}

// InputEnabled reports whether operator input reaches the robot.
func (s *Session) InputEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputEnabled
}

// Mode returns the configured dispatch mode.
func (s *Session) Mode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Mode:          s.mode,
		InputEnabled:  s.inputEnabled,
		RobotURL:      s.robotURL,
		CameraEnabled: s.cameraEnabled,
	}
}
