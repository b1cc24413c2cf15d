// Package relay stores the latest drive command for robots that poll instead
// of accepting inbound requests.
package relay

import (
	"sync"
	"time"

	"github.com/frudas24/stuartlink/internal/drive"
)

// DefaultStaleAfter zeroes wheel velocities when the operator goes quiet, so
// a dropped browser never leaves the robot driving.
const DefaultStaleAfter = time.Second

// Store holds the most recent wheel pair and the pending coffee flag.
type Store struct {
	mu         sync.Mutex
	wheels     drive.Wheels
	updatedAt  time.Time
	coffee     bool
	staleAfter time.Duration
	now        func() time.Time
}

// NewStore returns a store with the given staleness window.
func NewStore(staleAfter time.Duration) *Store {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Store{staleAfter: staleAfter, now: time.Now}
}

// SetNowFunc overrides the clock used for staleness checks.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// SetWheels stores the latest wheel pair.
func (s *Store) SetWheels(w drive.Wheels) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wheels = w
	s.updatedAt = s.now()
}

// RequestCoffee flags the robot to brew on its next poll.
func (s *Store) RequestCoffee() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coffee = true
}

// Values returns the wheel pair and coffee flag for one robot poll. Wheel
// values older than the staleness window read as zero, and the coffee flag
// clears on read so a brew triggers once.
func (s *Store) Values() (drive.Wheels, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.wheels
	if s.updatedAt.IsZero() || s.now().Sub(s.updatedAt) > s.staleAfter {
		w = drive.Wheels{}
	}
	coffee := s.coffee
	s.coffee = false
	return w, coffee
}
