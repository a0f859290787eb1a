package transport

import (
	"sync"

	"github.com/nixith/pinnacle/internal/geom"
)

// StubToplevel is the windowed development frontend's surface handle. It
// records everything the core sends so tests and the headless backend can
// observe the negotiation without a real client.
type StubToplevel struct {
	SurfaceID    SurfaceID
	WindowTitle  string
	WindowClass  string
	OverrideRedi bool
	Compat       bool

	mu         sync.Mutex
	dead       bool
	configures []Configure
	closes     int
	activated  bool
}

func (s *StubToplevel) ID() SurfaceID { return s.SurfaceID }

func (s *StubToplevel) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.dead
}

func (s *StubToplevel) Title() string { return s.WindowTitle }
func (s *StubToplevel) Class() string { return s.WindowClass }

func (s *StubToplevel) SendConfigure(cfg Configure) {
	s.mu.Lock()
	s.configures = append(s.configures, cfg)
	s.mu.Unlock()
}

func (s *StubToplevel) RequestClose() {
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
}

func (s *StubToplevel) SetActivated(activated bool) {
	s.mu.Lock()
	s.activated = activated
	s.mu.Unlock()
}

func (s *StubToplevel) OverrideRedirect() bool { return s.OverrideRedi }

func (s *StubToplevel) Destroy() {
	s.mu.Lock()
	s.dead = true
	s.mu.Unlock()
}

func (s *StubToplevel) Configures() []Configure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Configure, len(s.configures))
	copy(out, s.configures)
	return out
}

// LastConfigure returns the most recent configure, if any.
func (s *StubToplevel) LastConfigure() (Configure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.configures) == 0 {
		return Configure{}, false
	}
	return s.configures[len(s.configures)-1], true
}

func (s *StubToplevel) CloseRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func (s *StubToplevel) IsActivated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activated
}

// StubPopup records popup configures.
type StubPopup struct {
	SurfaceID SurfaceID

	mu            sync.Mutex
	dead          bool
	configures    []geom.Rect
	repositionTks []uint32
}

func (s *StubPopup) ID() SurfaceID { return s.SurfaceID }

func (s *StubPopup) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.dead
}

func (s *StubPopup) SendConfigure(rect geom.Rect) {
	s.mu.Lock()
	s.configures = append(s.configures, rect)
	s.mu.Unlock()
}

func (s *StubPopup) SendRepositioned(token uint32) {
	s.mu.Lock()
	s.repositionTks = append(s.repositionTks, token)
	s.mu.Unlock()
}

func (s *StubPopup) Destroy() {
	s.mu.Lock()
	s.dead = true
	s.mu.Unlock()
}

func (s *StubPopup) Configures() []geom.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]geom.Rect, len(s.configures))
	copy(out, s.configures)
	return out
}

func (s *StubPopup) Repositioned() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint32, len(s.repositionTks))
	copy(out, s.repositionTks)
	return out
}
