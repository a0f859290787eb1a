// Package backend abstracts the rendering/output-commit side of the
// compositor. The core only asks it to schedule composition and to deliver
// frame callbacks; it never waits for the result.
package backend

import (
	"sync"
	"time"
)

// Backend is implemented by the DRM backend and by the windowed test
// backend. Capability absence (gamma on the windowed backend) is reported
// through the ok return, not an error.
type Backend interface {
	// ScheduleRender marks the output dirty. Composition happens
	// eventually; repeated calls before the next frame coalesce.
	ScheduleRender(output string)

	// SendFrame delivers a frame callback to every surface of the window
	// currently scanned out on output.
	SendFrame(output string, windowID uint32, now time.Time, refreshHint time.Duration)

	// GammaSize returns the gamma ramp size for output. ok is false when
	// the backend does not support gamma control at all.
	GammaSize(output string) (size uint32, ok bool)
}

// Recorder is a Backend that records calls for tests and for the windowed
// development backend, which has no gamma support.
type Recorder struct {
	mu sync.Mutex

	renders []string
	frames  []FrameRecord
}

type FrameRecord struct {
	Output   string
	WindowID uint32
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) ScheduleRender(output string) {
	r.mu.Lock()
	r.renders = append(r.renders, output)
	r.mu.Unlock()
}

func (r *Recorder) SendFrame(output string, windowID uint32, now time.Time, refreshHint time.Duration) {
	r.mu.Lock()
	r.frames = append(r.frames, FrameRecord{Output: output, WindowID: windowID})
	r.mu.Unlock()
}

func (r *Recorder) GammaSize(output string) (uint32, bool) {
	return 0, false
}

func (r *Recorder) Renders() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.renders))
	copy(out, r.renders)
	return out
}

func (r *Recorder) Frames() []FrameRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FrameRecord, len(r.frames))
	copy(out, r.frames)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.renders = nil
	r.frames = nil
	r.mu.Unlock()
}
