package comp

import (
	"context"
	"log/slog"

	"github.com/nixith/pinnacle/internal/transport"
)

// Loop is the single-threaded event loop that owns the State. Protocol
// events and control-surface closures are serialized through it; the
// pending-action queue is drained at a fixed point after each one.
type Loop struct {
	state  *State
	source transport.Source
	runC   chan func(*State)
	log    *slog.Logger
}

func NewLoop(log *slog.Logger, state *State, source transport.Source) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		state:  state,
		source: source,
		runC:   make(chan func(*State)),
		log:    log.With("package", "comp"),
	}
}

func (l *Loop) String() string {
	return "comp.Loop"
}

// Serve runs the loop until ctx is done. It implements suture.Service.
func (l *Loop) Serve(ctx context.Context) error {
	l.log.Info("Event loop running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-l.source.Events():
			if !ok {
				l.log.Debug("Event source closed")
				return nil
			}
			l.state.Dispatch(msg)
		case fn := <-l.runC:
			fn(l.state)
		}
		l.state.DrainPending()
	}
}

// Run submits fn to the loop and blocks the calling goroutine until it
// has executed. The closure gets exclusive access to the state graph for
// its duration, which makes multi-step remote commands atomic relative to
// protocol events. The loop goroutine itself never blocks here.
func (l *Loop) Run(ctx context.Context, fn func(*State)) error {
	done := make(chan struct{})
	wrapped := func(s *State) {
		defer close(done)
		fn(s)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case l.runC <- wrapped:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Query runs fn on the loop and returns its result to the caller.
func Query[T any](ctx context.Context, l *Loop, fn func(*State) (T, error)) (T, error) {
	var (
		out T
		err error
	)
	runErr := l.Run(ctx, func(s *State) {
		out, err = fn(s)
	})
	if runErr != nil {
		return out, runErr
	}
	return out, err
}
