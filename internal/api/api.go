// Package api is the HTTP control surface. Every operation round-trips
// through the compositor loop so handlers never touch state concurrently.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/k0kubun/pp"
	"github.com/nixith/pinnacle/internal/backend"
	"github.com/nixith/pinnacle/internal/build"
	"github.com/nixith/pinnacle/internal/bus"
	"github.com/nixith/pinnacle/internal/comp"
	"github.com/nixith/pinnacle/internal/config"
	"github.com/nixith/pinnacle/pkg/chiext"
)

type Server struct {
	log      *slog.Logger
	loop     *comp.Loop
	backend  backend.Backend
	shutdown func()

	mapped   *bus.Hub[comp.EventWindowMapped]
	unmapped *bus.Hub[comp.EventWindowUnmapped]
	focus    *bus.Hub[comp.EventFocusChanged]
}

// NewServer wires the control surface against the loop. shutdown is
// invoked by the quit operation and must be safe to call once.
func NewServer(log *slog.Logger, loop *comp.Loop, be backend.Backend, shutdown func()) *Server {
	return &Server{
		log:      log,
		loop:     loop,
		backend:  be,
		shutdown: shutdown,
		mapped:   bus.NewHub[comp.EventWindowMapped]().Register(),
		unmapped: bus.NewHub[comp.EventWindowUnmapped]().Register(),
		focus:    bus.NewHub[comp.EventFocusChanged]().Register(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chiext.Logger())

	a := humachi.New(r, huma.DefaultConfig("pinnacle", build.Current.Version))
	s.register(a)

	r.Get("/debug/state", s.debugState)

	return r
}

type idPath struct {
	ID uint32 `path:"id"`
}

// Path params must be declared on the input struct itself, huma does not
// resolve them through embedded structs.
type idModeInput struct {
	ID   uint32 `path:"id"`
	Body struct {
		Mode string `json:"mode" enum:"set,unset,toggle"`
	}
}

type windowOutput struct {
	Body Window
}

type listOutput[T any] struct {
	Body []T
}

func (s *Server) register(a huma.API) {
	huma.Register(a, huma.Operation{
		OperationID: "list-windows",
		Method:      http.MethodGet,
		Path:        "/windows",
		Summary:     "List windows",
	}, func(ctx context.Context, _ *struct{}) (*listOutput[Window], error) {
		body, err := comp.Query(ctx, s.loop, func(st *comp.State) ([]Window, error) {
			windows := []Window{}
			for _, win := range st.Windows() {
				windows = append(windows, newWindow(st, win))
			}
			return windows, nil
		})
		if err != nil {
			return nil, err
		}
		return &listOutput[Window]{Body: body}, nil
	})

	huma.Register(a, huma.Operation{
		OperationID: "get-window",
		Method:      http.MethodGet,
		Path:        "/windows/{id}",
		Summary:     "Get a window",
	}, func(ctx context.Context, input *idPath) (*windowOutput, error) {
		body, err := comp.Query(ctx, s.loop, func(st *comp.State) (*Window, error) {
			win := st.Window(comp.WindowID(input.ID))
			if win == nil {
				return nil, nil
			}
			out := newWindow(st, win)
			return &out, nil
		})
		if err != nil {
			return nil, err
		}
		if body == nil {
			return nil, huma.Error404NotFound("window not found")
		}
		return &windowOutput{Body: *body}, nil
	})

	s.windowAction(a, "close-window", "/windows/{id}/close", "Ask the client to close the window", func(st *comp.State, id comp.WindowID) {
		st.Close(id)
	})

	s.windowAction(a, "raise-window", "/windows/{id}/raise", "Raise the window to the top of the stack", func(st *comp.State, id comp.WindowID) {
		st.Raise(id)
	})

	huma.Register(a, huma.Operation{
		OperationID:   "set-window-geometry",
		Method:        http.MethodPost,
		Path:          "/windows/{id}/set-geometry",
		Summary:       "Set part or all of the window's floating geometry",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		ID   uint32 `path:"id"`
		Body struct {
			X      *int `json:"x,omitempty"`
			Y      *int `json:"y,omitempty"`
			Width  *int `json:"width,omitempty" minimum:"1"`
			Height *int `json:"height,omitempty" minimum:"1"`
		}
	}) (*struct{}, error) {
		err := s.loop.Run(ctx, func(st *comp.State) {
			st.SetGeometry(comp.WindowID(input.ID), input.Body.X, input.Body.Y, input.Body.Width, input.Body.Height)
		})
		return nil, err
	})

	s.windowModeAction(a, "set-window-fullscreen", "/windows/{id}/set-fullscreen", "Set, unset or toggle fullscreen", (*comp.State).SetFullscreen)
	s.windowModeAction(a, "set-window-maximized", "/windows/{id}/set-maximized", "Set, unset or toggle maximized", (*comp.State).SetMaximized)
	s.windowModeAction(a, "set-window-floating", "/windows/{id}/set-floating", "Set, unset or toggle floating", (*comp.State).SetFloating)

	huma.Register(a, huma.Operation{
		OperationID:   "set-window-focused",
		Method:        http.MethodPost,
		Path:          "/windows/{id}/set-focused",
		Summary:       "Set, unset or toggle keyboard focus",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *idModeInput) (*struct{}, error) {
		mode, err := comp.ParseSetOrToggle(input.Body.Mode)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		var opErr error
		err = s.loop.Run(ctx, func(st *comp.State) {
			id := comp.WindowID(input.ID)
			switch mode {
			case comp.SetOrToggleSet:
				opErr = st.SetKeyboardFocus(id)
			case comp.SetOrToggleUnset:
				opErr = st.UnsetKeyboardFocus(id)
			case comp.SetOrToggleToggle:
				if focused := st.FocusedWindow(); focused != nil && focused.ID == id {
					opErr = st.UnsetKeyboardFocus(id)
				} else {
					opErr = st.SetKeyboardFocus(id)
				}
			}
		})
		if err != nil {
			return nil, err
		}
		if errors.Is(opErr, comp.ErrNoKeyboard) {
			return nil, huma.Error409Conflict("seat has no keyboard")
		}
		return nil, opErr
	})

	huma.Register(a, huma.Operation{
		OperationID:   "move-window-to-tag",
		Method:        http.MethodPost,
		Path:          "/windows/{id}/move-to-tag",
		Summary:       "Replace the window's tags with a single tag",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		ID   uint32 `path:"id"`
		Body struct {
			Tag uint32 `json:"tag"`
		}
	}) (*struct{}, error) {
		err := s.loop.Run(ctx, func(st *comp.State) {
			st.MoveWindowToTag(comp.WindowID(input.ID), comp.TagID(input.Body.Tag))
		})
		return nil, err
	})

	huma.Register(a, huma.Operation{
		OperationID:   "set-window-tag",
		Method:        http.MethodPost,
		Path:          "/windows/{id}/set-tag",
		Summary:       "Set, unset or toggle the window's membership in a tag",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		ID   uint32 `path:"id"`
		Body struct {
			Tag  uint32 `json:"tag"`
			Mode string `json:"mode" enum:"set,unset,toggle"`
		}
	}) (*struct{}, error) {
		mode, err := comp.ParseSetOrToggle(input.Body.Mode)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		err = s.loop.Run(ctx, func(st *comp.State) {
			st.SetWindowTag(comp.WindowID(input.ID), comp.TagID(input.Body.Tag), mode)
		})
		return nil, err
	})

	huma.Register(a, huma.Operation{
		OperationID:   "add-window-rule",
		Method:        http.MethodPost,
		Path:          "/window-rules",
		Summary:       "Add a window rule applied to newly mapping windows",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		Body config.WindowRule
	}) (*struct{}, error) {
		rule, err := comp.RuleFromConfig(input.Body.Rule)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		cond := comp.CondFromConfig(input.Body.Cond)
		err = s.loop.Run(ctx, func(st *comp.State) {
			st.AddWindowRule(cond, rule)
		})
		return nil, err
	})

	huma.Register(a, huma.Operation{
		OperationID:   "begin-move-grab",
		Method:        http.MethodPost,
		Path:          "/grabs/move",
		Summary:       "Begin an interactive move of the window under the pointer",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		Body struct {
			Button uint32 `json:"button"`
		}
	}) (*struct{}, error) {
		err := s.loop.Run(ctx, func(st *comp.State) {
			st.BeginMoveGrab(input.Body.Button)
		})
		return nil, err
	})

	huma.Register(a, huma.Operation{
		OperationID:   "begin-resize-grab",
		Method:        http.MethodPost,
		Path:          "/grabs/resize",
		Summary:       "Begin an interactive resize of the window under the pointer",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		Body struct {
			Button uint32 `json:"button"`
		}
	}) (*struct{}, error) {
		err := s.loop.Run(ctx, func(st *comp.State) {
			st.BeginResizeGrab(input.Body.Button)
		})
		return nil, err
	})

	huma.Register(a, huma.Operation{
		OperationID: "list-tags",
		Method:      http.MethodGet,
		Path:        "/tags",
		Summary:     "List tags",
	}, func(ctx context.Context, _ *struct{}) (*listOutput[Tag], error) {
		body, err := comp.Query(ctx, s.loop, func(st *comp.State) ([]Tag, error) {
			tags := []Tag{}
			for _, tag := range st.Tags() {
				tags = append(tags, newTag(tag))
			}
			return tags, nil
		})
		if err != nil {
			return nil, err
		}
		return &listOutput[Tag]{Body: body}, nil
	})

	huma.Register(a, huma.Operation{
		OperationID:   "set-tag-active",
		Method:        http.MethodPost,
		Path:          "/tags/{id}/set-active",
		Summary:       "Set, unset or toggle a tag's visibility on its output",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *idModeInput) (*struct{}, error) {
		mode, err := comp.ParseSetOrToggle(input.Body.Mode)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		err = s.loop.Run(ctx, func(st *comp.State) {
			id := comp.TagID(input.ID)
			switch mode {
			case comp.SetOrToggleSet:
				st.SetTagActive(id, true)
			case comp.SetOrToggleUnset:
				st.SetTagActive(id, false)
			case comp.SetOrToggleToggle:
				st.ToggleTagActive(id)
			}
		})
		return nil, err
	})

	huma.Register(a, huma.Operation{
		OperationID: "list-outputs",
		Method:      http.MethodGet,
		Path:        "/outputs",
		Summary:     "List outputs",
	}, func(ctx context.Context, _ *struct{}) (*listOutput[Output], error) {
		body, err := comp.Query(ctx, s.loop, func(st *comp.State) ([]Output, error) {
			outputs := []Output{}
			for _, op := range st.Outputs() {
				outputs = append(outputs, newOutput(st, op))
			}
			return outputs, nil
		})
		if err != nil {
			return nil, err
		}
		return &listOutput[Output]{Body: body}, nil
	})

	huma.Register(a, huma.Operation{
		OperationID: "get-output-gamma",
		Method:      http.MethodGet,
		Path:        "/outputs/{name}/gamma",
		Summary:     "Get the gamma ramp size for an output",
	}, func(ctx context.Context, input *struct {
		Name string `path:"name"`
	}) (*struct {
		Body struct {
			Size uint32 `json:"size"`
		}
	}, error) {
		exists, err := comp.Query(ctx, s.loop, func(st *comp.State) (bool, error) {
			return st.Output(input.Name) != nil, nil
		})
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, huma.Error404NotFound("output not found")
		}

		size, ok := s.backend.GammaSize(input.Name)
		if !ok {
			return nil, huma.Error501NotImplemented("backend does not support gamma control")
		}

		out := &struct {
			Body struct {
				Size uint32 `json:"size"`
			}
		}{}
		out.Body.Size = size
		return out, nil
	})

	huma.Register(a, huma.Operation{
		OperationID:   "quit",
		Method:        http.MethodPost,
		Path:          "/quit",
		Summary:       "Shut the compositor down",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		s.log.Info("Quit requested")
		s.shutdown()
		return nil, nil
	})

	sse.Register(a, huma.Operation{
		OperationID: "events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "Stream compositor events",
	}, map[string]any{
		"window-mapped":   comp.EventWindowMapped{},
		"window-unmapped": comp.EventWindowUnmapped{},
		"focus-changed":   comp.EventFocusChanged{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		mapped, unsubMapped := s.mapped.Subscribe(ctx)
		defer unsubMapped()
		unmapped, unsubUnmapped := s.unmapped.Subscribe(ctx)
		defer unsubUnmapped()
		focus, unsubFocus := s.focus.Subscribe(ctx)
		defer unsubFocus()

		for {
			var err error
			select {
			case <-ctx.Done():
				return
			case ev := <-mapped:
				err = send.Data(ev)
			case ev := <-unmapped:
				err = send.Data(ev)
			case ev := <-focus:
				err = send.Data(ev)
			}
			if err != nil {
				return
			}
		}
	})
}

// windowAction registers a POST that runs a state mutation against a
// window id. Stale ids are silent no-ops.
func (s *Server) windowAction(a huma.API, id, path, summary string, fn func(st *comp.State, id comp.WindowID)) {
	huma.Register(a, huma.Operation{
		OperationID:   id,
		Method:        http.MethodPost,
		Path:          path,
		Summary:       summary,
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *idPath) (*struct{}, error) {
		err := s.loop.Run(ctx, func(st *comp.State) {
			fn(st, comp.WindowID(input.ID))
		})
		return nil, err
	})
}

func (s *Server) windowModeAction(a huma.API, id, path, summary string, fn func(st *comp.State, id comp.WindowID, mode comp.SetOrToggle)) {
	huma.Register(a, huma.Operation{
		OperationID:   id,
		Method:        http.MethodPost,
		Path:          path,
		Summary:       summary,
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *idModeInput) (*struct{}, error) {
		mode, err := comp.ParseSetOrToggle(input.Body.Mode)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		err = s.loop.Run(ctx, func(st *comp.State) {
			fn(st, comp.WindowID(input.ID), mode)
		})
		return nil, err
	})
}

// debugState dumps the full state machine for troubleshooting. Plain chi
// handler so the output stays free-form text.
func (s *Server) debugState(w http.ResponseWriter, r *http.Request) {
	type snapshot struct {
		Windows []Window
		Tags    []Tag
		Outputs []Output
		Grab    *comp.Grab
	}

	snap, err := comp.Query(r.Context(), s.loop, func(st *comp.State) (snapshot, error) {
		var snap snapshot
		for _, win := range st.Windows() {
			snap.Windows = append(snap.Windows, newWindow(st, win))
		}
		for _, tag := range st.Tags() {
			snap.Tags = append(snap.Tags, newTag(tag))
		}
		for _, op := range st.Outputs() {
			snap.Outputs = append(snap.Outputs, newOutput(st, op))
		}
		snap.Grab = st.ActiveGrab()
		return snap, nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	pp.ColoringEnabled = false

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	pp.Fprintln(w, snap)
}
