package comp

// Bus events published by the state machine. The control surface streams
// them to remote clients.
type (
	EventWindowMapped struct {
		Window WindowID `json:"window"`
	}

	EventWindowUnmapped struct {
		Window WindowID `json:"window"`
	}

	// EventFocusChanged carries the focus serial; Window is zero when
	// focus was cleared.
	EventFocusChanged struct {
		Window WindowID `json:"window"`
		Serial uint32   `json:"serial"`
	}
)
