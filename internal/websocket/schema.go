package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	// ActionPing is the study-timer heartbeat. Each ping keeps the open
	// segment alive and is answered with a pong carrying the elapsed total.
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError Event = "error"
	EventPong  Event = "pong"
)

// PongResponse answers a ping with the session's accumulated study time.
type PongResponse struct {
	Event     Event `json:"event"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
