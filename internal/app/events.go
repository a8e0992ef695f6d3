package app

// Outbound event names. The transport wraps each with its payload in a
// {"event": ..., "data": ...} envelope.
const (
	EventColor   = "user:color"
	EventHistory = "chat:history"
	EventList    = "user:list"
	EventSystem  = "chat:system"
	EventMessage = "chat:message"
	EventTyping  = "user:typing"
)

// Peer is the transport end of one connection. Implementations must not
// block the router: queue or drop, never wait.
type Peer interface {
	Deliver(event string, data any)
}

// PresenceDTO is one user:list entry (no transport fields).
type PresenceDTO struct {
	Username string `json:"username"`
	Color    string `json:"color"`
}

// TypingDTO is the user:typing broadcast payload.
type TypingDTO struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
