package domain

import "time"

// MaxMessageLen caps message text; longer input keeps its leading runes.
const MaxMessageLen = 2000

// ChatMessage is one immutable chat record. Color is copied from the
// sender at send time, never looked up again later.
type ChatMessage struct {
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Color     string    `json:"color"`
	Timestamp time.Time `json:"timestamp"`
}
