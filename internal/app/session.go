package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/relaychat/relay/internal/domain"
	"github.com/relaychat/relay/internal/store"
)

// SessionRouter is the broadcast engine. It owns the peer set, the
// presence registry, color allocation and the message store handle, all
// constructed once at boot and shared by every connection handler.
//
// A connection moves Unjoined -> Joined -> Disconnected. Every event
// other than Join and Disconnect is silently ignored while Unjoined,
// and nothing here ever propagates an error back to the transport.
type SessionRouter struct {
	presence *Presence
	colors   *ColorWheel
	store    store.MessageStore

	mu    sync.RWMutex
	peers map[domain.ConnID]Peer

	// msgMu serializes stamp, append and fan-out of one message, so
	// emission order always matches timestamp order.
	msgMu  sync.Mutex
	lastTS time.Time
}

func NewSessionRouter(st store.MessageStore) *SessionRouter {
	return &SessionRouter{
		presence: NewPresence(),
		colors:   NewColorWheel(),
		store:    st,
		peers:    make(map[domain.ConnID]Peer),
	}
}

// Connect attaches a transport peer that has not joined yet. No
// broadcasts happen until Join.
func (r *SessionRouter) Connect(id domain.ConnID, peer Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[id] = peer
}

// Join registers the participant and replays state to it: first the
// assigned color and the history (unicast), then the roster to everyone
// and a join notice to everyone else.
func (r *SessionRouter) Join(ctx context.Context, id domain.ConnID, username string) {
	if _, ok := r.presence.Get(id); ok {
		// A second join on a live connection keeps its original identity.
		log.Debug().Str("module", "app.session").Str("conn", string(id)).Msg("duplicate join ignored")
		return
	}
	member := domain.Participant{ConnID: id, Username: username, Color: r.colors.Next()}
	r.presence.Put(member)

	r.deliver(id, EventColor, member.Color)

	history, err := r.store.LoadRecent(ctx)
	if err != nil {
		log.Error().Err(err).Str("module", "app.session").Msg("history load failed")
		history = nil
	}
	if history == nil {
		history = []domain.ChatMessage{}
	}
	r.deliver(id, EventHistory, history)

	r.broadcastAll(EventList, r.roster())
	r.broadcastExcept(id, EventSystem, username+" joined the chat")
}

// Message accepts text from a joined connection, persists it best-effort
// and fans it out to everyone, sender included. Unjoined senders are
// ignored; empty-after-trim text is still sent.
func (r *SessionRouter) Message(ctx context.Context, id domain.ConnID, text string) {
	member, ok := r.presence.Get(id)
	if !ok {
		return
	}
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > domain.MaxMessageLen {
		text = string(runes[:domain.MaxMessageLen])
	}

	// One message at a time from here on: a second sender must not
	// stamp later and broadcast earlier.
	r.msgMu.Lock()
	defer r.msgMu.Unlock()

	msg := domain.ChatMessage{
		Username:  member.Username,
		Text:      text,
		Color:     member.Color,
		Timestamp: r.stamp(),
	}
	if err := r.store.Append(ctx, msg); err != nil {
		// Live delivery proceeds without durability.
		log.Warn().Err(err).Str("module", "app.session").Str("username", member.Username).Msg("message not persisted")
	}
	r.broadcastAll(EventMessage, msg)
}

// Typing relays the indicator to everyone except the sender. One call,
// one broadcast; any debouncing is the client's business.
func (r *SessionRouter) Typing(id domain.ConnID, isTyping bool) {
	member, ok := r.presence.Get(id)
	if !ok {
		return
	}
	r.broadcastExcept(id, EventTyping, TypingDTO{Username: member.Username, IsTyping: isTyping})
}

// Disconnect detaches the transport and, if the connection had joined,
// tells everyone left. Safe to call more than once.
func (r *SessionRouter) Disconnect(id domain.ConnID) {
	r.mu.Lock()
	delete(r.peers, id)
	r.mu.Unlock()

	member, ok := r.presence.Remove(id)
	if !ok {
		return
	}
	r.broadcastAll(EventList, r.roster())
	r.broadcastAll(EventSystem, member.Username+" left the chat")
}

func (r *SessionRouter) roster() []PresenceDTO {
	return lo.Map(r.presence.Snapshot(), func(m domain.Participant, _ int) PresenceDTO {
		return PresenceDTO{Username: m.Username, Color: m.Color}
	})
}

func (r *SessionRouter) deliver(id domain.ConnID, event string, data any) {
	r.mu.RLock()
	peer, ok := r.peers[id]
	r.mu.RUnlock()
	if ok {
		peer.Deliver(event, data)
	}
}

func (r *SessionRouter) broadcastAll(event string, data any) {
	for _, peer := range r.targets("") {
		peer.Deliver(event, data)
	}
}

func (r *SessionRouter) broadcastExcept(except domain.ConnID, event string, data any) {
	for _, peer := range r.targets(except) {
		peer.Deliver(event, data)
	}
}

// targets snapshots the peer set so sends happen outside the lock.
func (r *SessionRouter) targets(except domain.ConnID) []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Peer, 0, len(r.peers))
	for id, peer := range r.peers {
		if except != "" && id == except {
			continue
		}
		out = append(out, peer)
	}
	return out
}

// stamp returns a timestamp that never moves backwards, even when the
// wall clock does. Callers must hold msgMu.
func (r *SessionRouter) stamp() time.Time {
	now := time.Now().UTC()
	if now.Before(r.lastTS) {
		now = r.lastTS
	}
	r.lastTS = now
	return now
}
