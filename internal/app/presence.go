package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/relaychat/relay/internal/domain"
)

// Presence maps live connections to joined participants. It is the
// source of truth for who is online.
type Presence struct {
	mu      sync.RWMutex
	members map[domain.ConnID]domain.Participant
}

func NewPresence() *Presence {
	return &Presence{members: make(map[domain.ConnID]domain.Participant)}
}

func (p *Presence) Put(member domain.Participant) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.members[member.ConnID] = member
	log.Info().Str("module", "app.presence").Str("conn", string(member.ConnID)).Str("username", member.Username).Msg("participant registered")
}

func (p *Presence) Get(id domain.ConnID) (domain.Participant, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	member, ok := p.members[id]
	return member, ok
}

// Remove reports false when the connection was never joined. Duplicate
// disconnects land here and must stay silent, so absence is not an error.
func (p *Presence) Remove(id domain.ConnID) (domain.Participant, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	member, ok := p.members[id]
	if !ok {
		return domain.Participant{}, false
	}
	delete(p.members, id)
	log.Info().Str("module", "app.presence").Str("conn", string(id)).Str("username", member.Username).Msg("participant removed")
	return member, true
}

func (p *Presence) Snapshot() []domain.Participant {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Participant, 0, len(p.members))
	for _, member := range p.members {
		out = append(out, member)
	}
	return out
}
