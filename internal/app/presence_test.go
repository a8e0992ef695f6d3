package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaychat/relay/internal/domain"
)

func Test_Presence_Put_Get_Snapshot(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	alice := domain.Participant{ConnID: "c1", Username: "alice", Color: "#e21400"}
	bob := domain.Participant{ConnID: "c2", Username: "bob", Color: "#91580f"}
	presence.Put(alice)
	presence.Put(bob)

	got, ok := presence.Get("c1")
	req.True(ok)
	req.Equal(alice, got)

	snap := presence.Snapshot()
	req.Len(snap, 2)
	req.ElementsMatch([]domain.Participant{alice, bob}, snap)
}

func Test_Presence_Remove_Absent_Is_Not_An_Error(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	_, ok := presence.Remove("ghost")
	req.False(ok)

	presence.Put(domain.Participant{ConnID: "c1", Username: "alice", Color: "#e21400"})
	removed, ok := presence.Remove("c1")
	req.True(ok)
	req.Equal("alice", removed.Username)

	// Transport double-fire: second removal stays silent.
	_, ok = presence.Remove("c1")
	req.False(ok)
	req.Empty(presence.Snapshot())
}

func Test_Presence_Snapshot_Is_A_Copy(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()
	presence.Put(domain.Participant{ConnID: "c1", Username: "alice", Color: "#e21400"})

	snap := presence.Snapshot()
	presence.Put(domain.Participant{ConnID: "c2", Username: "bob", Color: "#91580f"})
	req.Len(snap, 1)
}
