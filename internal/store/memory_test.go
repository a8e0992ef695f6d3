package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relaychat/relay/internal/domain"
)

func stubMessage(i int, at time.Time) domain.ChatMessage {
	return domain.ChatMessage{
		Username:  "alice",
		Text:      fmt.Sprintf("msg %d", i),
		Color:     "#e21400",
		Timestamp: at.Add(time.Duration(i) * time.Second),
	}
}

func Test_Memory_Store_Evicts_Oldest_First(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()
	ctx := context.Background()
	at := time.Now().UTC()

	for i := 0; i < 60; i++ {
		req.NoError(s.Append(ctx, stubMessage(i, at)))
	}

	got, err := s.LoadRecent(ctx)
	req.NoError(err)
	req.Len(got, MemoryCap)
	req.Equal("msg 10", got[0].Text)
	req.Equal("msg 59", got[len(got)-1].Text)
}

func Test_Memory_Store_Load_Returns_A_Copy(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()
	ctx := context.Background()
	at := time.Now().UTC()

	req.NoError(s.Append(ctx, stubMessage(0, at)))
	got, err := s.LoadRecent(ctx)
	req.NoError(err)

	req.NoError(s.Append(ctx, stubMessage(1, at)))
	req.Len(got, 1)
	req.Equal("msg 0", got[0].Text)
}

func Test_Memory_Store_Preserves_Insertion_Order(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()
	ctx := context.Background()
	at := time.Now().UTC()

	for i := 0; i < 5; i++ {
		req.NoError(s.Append(ctx, stubMessage(i, at)))
	}
	got, err := s.LoadRecent(ctx)
	req.NoError(err)
	for i, msg := range got {
		req.Equal(fmt.Sprintf("msg %d", i), msg.Text)
	}
}
