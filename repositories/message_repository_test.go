package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreimer702/Rettnar/domain"
)

func TestMessageRepository_ConversationStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	const alice, bob, carol, dave = 1, 2, 3, 4
	sent := time.Date(2031, time.January, 1, 12, 0, 0, 0, time.UTC)
	send := func(from, to uint) *domain.Message {
		t.Helper()
		sent = sent.Add(time.Minute)
		m := &domain.Message{SenderID: from, ReceiverID: to, Content: "hi", SentAt: sent}
		require.NoError(t, repo.Create(ctx, m))
		return m
	}

	send(bob, alice)
	send(alice, bob)
	lastBob := send(bob, alice)
	send(carol, alice)
	lastCarol := send(alice, carol)
	send(bob, dave)

	_, err := repo.MarkRead(ctx, alice, carol, sent)
	require.NoError(t, err)

	stats, err := repo.ConversationStats(ctx, alice)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byOther := map[uint]ConversationStat{}
	for _, st := range stats {
		byOther[st.OtherID] = st
	}
	assert.Equal(t, lastBob.ID, byOther[bob].LastMessageID)
	assert.Equal(t, int64(2), byOther[bob].UnreadCount)
	assert.Equal(t, lastCarol.ID, byOther[carol].LastMessageID)
	assert.Equal(t, int64(0), byOther[carol].UnreadCount)

	last, err := repo.ListByIDs(ctx, []uint{lastBob.ID, lastCarol.ID})
	require.NoError(t, err)
	require.Len(t, last, 2)
	// El más nuevo primero
	assert.Equal(t, lastCarol.ID, last[0].ID)

	none, err := repo.ConversationStats(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}
