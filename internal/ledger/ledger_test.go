package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory_TopOrdersByScoreDescending(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Append(ctx, "alice", 30))
	require.NoError(t, m.Append(ctx, "bob", 55))
	require.NoError(t, m.Append(ctx, "carol", 45))
	require.NoError(t, m.Append(ctx, "alice", 60))

	top, err := m.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	require.Equal(t, "alice", top[0].PlayerName)
	require.Equal(t, 60, top[0].Score)
	require.Equal(t, "bob", top[1].PlayerName)
	require.Equal(t, "carol", top[2].PlayerName)
}

func TestMemory_TopWithFewerEntriesThanRequested(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Append(ctx, "alice", 10))

	top, err := m.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
}

func TestMemory_AppendOnly(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Append(ctx, "alice", 10))
	require.NoError(t, m.Append(ctx, "alice", 25))

	top, err := m.Top(ctx, 10)
	require.NoError(t, err)
	// Both rows survive; the leaderboard view picks the best first.
	require.Len(t, top, 2)
	require.Equal(t, 25, top[0].Score)
}
