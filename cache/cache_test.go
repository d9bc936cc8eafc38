// Package cache
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

// Runs against a live redis named by TEST_REDIS_URI, e.g. localhost:6379.
func setupTestCache(t *testing.T) Client {
	url := os.Getenv("TEST_REDIS_URI")
	if url == "" {
		t.Skip("TEST_REDIS_URI not set")
	}
	client, err := New(Config{
		Adapter:            RedisAdapter,
		URL:                url,
		DB:                 0,
		IsFlush:            true,
		DefaultExpiredTime: time.Hour,
		Logger:             zap.NewNop(),
	})
	require.NoError(t, err)
	return client
}

func TestRedis_ProposalRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := setupTestCache(t)

	proposal := &types.Proposal{
		ID:         42,
		Milestones: []*types.Milestone{{VoteThreshold: 2, Amount: 200}},
		Valid:      true,
	}
	require.NoError(t, client.UpdateProposalDetail(ctx, proposal))

	cached, err := client.ProposalDetail(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, proposal.ID, cached.ID)
	assert.Equal(t, uint64(2), cached.Milestones[0].VoteThreshold)

	require.NoError(t, client.InvalidateProposal(ctx, 42))
	_, err = client.ProposalDetail(ctx, 42)
	assert.Error(t, err)
}

func TestRedis_LatestEvents(t *testing.T) {
	ctx := context.Background()
	client := setupTestCache(t)

	for i := 1; i <= 3; i++ {
		require.NoError(t, client.PublishEvent(ctx, &types.Event{
			Type:       types.EventVoteCast,
			ProposalID: uint64(i),
			Timestamp:  int64(i),
		}))
	}

	events, err := client.LatestEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Newest first.
	assert.Equal(t, uint64(3), events[0].ProposalID)
	assert.Equal(t, uint64(2), events[1].ProposalID)
}
