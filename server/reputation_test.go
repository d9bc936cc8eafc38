// Package server
package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicfund/quadfund-backend/types"
)

func TestChargeFor(t *testing.T) {
	srv, _ := createTestSrv(t)

	tests := []struct {
		name     string
		oldTotal uint64
		votes    uint64
		tier     int
		want     uint64
	}{
		{"first five votes, no tier", 0, 5, 0, 25},
		{"five to eight, no tier", 5, 3, 0, 39},
		{"first five votes, tier one", 0, 5, 1, 24},
		{"first five votes, tier two", 0, 5, 2, 23},
		{"single vote floors to cost", 0, 1, 2, 1},
		{"single marginal vote keeps discount", 9, 1, 2, 17},
		{"large purchase, tier two", 0, 10, 2, 92},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, srv.chargeFor(tt.oldTotal, tt.votes, tt.tier))
		})
	}
}

func TestVoterReputation_Accumulates(t *testing.T) {
	ctx := context.Background()
	srv, clock := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	first := createTestProposal(t, srv, testBeneficiary, 100000)
	second := createTestProposal(t, srv, testBeneficiary, 100000)
	fundVoter(t, srv, testVoter, 1000)
	voter := types.AuthContext{Caller: testVoter}

	_, err := srv.Vote(ctx, voter, first.ID, 2)
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)
	_, err = srv.Vote(ctx, voter, first.ID, 2)
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)
	_, err = srv.Vote(ctx, voter, second.ID, 2)
	require.NoError(t, err)

	reputation, err := srv.VoterReputation(ctx, testVoter)
	require.NoError(t, err)
	require.NotNil(t, reputation.Record)
	assert.Equal(t, uint64(3), reputation.Record.Sessions)
	assert.Equal(t, uint64(2), reputation.Record.UniqueProposals)
	assert.Equal(t, uint64(6), reputation.Record.TotalVotes)
	assert.Equal(t, uint64(2), reputation.Stats.DaysActive)
	// Three sessions but only two unique proposals and two days active.
	assert.Equal(t, 0, reputation.Tier)
}

func TestVoterReputation_UnknownVoter(t *testing.T) {
	srv, _ := createTestSrv(t)
	reputation, err := srv.VoterReputation(context.Background(), testVoter)
	require.NoError(t, err)
	assert.Nil(t, reputation.Record)
	assert.Equal(t, 0, reputation.Tier)
}
