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

func TestVote_QuadraticCost(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 100000)
	fundVoter(t, srv, testVoter, 100)

	voter := types.AuthContext{Caller: testVoter}
	result, err := srv.Vote(ctx, voter, proposal.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), result.CreditsCharged)
	assert.Equal(t, uint64(5), result.TotalVotes)
	assert.Equal(t, 0, result.Tier)

	// Marginal cost of going from 5 to 8 votes is 8²-5².
	result, err = srv.Vote(ctx, voter, proposal.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(39), result.CreditsCharged)
	assert.Equal(t, uint64(8), result.TotalVotes)

	balance, err := srv.Ledger().BalanceOf(ctx, testVoter)
	require.NoError(t, err)
	assert.Equal(t, uint64(100-25-39), balance)

	entry, err := srv.VoterLedger(ctx, testVoter, proposal.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, uint64(8), entry.Votes)
	assert.Equal(t, uint64(64), entry.CreditsSpent)
}

func TestVote_TierTwoDiscount(t *testing.T) {
	ctx := context.Background()
	srv, clock := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 100000)
	fundVoter(t, srv, testVoter, 100)

	now := clock.Now().Unix()
	require.NoError(t, srv.dbClient.UpsertReputationRecord(ctx, &types.ReputationRecord{
		Voter:           testVoter,
		Sessions:        5,
		UniqueProposals: 4,
		FirstVoteTime:   now - 8*86400,
		LastVoteTime:    now,
		TotalVotes:      20,
	}))

	result, err := srv.Vote(ctx, types.AuthContext{Caller: testVoter}, proposal.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Tier)
	// floor(25 * 0.92) = 23
	assert.Equal(t, uint64(23), result.CreditsCharged)
}

func TestVote_SingleVoteNeverFree(t *testing.T) {
	ctx := context.Background()
	srv, clock := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 100000)
	fundVoter(t, srv, testVoter, 10)

	now := clock.Now().Unix()
	require.NoError(t, srv.dbClient.UpsertReputationRecord(ctx, &types.ReputationRecord{
		Voter:           testVoter,
		Sessions:        5,
		UniqueProposals: 4,
		FirstVoteTime:   now - 8*86400,
		LastVoteTime:    now,
		TotalVotes:      20,
	}))

	// A discounted first vote would floor to zero; the undiscounted cost
	// applies instead.
	result, err := srv.Vote(ctx, types.AuthContext{Caller: testVoter}, proposal.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.CreditsCharged)
}

func TestVote_Rejections(t *testing.T) {
	ctx := context.Background()
	srv, clock := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 100000)
	fundVoter(t, srv, testVoter, 100)
	voter := types.AuthContext{Caller: testVoter}

	_, err := srv.Vote(ctx, voter, proposal.ID, 0)
	assert.Equal(t, types.ErrInvalidVotes, err)

	_, err = srv.Vote(ctx, types.AuthContext{}, proposal.ID, 1)
	assert.Equal(t, types.ErrUnauthorized, err)

	_, err = srv.Vote(ctx, voter, 9999, 1)
	assert.Equal(t, types.ErrProposalNotValid, err)

	clock.Advance(7 * 24 * time.Hour)
	_, err = srv.Vote(ctx, voter, proposal.ID, 1)
	assert.Equal(t, types.ErrProposalNotValid, err)
}

func TestVote_OverflowingPurchaseRejected(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 100000)
	voter := types.AuthContext{Caller: testVoter}

	// A purchase large enough to wrap newTotal² would price out at zero
	// and release milestones for free; it must be rejected outright.
	_, err := srv.Vote(ctx, voter, proposal.ID, 1<<32)
	assert.Equal(t, types.ErrInvalidVotes, err)
	_, err = srv.Vote(ctx, voter, proposal.ID, maxVoteTotal+1)
	assert.Equal(t, types.ErrInvalidVotes, err)

	stored, err := srv.Proposal(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stored.TotalVotes)
	assert.False(t, stored.Milestones[0].Released)

	// The cap also applies to the cumulative position.
	fundVoter(t, srv, testVoter, 10)
	_, err = srv.Vote(ctx, voter, proposal.ID, 2)
	require.NoError(t, err)
	_, err = srv.Vote(ctx, voter, proposal.ID, maxVoteTotal-1)
	assert.Equal(t, types.ErrInvalidVotes, err)
}

func TestVote_FailedPersistRefunds(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 100000)
	fundVoter(t, srv, testVoter, 100)
	voter := types.AuthContext{Caller: testVoter}

	faulty := &faultyClient{Client: srv.dbClient, failUpsertVote: true}
	srv.dbClient = faulty

	_, err := srv.Vote(ctx, voter, proposal.ID, 5)
	require.Error(t, err)

	// The burn was compensated; no votes were recorded.
	balance, err := srv.Ledger().BalanceOf(ctx, testVoter)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance)
	entry, err := srv.VoterLedger(ctx, testVoter, proposal.ID)
	require.NoError(t, err)
	assert.Nil(t, entry)

	// A reputation persist failure rolls the ledger row back too.
	faulty.failUpsertVote = false
	faulty.failUpsertReputation = true
	_, err = srv.Vote(ctx, voter, proposal.ID, 5)
	require.Error(t, err)

	balance, err = srv.Ledger().BalanceOf(ctx, testVoter)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance)
	entry, err = srv.VoterLedger(ctx, testVoter, proposal.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, uint64(0), entry.Votes)
	assert.Equal(t, uint64(0), entry.CreditsSpent)

	// With storage healthy again the vote goes through at full price.
	faulty.failUpsertReputation = false
	result, err := srv.Vote(ctx, voter, proposal.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), result.CreditsCharged)
}

func TestVote_InsufficientCredits(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 100000)
	fundVoter(t, srv, testVoter, 24)

	_, err := srv.Vote(ctx, types.AuthContext{Caller: testVoter}, proposal.ID, 5)
	assert.Equal(t, types.ErrInsufficientCredits, err)

	// Nothing was charged or recorded.
	balance, err := srv.Ledger().BalanceOf(ctx, testVoter)
	require.NoError(t, err)
	assert.Equal(t, uint64(24), balance)
	entry, err := srv.VoterLedger(ctx, testVoter, proposal.ID)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestVote_MilestoneReleaseAndSequencing(t *testing.T) {
	ctx := context.Background()
	srv, clock := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	// Thresholds 2 and 3 votes.
	proposal := createTestProposal(t, srv, testBeneficiary, 200, 300)
	fundVoter(t, srv, testVoter, 1000)
	voter := types.AuthContext{Caller: testVoter}

	result, err := srv.Vote(ctx, voter, proposal.ID, 2)
	require.NoError(t, err)
	require.True(t, result.MilestoneReleased)
	assert.Equal(t, 0, result.ReleasedIndex)
	require.NotZero(t, result.TimelockID)

	stored, err := srv.Proposal(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.NextMilestone)
	assert.True(t, stored.Milestones[0].Released)
	assert.False(t, stored.Milestones[0].Verified)
	assert.Equal(t, result.TimelockID, stored.Milestones[0].TimelockID)

	entry, err := srv.Timelock(ctx, result.TimelockID)
	require.NoError(t, err)
	assert.Equal(t, testBeneficiary, entry.Recipient)
	assert.Equal(t, uint64(200), entry.Amount)
	assert.Equal(t, clock.Now().Add(48*time.Hour).Unix(), entry.Eta)

	// Milestone 1 is blocked until milestone 0 is verified.
	_, err = srv.Vote(ctx, voter, proposal.ID, 1)
	assert.Equal(t, types.ErrPriorMilestoneUnverified, err)

	submission, err := srv.SubmitProof(ctx, types.AuthContext{Caller: testBeneficiary}, proposal.ID, 0, "ipfs://QmProofOfMilestoneZero")
	require.NoError(t, err)
	require.NoError(t, srv.ReviewProof(ctx, oracleAuth, submission.ID, true, ""))

	// Cumulative tally of 5 covers threshold 2+3.
	result, err = srv.Vote(ctx, voter, proposal.ID, 3)
	require.NoError(t, err)
	require.True(t, result.MilestoneReleased)
	assert.Equal(t, 1, result.ReleasedIndex)

	stored, err = srv.Proposal(ctx, proposal.ID)
	require.NoError(t, err)
	assert.True(t, stored.FullyFunded())

	_, err = srv.Vote(ctx, voter, proposal.ID, 1)
	assert.Equal(t, types.ErrProposalFullyFunded, err)
}

func TestReprocessMilestones(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	// Thresholds 1 and 1; a single purchase of 3 votes covers both, but
	// only the first milestone releases until it is verified.
	proposal := createTestProposal(t, srv, testBeneficiary, 100, 100)
	fundVoter(t, srv, testVoter, 100)

	result, err := srv.Vote(ctx, types.AuthContext{Caller: testVoter}, proposal.ID, 3)
	require.NoError(t, err)
	require.True(t, result.MilestoneReleased)
	assert.Equal(t, 0, result.ReleasedIndex)

	_, err = srv.ReprocessMilestones(ctx, types.AuthContext{Caller: testVoter}, proposal.ID)
	assert.Equal(t, types.ErrUnauthorized, err)

	// Prior milestone unverified, reprocess is a no-op.
	reprocessed, err := srv.ReprocessMilestones(ctx, adminAuth, proposal.ID)
	require.NoError(t, err)
	assert.False(t, reprocessed.MilestoneReleased)

	submission, err := srv.SubmitProof(ctx, types.AuthContext{Caller: testBeneficiary}, proposal.ID, 0, "ipfs://QmProofOfMilestoneZero")
	require.NoError(t, err)
	require.NoError(t, srv.ReviewProof(ctx, oracleAuth, submission.ID, true, ""))

	// The surplus votes carry over and release the second milestone
	// without a new purchase.
	reprocessed, err = srv.ReprocessMilestones(ctx, adminAuth, proposal.ID)
	require.NoError(t, err)
	require.True(t, reprocessed.MilestoneReleased)
	assert.Equal(t, 1, reprocessed.ReleasedIndex)
}

func TestVote_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 100000)
	fundVoter(t, srv, testVoter, 100)

	_, err := srv.Vote(ctx, types.AuthContext{Caller: testVoter}, proposal.ID, 2)
	require.NoError(t, err)

	events, total, err := srv.Events(ctx, types.EventVoteCast, proposal.ID, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(1), total)
	assert.Equal(t, testVoter, events[0].Voter)
	assert.Equal(t, uint64(2), events[0].Votes)
	assert.Equal(t, uint64(4), events[0].CreditsSpent)
}
