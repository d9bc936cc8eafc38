// Package server
package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicfund/quadfund-backend/types"
)

func TestSubmitProof(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 200, 300)
	owner := types.AuthContext{Caller: testBeneficiary}

	_, err := srv.SubmitProof(ctx, types.AuthContext{Caller: testVoter}, proposal.ID, 0, "ipfs://QmProof")
	assert.Equal(t, types.ErrNotOwner, err)

	_, err = srv.SubmitProof(ctx, owner, proposal.ID, 5, "ipfs://QmProof")
	assert.Equal(t, types.ErrMilestoneNotFound, err)

	_, err = srv.SubmitProof(ctx, owner, proposal.ID, 0, "not a uri")
	assert.Equal(t, types.ErrInvalidProofPointer, err)

	submission, err := srv.SubmitProof(ctx, owner, proposal.ID, 0, "ipfs://QmProof")
	require.NoError(t, err)
	assert.Equal(t, types.ProofPending, submission.Status)
	assert.Equal(t, testBeneficiary, submission.Submitter)
}

func TestReviewProof(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 200, 300)
	owner := types.AuthContext{Caller: testBeneficiary}

	submission, err := srv.SubmitProof(ctx, owner, proposal.ID, 0, "ipfs://QmProof")
	require.NoError(t, err)

	assert.Equal(t, types.ErrUnauthorized, srv.ReviewProof(ctx, adminAuth, submission.ID, true, ""))
	assert.Equal(t, types.ErrSubmissionNotFound, srv.ReviewProof(ctx, oracleAuth, 9999, true, ""))

	require.NoError(t, srv.ReviewProof(ctx, oracleAuth, submission.ID, true, ""))
	assert.Equal(t, types.ErrAlreadyProcessed, srv.ReviewProof(ctx, oracleAuth, submission.ID, false, ""))

	_, verified, err := srv.MilestoneStatus(ctx, proposal.ID, 0)
	require.NoError(t, err)
	assert.True(t, verified)

	// The milestone pair is closed once a submission was approved.
	_, err = srv.SubmitProof(ctx, owner, proposal.ID, 0, "ipfs://QmAnotherProof")
	assert.Equal(t, types.ErrAlreadyApproved, err)
}

func TestReviewProof_RacingReviewLoses(t *testing.T) {
	ctx := context.Background()
	srv, clock := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 200)
	owner := types.AuthContext{Caller: testBeneficiary}

	submission, err := srv.SubmitProof(ctx, owner, proposal.ID, 0, "ipfs://QmProof")
	require.NoError(t, err)

	// A competing reviewer settles the row between our pending check and
	// our write; the storage-level condition must reject the second flip.
	settled := *submission
	settled.Status = types.ProofApproved
	settled.ReviewedTime = clock.Now().Unix()
	require.NoError(t, srv.dbClient.SettleProofSubmission(ctx, &settled))

	err = srv.ReviewProof(ctx, oracleAuth, submission.ID, false, "late reject")
	assert.Equal(t, types.ErrAlreadyProcessed, err)

	// The first decision stands.
	stored, err := srv.dbClient.ProofSubmissionByID(ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ProofApproved, stored.Status)
	assert.Empty(t, stored.Reason)
}

func TestReviewProof_RejectAllowsResubmission(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	approveTestBeneficiary(t, srv, testBeneficiary)
	proposal := createTestProposal(t, srv, testBeneficiary, 200)
	owner := types.AuthContext{Caller: testBeneficiary}

	submission, err := srv.SubmitProof(ctx, owner, proposal.ID, 0, "ipfs://QmProof")
	require.NoError(t, err)
	require.NoError(t, srv.ReviewProof(ctx, oracleAuth, submission.ID, false, "artifact unreachable"))

	stored, err := srv.dbClient.ProofSubmissionByID(ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ProofRejected, stored.Status)
	assert.Equal(t, "artifact unreachable", stored.Reason)

	_, verified, err := srv.MilestoneStatus(ctx, proposal.ID, 0)
	require.NoError(t, err)
	assert.False(t, verified)

	resubmitted, err := srv.SubmitProof(ctx, owner, proposal.ID, 0, "ipfs://QmBetterProof")
	require.NoError(t, err)
	assert.Equal(t, types.ProofPending, resubmitted.Status)

	submissions, total, err := srv.ProofSubmissions(ctx, proposal.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.Len(t, submissions, 2)
}
