// Package server
package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
	"github.com/civicfund/quadfund-backend/utils"
)

// SubmitProof records a completion attestation for one milestone. Only the
// proposal's registered beneficiary may submit; a pair that already has an
// approved submission is closed, rejected ones may be resubmitted.
func (s *Server) SubmitProof(ctx context.Context, auth types.AuthContext, proposalID uint64, milestoneIndex int, pointer string) (*types.ProofSubmission, error) {
	lgr := s.logger.With(zap.String("method", "SubmitProof"),
		zap.Uint64("proposal", proposalID), zap.Int("milestone", milestoneIndex))

	proposal, err := s.dbClient.ProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if auth.Caller != proposal.Beneficiary {
		return nil, types.ErrNotOwner
	}
	if milestoneIndex < 0 || milestoneIndex >= len(proposal.Milestones) {
		return nil, types.ErrMilestoneNotFound
	}
	if !utils.IsValidPointer(pointer) {
		return nil, types.ErrInvalidProofPointer
	}
	approved, err := s.dbClient.ApprovedSubmissionExists(ctx, proposalID, milestoneIndex)
	if err != nil {
		return nil, err
	}
	if approved {
		return nil, types.ErrAlreadyApproved
	}

	id, err := s.dbClient.NextSubmissionID(ctx)
	if err != nil {
		return nil, err
	}
	submission := &types.ProofSubmission{
		ID:             id,
		ProposalID:     proposalID,
		MilestoneIndex: milestoneIndex,
		Pointer:        pointer,
		Submitter:      auth.Caller,
		Status:         types.ProofPending,
		SubmittedTime:  s.now().Unix(),
	}
	if err := s.dbClient.InsertProofSubmission(ctx, submission); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, &types.Event{
		Type:           types.EventProofSubmitted,
		ProposalID:     proposalID,
		MilestoneIndex: milestoneIndex,
		Beneficiary:    auth.Caller,
		SubmissionID:   id,
	})
	lgr.Info("Proof submitted", zap.Uint64("submission", id))
	return submission, nil
}

// ReviewProof settles one pending submission. Approval is what sets the
// milestone's verified flag; the decision is recorded once and repeats fail.
func (s *Server) ReviewProof(ctx context.Context, auth types.AuthContext, submissionID uint64, approved bool, reason string) error {
	if err := s.authorize(auth, types.RoleOracleAdmin); err != nil {
		return err
	}

	submission, err := s.dbClient.ProofSubmissionByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if submission.Status != types.ProofPending {
		return types.ErrAlreadyProcessed
	}

	unlock := s.proposalLocks.lockID(submission.ProposalID)
	defer unlock()

	now := s.now().Unix()
	if approved {
		submission.Status = types.ProofApproved
	} else {
		submission.Status = types.ProofRejected
	}
	submission.Reason = reason
	submission.ReviewedTime = now
	// Conditional on the row still pending; a racing review loses here.
	if err := s.dbClient.SettleProofSubmission(ctx, submission); err != nil {
		return err
	}

	if approved {
		proposal, err := s.dbClient.ProposalByID(ctx, submission.ProposalID)
		if err != nil {
			return err
		}
		milestone := proposal.Milestones[submission.MilestoneIndex]
		milestone.Verified = true
		milestone.VerifiedTime = now
		proposal.UpdateTime = now
		if err := s.dbClient.UpdateProposal(ctx, proposal); err != nil {
			return err
		}
		s.invalidateProposalCache(ctx, submission.ProposalID)
	}

	s.publishEvent(ctx, &types.Event{
		Type:           types.EventProofReviewed,
		ProposalID:     submission.ProposalID,
		MilestoneIndex: submission.MilestoneIndex,
		SubmissionID:   submissionID,
	})
	s.logger.Info("Proof reviewed", zap.Uint64("submission", submissionID),
		zap.Bool("approved", approved))
	return nil
}

func (s *Server) ProofSubmissions(ctx context.Context, proposalID uint64, pagination *types.Pagination) ([]*types.ProofSubmission, uint64, error) {
	if pagination != nil {
		pagination.Sanitize()
	}
	return s.dbClient.ProofSubmissionsByProposal(ctx, proposalID, pagination)
}
