// Package server
package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

// VoteResult reports what one vote call charged and unlocked.
type VoteResult struct {
	ProposalID     uint64 `json:"proposalId"`
	Votes          uint64 `json:"votes"`
	TotalVotes     uint64 `json:"totalVotes"`
	CreditsCharged uint64 `json:"creditsCharged"`
	Tier           int    `json:"tier"`

	MilestoneReleased bool   `json:"milestoneReleased"`
	ReleasedIndex     int    `json:"releasedIndex,omitempty"`
	TimelockID        uint64 `json:"timelockId,omitempty"`
}

// maxVoteTotal caps a voter's position on one proposal. The bound keeps
// newTotal² inside uint64, so the quadratic cost can never wrap to a cheap
// purchase.
const maxVoteTotal = 1 << 31

// Vote purchases additional votes on a proposal at quadratic marginal cost,
// with the caller's reputation discount applied. Crossing the current
// milestone's cumulative threshold releases it and queues the timelocked
// payout to the beneficiary.
func (s *Server) Vote(ctx context.Context, auth types.AuthContext, proposalID uint64, votes uint64) (*VoteResult, error) {
	lgr := s.logger.With(zap.String("method", "Vote"),
		zap.Uint64("proposal", proposalID), zap.String("voter", auth.Caller))

	if votes == 0 || votes > maxVoteTotal {
		return nil, types.ErrInvalidVotes
	}
	if auth.Caller == "" {
		return nil, types.ErrUnauthorized
	}

	// Proposal lock before voter lock, always.
	unlockProposal := s.proposalLocks.lockID(proposalID)
	defer unlockProposal()
	unlockVoter := s.voterLocks.lock(auth.Caller)
	defer unlockVoter()

	now := s.now()
	proposal, err := s.dbClient.ProposalByID(ctx, proposalID)
	if err != nil {
		if err == types.ErrProposalNotFound {
			return nil, types.ErrProposalNotValid
		}
		return nil, err
	}
	if !proposal.Valid || proposal.Expired(now.Unix()) {
		return nil, types.ErrProposalNotValid
	}
	if proposal.FullyFunded() {
		return nil, types.ErrProposalFullyFunded
	}
	current := proposal.NextMilestone
	if current > 0 && !proposal.Milestones[current-1].Verified {
		return nil, types.ErrPriorMilestoneUnverified
	}

	entry, err := s.dbClient.VoteLedgerEntry(ctx, auth.Caller, proposalID)
	if err != nil {
		return nil, err
	}
	record, err := s.dbClient.ReputationRecord(ctx, auth.Caller)
	if err != nil {
		return nil, err
	}

	var oldTotal uint64
	if entry != nil {
		oldTotal = entry.Votes
	}
	if oldTotal+votes > maxVoteTotal {
		return nil, types.ErrInvalidVotes
	}
	// The tier is derived from the record as it stood before this call.
	tier := record.Stats().Tier()
	cost := s.chargeFor(oldTotal, votes, tier)

	balance, err := s.ledger.BalanceOf(ctx, auth.Caller)
	if err != nil {
		return nil, err
	}
	if balance < cost {
		return nil, types.ErrInsufficientCredits
	}
	if err := s.ledger.Burn(ctx, auth.Caller, cost); err != nil {
		return nil, err
	}

	newEntry := entry == nil
	if newEntry {
		entry = &types.VoteLedgerEntry{Voter: auth.Caller, ProposalID: proposalID}
	}
	entry.Votes += votes
	entry.CreditsSpent += cost
	entry.UpdateTime = now.Unix()
	if err := s.dbClient.UpsertVoteLedgerEntry(ctx, entry); err != nil {
		// The burn already committed; give the credits back.
		s.refundCredits(ctx, auth.Caller, cost)
		return nil, fmt.Errorf("cannot update vote ledger: %w", err)
	}

	if record == nil {
		record = &types.ReputationRecord{Voter: auth.Caller, FirstVoteTime: now.Unix()}
	}
	record.Sessions++
	if newEntry {
		record.UniqueProposals++
	}
	record.LastVoteTime = now.Unix()
	record.TotalVotes += votes
	if err := s.dbClient.UpsertReputationRecord(ctx, record); err != nil {
		// Roll the ledger row back before refunding, otherwise the voter
		// would keep both the votes and the credits.
		entry.Votes = oldTotal
		entry.CreditsSpent -= cost
		if rbErr := s.dbClient.UpsertVoteLedgerEntry(ctx, entry); rbErr != nil {
			s.logger.Error("cannot roll back vote ledger",
				zap.String("voter", auth.Caller), zap.Error(rbErr))
		} else {
			s.refundCredits(ctx, auth.Caller, cost)
		}
		return nil, fmt.Errorf("cannot update reputation record: %w", err)
	}

	proposal.TotalVotes += votes
	proposal.UpdateTime = now.Unix()

	result := &VoteResult{
		ProposalID:     proposalID,
		Votes:          votes,
		TotalVotes:     entry.Votes,
		CreditsCharged: cost,
		Tier:           tier,
	}

	released, timelockID, err := s.tryReleaseMilestone(ctx, proposal)
	if err != nil {
		return nil, err
	}
	if released {
		result.MilestoneReleased = true
		result.ReleasedIndex = current
		result.TimelockID = timelockID
	}
	s.invalidateProposalCache(ctx, proposalID)

	s.publishEvent(ctx, &types.Event{
		Type:         types.EventVoteCast,
		ProposalID:   proposalID,
		Voter:        auth.Caller,
		Votes:        votes,
		CreditsSpent: cost,
	})
	lgr.Info("Vote cast", zap.Uint64("votes", votes), zap.Uint64("charged", cost),
		zap.Int("tier", tier), zap.Bool("released", released))
	return result, nil
}

// ReprocessMilestones re-runs the release check without a new vote. Used
// operationally after a verification lands on a proposal whose tally
// already covers the next milestone.
func (s *Server) ReprocessMilestones(ctx context.Context, auth types.AuthContext, proposalID uint64) (*VoteResult, error) {
	if err := s.authorize(auth, types.RoleAdmin); err != nil {
		return nil, err
	}
	unlock := s.proposalLocks.lockID(proposalID)
	defer unlock()

	proposal, err := s.dbClient.ProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !proposal.Valid {
		return nil, types.ErrProposalNotValid
	}
	if proposal.FullyFunded() {
		return nil, types.ErrProposalFullyFunded
	}

	result := &VoteResult{ProposalID: proposalID, TotalVotes: proposal.TotalVotes}
	current := proposal.NextMilestone
	if current > 0 && !proposal.Milestones[current-1].Verified {
		return result, nil
	}
	proposal.UpdateTime = s.now().Unix()
	released, timelockID, err := s.tryReleaseMilestone(ctx, proposal)
	if err != nil {
		return nil, err
	}
	if released {
		result.MilestoneReleased = true
		result.ReleasedIndex = current
		result.TimelockID = timelockID
		s.invalidateProposalCache(ctx, proposalID)
	}
	return result, nil
}

// tryReleaseMilestone persists the proposal, and when the cumulative tally
// covers the current milestone marks it released, advances the pointer and
// queues the payout. The proposal state lands in storage before the
// treasury call; the timelock id is attached in a second write, so a retry
// after a crash re-queues rather than double-pays (the executed flag keeps
// execution idempotent).
func (s *Server) tryReleaseMilestone(ctx context.Context, proposal *types.Proposal) (bool, uint64, error) {
	current := proposal.NextMilestone
	if current >= len(proposal.Milestones) {
		return false, 0, s.dbClient.UpdateProposal(ctx, proposal)
	}
	milestone := proposal.Milestones[current]
	if proposal.TotalVotes < proposal.RequiredVotes(current) {
		return false, 0, s.dbClient.UpdateProposal(ctx, proposal)
	}

	now := s.now()
	milestone.Released = true
	milestone.ReleasedTime = now.Unix()
	proposal.NextMilestone = current + 1
	if err := s.dbClient.UpdateProposal(ctx, proposal); err != nil {
		return false, 0, err
	}

	eta := now.Add(s.timelockMinDelay).Unix()
	timelockID, err := s.queueTimelock(ctx, proposal.Beneficiary, milestone.Amount, eta, proposal.ID, current)
	if err != nil {
		return false, 0, err
	}
	milestone.TimelockID = timelockID
	if err := s.dbClient.UpdateProposal(ctx, proposal); err != nil {
		return false, 0, err
	}

	s.publishEvent(ctx, &types.Event{
		Type:           types.EventMilestoneUnlocked,
		ProposalID:     proposal.ID,
		MilestoneIndex: current,
		Beneficiary:    proposal.Beneficiary,
		Amount:         milestone.Amount,
		TimelockID:     timelockID,
	})
	return true, timelockID, nil
}

// VoterLedger returns the caller's cumulative position on one proposal.
func (s *Server) VoterLedger(ctx context.Context, voter string, proposalID uint64) (*types.VoteLedgerEntry, error) {
	return s.dbClient.VoteLedgerEntry(ctx, voter, proposalID)
}
