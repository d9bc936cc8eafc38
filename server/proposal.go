// Package server
package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

// CreateProposal registers a milestone-funded proposal for the calling
// beneficiary. The caller must be on the allowlist; the milestone arrays
// must be non-empty, of equal length and with positive amounts.
func (s *Server) CreateProposal(ctx context.Context, auth types.AuthContext, descriptions []string, amounts []uint64) (*types.Proposal, error) {
	lgr := s.logger.With(zap.String("method", "CreateProposal"))

	beneficiary, err := s.dbClient.Beneficiary(ctx, auth.Caller)
	if err != nil {
		return nil, err
	}
	if beneficiary == nil || !beneficiary.Approved {
		return nil, types.ErrUnauthorizedBeneficiary
	}
	if len(descriptions) == 0 || len(descriptions) != len(amounts) {
		return nil, types.ErrInvalidMilestones
	}
	for _, amount := range amounts {
		if amount == 0 {
			return nil, types.ErrInvalidMilestones
		}
	}

	id, err := s.dbClient.NextProposalID(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	milestones := make([]*types.Milestone, len(descriptions))
	var totalRequested uint64
	for i := range descriptions {
		threshold := amounts[i] / s.voteScale
		if threshold == 0 {
			threshold = 1
		}
		milestones[i] = &types.Milestone{
			Description:   descriptions[i],
			Amount:        amounts[i],
			VoteThreshold: threshold,
		}
		totalRequested += amounts[i]
	}
	proposal := &types.Proposal{
		ID:          id,
		Beneficiary: auth.Caller,
		Milestones:  milestones,
		CreatedTime: now.Unix(),
		ExpiryTime:  now.Add(s.proposalWindow).Unix(),
		Valid:       true,
		UpdateTime:  now.Unix(),
	}
	if err := s.dbClient.InsertProposal(ctx, proposal); err != nil {
		lgr.Error("Cannot insert proposal", zap.Error(err))
		return nil, err
	}

	s.publishEvent(ctx, &types.Event{
		Type:        types.EventProposalCreated,
		ProposalID:  id,
		Beneficiary: auth.Caller,
		Amount:      totalRequested,
	})
	lgr.Info("Proposal created", zap.Uint64("id", id),
		zap.String("beneficiary", auth.Caller), zap.Uint64("requested", totalRequested))
	return proposal, nil
}

// KillProposal invalidates an expired proposal. Admin only; proposals that
// are fully funded are already invalid for voting and need no kill.
func (s *Server) KillProposal(ctx context.Context, auth types.AuthContext, id uint64) error {
	if err := s.authorize(auth, types.RoleAdmin); err != nil {
		return err
	}
	unlock := s.proposalLocks.lockID(id)
	defer unlock()

	proposal, err := s.dbClient.ProposalByID(ctx, id)
	if err != nil {
		return err
	}
	if !proposal.Valid {
		return types.ErrProposalNotValid
	}
	if !proposal.Expired(s.now().Unix()) {
		return types.ErrNotExpired
	}
	proposal.Valid = false
	proposal.UpdateTime = s.now().Unix()
	if err := s.dbClient.UpdateProposal(ctx, proposal); err != nil {
		return err
	}
	s.invalidateProposalCache(ctx, id)
	s.publishEvent(ctx, &types.Event{
		Type:       types.EventProposalKilled,
		ProposalID: id,
	})
	return nil
}

func (s *Server) Proposal(ctx context.Context, id uint64) (*types.Proposal, error) {
	if s.cacheClient != nil {
		if proposal, err := s.cacheClient.ProposalDetail(ctx, id); err == nil && proposal != nil {
			return proposal, nil
		}
	}
	proposal, err := s.dbClient.ProposalByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cacheClient != nil {
		if err := s.cacheClient.UpdateProposalDetail(ctx, proposal); err != nil {
			s.logger.Warn("Cannot cache proposal", zap.Uint64("id", id), zap.Error(err))
		}
	}
	return proposal, nil
}

func (s *Server) ActiveProposals(ctx context.Context, pagination *types.Pagination) ([]*types.Proposal, uint64, error) {
	if pagination != nil {
		pagination.Sanitize()
	}
	return s.dbClient.ActiveProposals(ctx, pagination)
}

// MilestoneStatus returns the released/verified pair for one milestone.
func (s *Server) MilestoneStatus(ctx context.Context, id uint64, index int) (released, verified bool, err error) {
	proposal, err := s.dbClient.ProposalByID(ctx, id)
	if err != nil {
		return false, false, err
	}
	return proposal.MilestoneStatus(index)
}

func (s *Server) invalidateProposalCache(ctx context.Context, id uint64) {
	if s.cacheClient == nil {
		return
	}
	if err := s.cacheClient.InvalidateProposal(ctx, id); err != nil {
		s.logger.Warn("Cannot invalidate proposal cache", zap.Uint64("id", id), zap.Error(err))
	}
}
