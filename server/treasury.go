// Package server
package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

const treasuryKey = "treasury"

// Deposit is the only accepted entry point for base currency. Credits are
// minted to the depositor at the configured rate.
func (s *Server) Deposit(ctx context.Context, auth types.AuthContext, amount uint64) (minted uint64, err error) {
	lgr := s.logger.With(zap.String("method", "Deposit"), zap.String("caller", auth.Caller))

	if auth.Caller == "" {
		return 0, types.ErrUnauthorized
	}
	if amount == 0 {
		return 0, types.ErrZeroDeposit
	}

	unlock := s.treasuryLock.lock(treasuryKey)
	defer unlock()

	state, err := s.dbClient.TreasuryState(ctx, s.defaultMintRate)
	if err != nil {
		return 0, err
	}
	if state.MintRate == 0 {
		return 0, types.ErrZeroMintRate
	}
	minted = amount * state.MintRate

	prev := *state
	state.PoolBalance += amount
	state.TotalDeposited += amount
	state.UpdateTime = s.now().Unix()
	if err := s.dbClient.UpdateTreasuryState(ctx, state); err != nil {
		return 0, err
	}
	if err := s.ledger.Mint(ctx, auth.Caller, minted); err != nil {
		// Revert the pool accounting; the depositor got no credits.
		if rbErr := s.dbClient.UpdateTreasuryState(ctx, &prev); rbErr != nil {
			s.logger.Error("cannot revert treasury state", zap.Error(rbErr))
		}
		return 0, err
	}

	s.publishEvent(ctx, &types.Event{
		Type:   types.EventDepositReceived,
		Voter:  auth.Caller,
		Amount: amount,
	})
	lgr.Info("Deposit accepted", zap.Uint64("amount", amount), zap.Uint64("minted", minted))
	return minted, nil
}

func (s *Server) SetMintRate(ctx context.Context, auth types.AuthContext, rate uint64) error {
	if err := s.authorize(auth, types.RoleAdmin); err != nil {
		return err
	}
	unlock := s.treasuryLock.lock(treasuryKey)
	defer unlock()

	state, err := s.dbClient.TreasuryState(ctx, s.defaultMintRate)
	if err != nil {
		return err
	}
	state.MintRate = rate
	state.UpdateTime = s.now().Unix()
	return s.dbClient.UpdateTreasuryState(ctx, state)
}

// QueueTransfer schedules a delayed outbound transfer. Engine role only;
// the eta must respect the minimum delay.
func (s *Server) QueueTransfer(ctx context.Context, auth types.AuthContext, recipient string, amount uint64, eta int64) (uint64, error) {
	if err := s.authorize(auth, types.RoleEngine); err != nil {
		return 0, err
	}
	if eta < s.now().Add(s.timelockMinDelay).Unix() {
		return 0, types.ErrEtaTooSoon
	}
	return s.queueTimelock(ctx, recipient, amount, eta, 0, 0)
}

func (s *Server) queueTimelock(ctx context.Context, recipient string, amount uint64, eta int64, proposalID uint64, milestone int) (uint64, error) {
	id, err := s.dbClient.NextTimelockID(ctx)
	if err != nil {
		return 0, err
	}
	entry := &types.TimelockEntry{
		ID:          id,
		Recipient:   recipient,
		Amount:      amount,
		Eta:         eta,
		ProposalID:  proposalID,
		Milestone:   milestone,
		CreatedTime: s.now().Unix(),
	}
	if err := s.dbClient.InsertTimelock(ctx, entry); err != nil {
		return 0, err
	}
	s.publishEvent(ctx, &types.Event{
		Type:           types.EventTimelockQueued,
		ProposalID:     proposalID,
		MilestoneIndex: milestone,
		Beneficiary:    recipient,
		Amount:         amount,
		TimelockID:     id,
	})
	return id, nil
}

// ExecuteTimelock is permissionless: anyone may trigger a due entry. It
// fires at most once, never before eta and never after the grace cutoff.
func (s *Server) ExecuteTimelock(ctx context.Context, id uint64) error {
	lgr := s.logger.With(zap.String("method", "ExecuteTimelock"), zap.Uint64("id", id))

	unlockEntry := s.timelockLocks.lockID(id)
	defer unlockEntry()

	entry, err := s.dbClient.TimelockByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.Executed {
		return types.ErrAlreadyExecuted
	}
	now := s.now().Unix()
	if now < entry.Eta {
		return types.ErrNotYetDue
	}
	if s.timelockGrace > 0 && now > entry.Eta+int64(s.timelockGrace.Seconds()) {
		return types.ErrTimelockExpired
	}

	unlockTreasury := s.treasuryLock.lock(treasuryKey)
	defer unlockTreasury()

	state, err := s.dbClient.TreasuryState(ctx, s.defaultMintRate)
	if err != nil {
		return err
	}
	if state.PoolBalance < entry.Amount {
		return types.ErrInsufficientFunds
	}
	// Conditional flip first: a concurrent executor loses here, before any
	// funds move.
	if err := s.dbClient.MarkTimelockExecuted(ctx, id, now); err != nil {
		return err
	}
	state.PoolBalance -= entry.Amount
	state.TotalDisbursed += entry.Amount
	state.UpdateTime = now
	if err := s.dbClient.UpdateTreasuryState(ctx, state); err != nil {
		return err
	}

	s.publishEvent(ctx, &types.Event{
		Type:           types.EventTimelockExecuted,
		ProposalID:     entry.ProposalID,
		MilestoneIndex: entry.Milestone,
		Beneficiary:    entry.Recipient,
		Amount:         entry.Amount,
		TimelockID:     id,
	})
	lgr.Info("Timelock executed", zap.String("recipient", entry.Recipient),
		zap.Uint64("amount", entry.Amount))
	return nil
}

// BurnCredits is the emergency credit burn, distinct from the engine role.
func (s *Server) BurnCredits(ctx context.Context, auth types.AuthContext, voter string, amount uint64) error {
	if err := s.authorize(auth, types.RoleAdmin); err != nil {
		return err
	}
	unlockVoter := s.voterLocks.lock(voter)
	defer unlockVoter()
	if err := s.ledger.Burn(ctx, voter, amount); err != nil {
		return err
	}

	unlock := s.treasuryLock.lock(treasuryKey)
	defer unlock()
	state, err := s.dbClient.TreasuryState(ctx, s.defaultMintRate)
	if err != nil {
		return err
	}
	state.TotalBurned += amount
	state.UpdateTime = s.now().Unix()
	if err := s.dbClient.UpdateTreasuryState(ctx, state); err != nil {
		return err
	}
	s.publishEvent(ctx, &types.Event{
		Type:   types.EventCreditsBurned,
		Voter:  voter,
		Amount: amount,
	})
	return nil
}

// Disburse is the emergency payout path bypassing the timelock.
func (s *Server) Disburse(ctx context.Context, auth types.AuthContext, recipient string, amount uint64) error {
	if err := s.authorize(auth, types.RoleAdmin); err != nil {
		return err
	}
	unlock := s.treasuryLock.lock(treasuryKey)
	defer unlock()

	state, err := s.dbClient.TreasuryState(ctx, s.defaultMintRate)
	if err != nil {
		return err
	}
	if state.PoolBalance < amount {
		return types.ErrInsufficientFunds
	}
	state.PoolBalance -= amount
	state.TotalDisbursed += amount
	state.UpdateTime = s.now().Unix()
	if err := s.dbClient.UpdateTreasuryState(ctx, state); err != nil {
		return err
	}
	s.publishEvent(ctx, &types.Event{
		Type:        types.EventDisbursed,
		Beneficiary: recipient,
		Amount:      amount,
	})
	return nil
}

func (s *Server) Treasury(ctx context.Context) (*types.TreasuryState, error) {
	return s.dbClient.TreasuryState(ctx, s.defaultMintRate)
}

func (s *Server) Timelock(ctx context.Context, id uint64) (*types.TimelockEntry, error) {
	return s.dbClient.TimelockByID(ctx, id)
}

func (s *Server) Timelocks(ctx context.Context, pagination *types.Pagination) ([]*types.TimelockEntry, uint64, error) {
	if pagination != nil {
		pagination.Sanitize()
	}
	return s.dbClient.ListTimelocks(ctx, pagination)
}

// DueTimelocks lists unexecuted entries past their eta, for the watcher.
func (s *Server) DueTimelocks(ctx context.Context) ([]*types.TimelockEntry, error) {
	return s.dbClient.DueTimelocks(ctx, s.now().Unix())
}
