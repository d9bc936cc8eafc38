// Package server
package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

// ApproveBeneficiary allowlists a recipient and stores its off-chain detail
// pointer. Fails when the beneficiary is already approved.
func (s *Server) ApproveBeneficiary(ctx context.Context, auth types.AuthContext, address, detailPointer string) error {
	if err := s.authorize(auth, types.RoleOracleAdmin); err != nil {
		return err
	}
	beneficiary, err := s.dbClient.Beneficiary(ctx, address)
	if err != nil {
		return err
	}
	if beneficiary != nil && beneficiary.Approved {
		return types.ErrAlreadyInTargetState
	}
	if beneficiary == nil {
		beneficiary = &types.Beneficiary{Address: address}
	}
	beneficiary.Approved = true
	beneficiary.DetailPointer = detailPointer
	beneficiary.ApprovedTime = s.now().Unix()
	if err := s.dbClient.UpsertBeneficiary(ctx, beneficiary); err != nil {
		return err
	}
	s.publishEvent(ctx, &types.Event{
		Type:        types.EventBeneficiarySet,
		Beneficiary: address,
	})
	s.logger.Info("Beneficiary approved", zap.String("address", address))
	return nil
}

func (s *Server) RevokeBeneficiary(ctx context.Context, auth types.AuthContext, address string) error {
	if err := s.authorize(auth, types.RoleOracleAdmin); err != nil {
		return err
	}
	beneficiary, err := s.dbClient.Beneficiary(ctx, address)
	if err != nil {
		return err
	}
	if beneficiary == nil || !beneficiary.Approved {
		return types.ErrAlreadyInTargetState
	}
	beneficiary.Approved = false
	beneficiary.RevokedTime = s.now().Unix()
	if err := s.dbClient.UpsertBeneficiary(ctx, beneficiary); err != nil {
		return err
	}
	s.publishEvent(ctx, &types.Event{
		Type:        types.EventBeneficiarySet,
		Beneficiary: address,
	})
	s.logger.Info("Beneficiary revoked", zap.String("address", address))
	return nil
}

// IsApprovedBeneficiary is the pure read used as the proposal-creation gate.
func (s *Server) IsApprovedBeneficiary(ctx context.Context, address string) (bool, error) {
	beneficiary, err := s.dbClient.Beneficiary(ctx, address)
	if err != nil {
		return false, err
	}
	return beneficiary != nil && beneficiary.Approved, nil
}

// BeneficiaryDetail returns the stored allowlist row, pointer included.
// Pointer resolution is the caller's problem.
func (s *Server) BeneficiaryDetail(ctx context.Context, address string) (*types.Beneficiary, error) {
	return s.dbClient.Beneficiary(ctx, address)
}
