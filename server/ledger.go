// Package server
package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/db"
)

// CreditLedger is the fungible credit store. The default implementation
// keeps balances in our own storage; a deployment backed by an external
// issuance ledger substitutes its own client here.
type CreditLedger interface {
	BalanceOf(ctx context.Context, address string) (uint64, error)
	Mint(ctx context.Context, address string, amount uint64) error
	Burn(ctx context.Context, address string, amount uint64) error
}

type dbLedger struct {
	dbClient db.Client
}

func (l *dbLedger) BalanceOf(ctx context.Context, address string) (uint64, error) {
	return l.dbClient.Balance(ctx, address)
}

func (l *dbLedger) Mint(ctx context.Context, address string, amount uint64) error {
	return l.dbClient.AddBalance(ctx, address, amount)
}

func (l *dbLedger) Burn(ctx context.Context, address string, amount uint64) error {
	return l.dbClient.SubBalance(ctx, address, amount)
}

// refundCredits compensates a committed burn after a later persist failed.
// A refund failure is logged for reconciliation; there is no further
// fallback.
func (s *Server) refundCredits(ctx context.Context, voter string, amount uint64) {
	if amount == 0 {
		return
	}
	if err := s.ledger.Mint(ctx, voter, amount); err != nil {
		s.logger.Error("cannot refund credits",
			zap.String("voter", voter), zap.Uint64("amount", amount), zap.Error(err))
	}
}
