// Package server
package server

import (
	"context"

	"github.com/civicfund/quadfund-backend/types"
)

func (s *Server) discountPct(tier int) uint64 {
	switch tier {
	case 2:
		return s.tier2DiscountPct
	case 1:
		return s.tier1DiscountPct
	default:
		return 0
	}
}

// chargeFor prices a purchase of additional votes on top of an existing
// position. The quadratic rule makes the total cost of holding N votes N²,
// paid incrementally; the discount floors, except that a single-vote
// purchase never rounds to free.
func (s *Server) chargeFor(oldTotal, votes uint64, tier int) uint64 {
	newTotal := oldTotal + votes
	cost := newTotal*newTotal - oldTotal*oldTotal
	pct := s.discountPct(tier)
	discounted := cost * (100 - pct) / 100
	if votes == 1 && discounted == 0 {
		return cost
	}
	return discounted
}

// VoterReputation exposes the stored record plus its derived stats and tier.
type VoterReputation struct {
	Record *types.ReputationRecord `json:"record"`
	Stats  types.ReputationStats   `json:"stats"`
	Tier   int                     `json:"tier"`
}

func (s *Server) VoterReputation(ctx context.Context, voter string) (*VoterReputation, error) {
	record, err := s.dbClient.ReputationRecord(ctx, voter)
	if err != nil {
		return nil, err
	}
	stats := record.Stats()
	return &VoterReputation{Record: record, Stats: stats, Tier: stats.Tier()}, nil
}
