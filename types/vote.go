// Package types
package types

// VoteLedgerEntry tracks one voter's cumulative position on one proposal.
// Both fields only ever grow; the quadratic marginal cost of a new purchase
// is derived from Votes.
type VoteLedgerEntry struct {
	Voter        string `json:"voter" bson:"voter"`
	ProposalID   uint64 `json:"proposalId" bson:"proposalId"`
	Votes        uint64 `json:"votes" bson:"votes"`
	CreditsSpent uint64 `json:"creditsSpent" bson:"creditsSpent"`
	UpdateTime   int64  `json:"updateTime" bson:"updateTime"`
}

// ReputationRecord is global per voter, created on first vote and never
// deleted. The discount tier is recomputed from it on every cost
// calculation, never stored.
type ReputationRecord struct {
	Voter           string `json:"voter" bson:"voter"`
	Sessions        uint64 `json:"sessions" bson:"sessions"`
	UniqueProposals uint64 `json:"uniqueProposals" bson:"uniqueProposals"`
	FirstVoteTime   int64  `json:"firstVoteTime" bson:"firstVoteTime"`
	LastVoteTime    int64  `json:"lastVoteTime" bson:"lastVoteTime"`
	TotalVotes      uint64 `json:"totalVotes" bson:"totalVotes"`
}

type ReputationStats struct {
	Sessions           uint64 `json:"sessions"`
	UniqueProposals    uint64 `json:"uniqueProposals"`
	DaysActive         uint64 `json:"daysActive"`
	AvgVotesPerSession uint64 `json:"avgVotesPerSession"`
}

const secondsPerDay = 86400

// Stats derives the tier inputs. Safe on a nil record (a first-time voter
// has no history and lands on tier 0).
func (r *ReputationRecord) Stats() ReputationStats {
	if r == nil || r.Sessions == 0 {
		return ReputationStats{}
	}
	var days uint64
	if r.LastVoteTime > r.FirstVoteTime {
		days = uint64(r.LastVoteTime-r.FirstVoteTime) / secondsPerDay
	}
	return ReputationStats{
		Sessions:           r.Sessions,
		UniqueProposals:    r.UniqueProposals,
		DaysActive:         days,
		AvgVotesPerSession: r.TotalVotes / r.Sessions,
	}
}

// Tier is a pure function of the derived stats. The per-session volume cap
// keeps a large holder from buying tier 2 in a couple of sittings.
func (s ReputationStats) Tier() int {
	if s.Sessions >= 5 && s.UniqueProposals >= 4 && s.DaysActive >= 7 && s.AvgVotesPerSession <= 5 {
		return 2
	}
	if s.Sessions >= 3 && s.UniqueProposals >= 3 && s.DaysActive >= 3 && s.AvgVotesPerSession <= 7 {
		return 1
	}
	return 0
}
