// Package types
package types

// TimelockEntry is a queued outbound transfer. Executed flips exactly once,
// and only inside the [Eta, Eta+grace] window.
type TimelockEntry struct {
	ID           uint64 `json:"id" bson:"id"`
	Recipient    string `json:"recipient" bson:"recipient"`
	Amount       uint64 `json:"amount" bson:"amount"`
	Eta          int64  `json:"eta" bson:"eta"`
	Executed     bool   `json:"executed" bson:"executed"`
	ProposalID   uint64 `json:"proposalId,omitempty" bson:"proposalId"`
	Milestone    int    `json:"milestone,omitempty" bson:"milestone"`
	CreatedTime  int64  `json:"createdTime" bson:"createdTime"`
	ExecutedTime int64  `json:"executedTime,omitempty" bson:"executedTime"`
}

// TreasuryState is the custody accounting document. Invariant:
// TotalDisbursed never exceeds TotalDeposited, and PoolBalance equals
// TotalDeposited - TotalDisbursed.
type TreasuryState struct {
	MintRate       uint64 `json:"mintRate" bson:"mintRate"`
	PoolBalance    uint64 `json:"poolBalance" bson:"poolBalance"`
	TotalDeposited uint64 `json:"totalDeposited" bson:"totalDeposited"`
	TotalDisbursed uint64 `json:"totalDisbursed" bson:"totalDisbursed"`
	TotalBurned    uint64 `json:"totalBurned" bson:"totalBurned"`
	UpdateTime     int64  `json:"updateTime" bson:"updateTime"`
}
