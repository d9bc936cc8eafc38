// Package types
package types

const (
	EventProposalCreated   = "ProposalCreated"
	EventProposalKilled    = "ProposalKilled"
	EventVoteCast          = "VoteCast"
	EventMilestoneUnlocked = "MilestoneUnlocked"
	EventDepositReceived   = "DepositReceived"
	EventTimelockQueued    = "TimelockQueued"
	EventTimelockExecuted  = "TimelockExecuted"
	EventCreditsBurned     = "CreditsBurned"
	EventDisbursed         = "Disbursed"
	EventBeneficiarySet    = "BeneficiaryStatusChanged"
	EventProofSubmitted    = "ProofSubmitted"
	EventProofReviewed     = "ProofReviewed"
)

// Event is the domain-event record published after a successful commit.
// Unused fields stay zero and are omitted from JSON.
type Event struct {
	Type           string `json:"type" bson:"type"`
	ProposalID     uint64 `json:"proposalId,omitempty" bson:"proposalId,omitempty"`
	MilestoneIndex int    `json:"milestoneIndex,omitempty" bson:"milestoneIndex,omitempty"`
	Voter          string `json:"voter,omitempty" bson:"voter,omitempty"`
	Beneficiary    string `json:"beneficiary,omitempty" bson:"beneficiary,omitempty"`
	Amount         uint64 `json:"amount,omitempty" bson:"amount,omitempty"`
	Votes          uint64 `json:"votes,omitempty" bson:"votes,omitempty"`
	CreditsSpent   uint64 `json:"creditsSpent,omitempty" bson:"creditsSpent,omitempty"`
	TimelockID     uint64 `json:"timelockId,omitempty" bson:"timelockId,omitempty"`
	SubmissionID   uint64 `json:"submissionId,omitempty" bson:"submissionId,omitempty"`
	Timestamp      int64  `json:"timestamp" bson:"timestamp"`
}
