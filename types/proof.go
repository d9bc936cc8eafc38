// Package types
package types

type ProofStatus string

const (
	ProofPending  ProofStatus = "pending"
	ProofApproved ProofStatus = "approved"
	ProofRejected ProofStatus = "rejected"
)

type ProofSubmission struct {
	ID             uint64      `json:"id" bson:"id"`
	ProposalID     uint64      `json:"proposalId" bson:"proposalId"`
	MilestoneIndex int         `json:"milestoneIndex" bson:"milestoneIndex"`
	Pointer        string      `json:"pointer" bson:"pointer"`
	Submitter      string      `json:"submitter" bson:"submitter"`
	Status         ProofStatus `json:"status" bson:"status"`
	Reason         string      `json:"reason,omitempty" bson:"reason"`
	SubmittedTime  int64       `json:"submittedTime" bson:"submittedTime"`
	ReviewedTime   int64       `json:"reviewedTime,omitempty" bson:"reviewedTime"`
}
