// Package types
package types

// Milestone is one funding stage of a proposal. Released flips when the vote
// tally crosses the threshold, Verified only through proof review.
type Milestone struct {
	Description   string `json:"description" bson:"description"`
	Amount        uint64 `json:"amount" bson:"amount"`
	VoteThreshold uint64 `json:"voteThreshold" bson:"voteThreshold"`
	Released      bool   `json:"released" bson:"released"`
	Verified      bool   `json:"verified" bson:"verified"`
	ReleasedTime  int64  `json:"releasedTime,omitempty" bson:"releasedTime"`
	VerifiedTime  int64  `json:"verifiedTime,omitempty" bson:"verifiedTime"`
	TimelockID    uint64 `json:"timelockId,omitempty" bson:"timelockId"`
}

type Proposal struct {
	ID          uint64       `json:"id" bson:"id"`
	Beneficiary string       `json:"beneficiary" bson:"beneficiary"`
	Milestones  []*Milestone `json:"milestones" bson:"milestones"`

	// NextMilestone is the index currently accepting votes. Monotonically
	// non-decreasing; equal to len(Milestones) once fully funded.
	NextMilestone int    `json:"nextMilestone" bson:"nextMilestone"`
	TotalVotes    uint64 `json:"totalVotes" bson:"totalVotes"`

	CreatedTime int64 `json:"createdTime" bson:"createdTime"`
	ExpiryTime  int64 `json:"expiryTime" bson:"expiryTime"`
	Valid       bool  `json:"valid" bson:"valid"`
	UpdateTime  int64 `json:"updateTime" bson:"updateTime"`
}

func (p *Proposal) Expired(now int64) bool {
	return now >= p.ExpiryTime
}

func (p *Proposal) FullyFunded() bool {
	return p.NextMilestone >= len(p.Milestones)
}

// RequiredVotes returns the cumulative tally needed to release the milestone
// at index i, i.e. the sum of thresholds through i. Surplus votes from an
// earlier milestone carry over to the next.
func (p *Proposal) RequiredVotes(i int) uint64 {
	var sum uint64
	for j := 0; j <= i && j < len(p.Milestones); j++ {
		sum += p.Milestones[j].VoteThreshold
	}
	return sum
}

func (p *Proposal) MilestoneStatus(i int) (released, verified bool, err error) {
	if i < 0 || i >= len(p.Milestones) {
		return false, false, ErrMilestoneNotFound
	}
	return p.Milestones[i].Released, p.Milestones[i].Verified, nil
}
