// Package types
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProposal() *Proposal {
	return &Proposal{
		ID: 1,
		Milestones: []*Milestone{
			{VoteThreshold: 2},
			{VoteThreshold: 3},
			{VoteThreshold: 5},
		},
		ExpiryTime: 1000,
		Valid:      true,
	}
}

func TestProposal_RequiredVotes(t *testing.T) {
	p := testProposal()
	assert.Equal(t, uint64(2), p.RequiredVotes(0))
	assert.Equal(t, uint64(5), p.RequiredVotes(1))
	assert.Equal(t, uint64(10), p.RequiredVotes(2))
	// Out-of-range index clamps to the full sum.
	assert.Equal(t, uint64(10), p.RequiredVotes(7))
}

func TestProposal_Expired(t *testing.T) {
	p := testProposal()
	assert.False(t, p.Expired(999))
	assert.True(t, p.Expired(1000))
	assert.True(t, p.Expired(1001))
}

func TestProposal_FullyFunded(t *testing.T) {
	p := testProposal()
	assert.False(t, p.FullyFunded())
	p.NextMilestone = 2
	assert.False(t, p.FullyFunded())
	p.NextMilestone = 3
	assert.True(t, p.FullyFunded())
}

func TestProposal_MilestoneStatus(t *testing.T) {
	p := testProposal()
	p.Milestones[1].Released = true

	released, verified, err := p.MilestoneStatus(1)
	assert.NoError(t, err)
	assert.True(t, released)
	assert.False(t, verified)

	_, _, err = p.MilestoneStatus(-1)
	assert.Equal(t, ErrMilestoneNotFound, err)
	_, _, err = p.MilestoneStatus(3)
	assert.Equal(t, ErrMilestoneNotFound, err)
}
