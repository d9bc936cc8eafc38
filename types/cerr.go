// Package types
package types

import (
	"errors"
)

// Proposal lifecycle
var ErrProposalNotFound = errors.New("proposal not found")
var ErrProposalNotValid = errors.New("proposal not valid")
var ErrProposalFullyFunded = errors.New("proposal fully funded")
var ErrUnauthorizedBeneficiary = errors.New("beneficiary not allowlisted")
var ErrInvalidMilestones = errors.New("invalid milestones")
var ErrNotExpired = errors.New("proposal not expired")

// Voting
var ErrInvalidVotes = errors.New("vote count must be positive")
var ErrPriorMilestoneUnverified = errors.New("prior milestone unverified")
var ErrInsufficientCredits = errors.New("insufficient credits")

// Treasury
var ErrZeroMintRate = errors.New("mint rate is zero")
var ErrZeroDeposit = errors.New("deposit amount is zero")
var ErrDirectDepositNotAllowed = errors.New("direct deposit not allowed")
var ErrEtaTooSoon = errors.New("eta before minimum delay")
var ErrNotYetDue = errors.New("timelock not yet due")
var ErrAlreadyExecuted = errors.New("timelock already executed")
var ErrTimelockExpired = errors.New("timelock grace period elapsed")
var ErrTimelockNotFound = errors.New("timelock entry not found")
var ErrInsufficientFunds = errors.New("treasury pool insufficient")

// Oracles
var ErrAlreadyInTargetState = errors.New("beneficiary already in target state")
var ErrNotOwner = errors.New("caller is not the proposal beneficiary")
var ErrInvalidProofPointer = errors.New("invalid proof pointer")
var ErrAlreadyApproved = errors.New("milestone proof already approved")
var ErrAlreadyProcessed = errors.New("submission already processed")
var ErrSubmissionNotFound = errors.New("submission not found")
var ErrMilestoneNotFound = errors.New("milestone not found")

// Authorization
var ErrUnauthorized = errors.New("caller lacks required role")
