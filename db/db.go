// Package db
package db

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

type Adapter string

const (
	MGO    Adapter = "mgo"
	Memory Adapter = "memory"
)

type Config struct {
	DbAdapter Adapter
	DbName    string
	URL       string
	MinConn   int
	MaxConn   int
	FlushDB   bool

	Logger *zap.Logger
}

type IProposals interface {
	NextProposalID(ctx context.Context) (uint64, error)
	InsertProposal(ctx context.Context, p *types.Proposal) error
	ProposalByID(ctx context.Context, id uint64) (*types.Proposal, error)
	UpdateProposal(ctx context.Context, p *types.Proposal) error
	ActiveProposals(ctx context.Context, pagination *types.Pagination) ([]*types.Proposal, uint64, error)
}

type IVotes interface {
	// VoteLedgerEntry returns (nil, nil) when the voter has no position yet.
	VoteLedgerEntry(ctx context.Context, voter string, proposalID uint64) (*types.VoteLedgerEntry, error)
	UpsertVoteLedgerEntry(ctx context.Context, entry *types.VoteLedgerEntry) error
}

type IReputation interface {
	// ReputationRecord returns (nil, nil) for a first-time voter.
	ReputationRecord(ctx context.Context, voter string) (*types.ReputationRecord, error)
	UpsertReputationRecord(ctx context.Context, record *types.ReputationRecord) error
}

type ITimelocks interface {
	NextTimelockID(ctx context.Context) (uint64, error)
	InsertTimelock(ctx context.Context, entry *types.TimelockEntry) error
	TimelockByID(ctx context.Context, id uint64) (*types.TimelockEntry, error)
	// MarkTimelockExecuted flips the executed flag exactly once; a second
	// call returns types.ErrAlreadyExecuted.
	MarkTimelockExecuted(ctx context.Context, id uint64, executedTime int64) error
	DueTimelocks(ctx context.Context, now int64) ([]*types.TimelockEntry, error)
	ListTimelocks(ctx context.Context, pagination *types.Pagination) ([]*types.TimelockEntry, uint64, error)
}

type IBeneficiaries interface {
	// Beneficiary returns (nil, nil) when the address was never registered.
	Beneficiary(ctx context.Context, address string) (*types.Beneficiary, error)
	UpsertBeneficiary(ctx context.Context, b *types.Beneficiary) error
}

type IProofs interface {
	NextSubmissionID(ctx context.Context) (uint64, error)
	InsertProofSubmission(ctx context.Context, s *types.ProofSubmission) error
	ProofSubmissionByID(ctx context.Context, id uint64) (*types.ProofSubmission, error)
	// SettleProofSubmission records a review decision exactly once; it fails
	// with types.ErrAlreadyProcessed when the stored row is no longer pending.
	SettleProofSubmission(ctx context.Context, s *types.ProofSubmission) error
	ApprovedSubmissionExists(ctx context.Context, proposalID uint64, milestoneIndex int) (bool, error)
	ProofSubmissionsByProposal(ctx context.Context, proposalID uint64, pagination *types.Pagination) ([]*types.ProofSubmission, uint64, error)
}

type IBalances interface {
	Balance(ctx context.Context, address string) (uint64, error)
	AddBalance(ctx context.Context, address string, amount uint64) error
	// SubBalance fails with types.ErrInsufficientCredits when the balance
	// cannot cover the amount; the balance is left untouched in that case.
	SubBalance(ctx context.Context, address string, amount uint64) error
}

type ITreasury interface {
	// TreasuryState creates the singleton accounting document with the
	// given default mint rate on first read.
	TreasuryState(ctx context.Context, defaultMintRate uint64) (*types.TreasuryState, error)
	UpdateTreasuryState(ctx context.Context, state *types.TreasuryState) error
}

type IEvents interface {
	InsertEvent(ctx context.Context, event *types.Event) error
	ListEvents(ctx context.Context, eventType string, proposalID uint64, pagination *types.Pagination) ([]*types.Event, uint64, error)
}

type Client interface {
	ping() error
	dropDatabase(ctx context.Context) error

	IProposals
	IVotes
	IReputation
	ITimelocks
	IBeneficiaries
	IProofs
	IBalances
	ITreasury
	IEvents
}

func NewClient(cfg Config) (Client, error) {
	switch cfg.DbAdapter {
	case MGO:
		return newMongoDB(cfg)
	case Memory:
		return newMemDB(cfg)
	default:
		return nil, errors.New("invalid db config")
	}
}
