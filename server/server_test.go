// Package server
package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/db"
	"github.com/civicfund/quadfund-backend/types"
)

var (
	adminAuth  = types.AuthContext{Caller: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa1", Roles: []types.Role{types.RoleAdmin}}
	oracleAuth = types.AuthContext{Caller: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa2", Roles: []types.Role{types.RoleOracleAdmin}}
	engineAuth = types.AuthContext{Caller: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa3", Roles: []types.Role{types.RoleEngine}}

	testBeneficiary = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb1"
	testVoter       = "0xcccccccccccccccccccccccccccccccccccccc01"
)

// testClock stands in for time.Now so tests can walk through proposal
// windows and timelock delays deterministically.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1700000000, 0)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func createTestSrv(t *testing.T) (*Server, *testClock) {
	srv, err := New(Config{
		StorageAdapter: db.Memory,

		Tier1DiscountPct: 4,
		Tier2DiscountPct: 8,

		ProposalWindow:   7 * 24 * time.Hour,
		TimelockMinDelay: 48 * time.Hour,
		TimelockGrace:    14 * 24 * time.Hour,

		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	clock := newTestClock()
	srv.SetNowFunc(clock.Now)
	return srv, clock
}

func approveTestBeneficiary(t *testing.T, srv *Server, address string) {
	err := srv.ApproveBeneficiary(context.Background(), oracleAuth, address, "ipfs://QmBeneficiaryDetail")
	require.NoError(t, err)
}

func createTestProposal(t *testing.T, srv *Server, beneficiary string, amounts ...uint64) *types.Proposal {
	descriptions := make([]string, len(amounts))
	for i := range amounts {
		descriptions[i] = "milestone"
	}
	proposal, err := srv.CreateProposal(context.Background(), types.AuthContext{Caller: beneficiary}, descriptions, amounts)
	require.NoError(t, err)
	return proposal
}

func fundVoter(t *testing.T, srv *Server, voter string, credits uint64) {
	require.NoError(t, srv.Ledger().Mint(context.Background(), voter, credits))
}

// faultyClient wraps a working Client and fails selected writes, for
// exercising the compensation paths.
type faultyClient struct {
	db.Client
	failUpsertVote       bool
	failUpsertReputation bool
}

func (f *faultyClient) UpsertVoteLedgerEntry(ctx context.Context, entry *types.VoteLedgerEntry) error {
	if f.failUpsertVote {
		return errors.New("storage unavailable")
	}
	return f.Client.UpsertVoteLedgerEntry(ctx, entry)
}

func (f *faultyClient) UpsertReputationRecord(ctx context.Context, record *types.ReputationRecord) error {
	if f.failUpsertReputation {
		return errors.New("storage unavailable")
	}
	return f.Client.UpsertReputationRecord(ctx, record)
}

type faultyLedger struct {
	CreditLedger
	failMint bool
}

func (l *faultyLedger) Mint(ctx context.Context, address string, amount uint64) error {
	if l.failMint {
		return errors.New("ledger unavailable")
	}
	return l.CreditLedger.Mint(ctx, address, amount)
}

func TestNew_DefaultsApplied(t *testing.T) {
	srv, _ := createTestSrv(t)
	require.Equal(t, uint64(100), srv.voteScale)
	require.Equal(t, uint64(1), srv.defaultMintRate)
}
