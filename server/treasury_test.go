// Package server
package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicfund/quadfund-backend/types"
)

func TestDeposit_MintsAtRate(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	depositor := types.AuthContext{Caller: testVoter}

	minted, err := srv.Deposit(ctx, depositor, 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), minted)

	balance, err := srv.Ledger().BalanceOf(ctx, testVoter)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), balance)

	require.NoError(t, srv.SetMintRate(ctx, adminAuth, 3))
	minted, err = srv.Deposit(ctx, depositor, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), minted)

	state, err := srv.Treasury(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), state.PoolBalance)
	assert.Equal(t, uint64(600), state.TotalDeposited)
}

func TestDeposit_Rejections(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	depositor := types.AuthContext{Caller: testVoter}

	_, err := srv.Deposit(ctx, types.AuthContext{}, 100)
	assert.Equal(t, types.ErrUnauthorized, err)

	_, err = srv.Deposit(ctx, depositor, 0)
	assert.Equal(t, types.ErrZeroDeposit, err)

	require.NoError(t, srv.SetMintRate(ctx, adminAuth, 0))
	_, err = srv.Deposit(ctx, depositor, 100)
	assert.Equal(t, types.ErrZeroMintRate, err)

	err = srv.SetMintRate(ctx, depositor, 2)
	assert.Equal(t, types.ErrUnauthorized, err)
}

func TestDeposit_FailedMintRevertsState(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	srv.SetLedger(&faultyLedger{CreditLedger: srv.Ledger(), failMint: true})

	_, err := srv.Deposit(ctx, types.AuthContext{Caller: testVoter}, 500)
	require.Error(t, err)

	// The pool accounting was rolled back along with the failed mint.
	state, err := srv.Treasury(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), state.PoolBalance)
	assert.Equal(t, uint64(0), state.TotalDeposited)
}

func TestQueueTransfer_MinDelay(t *testing.T) {
	ctx := context.Background()
	srv, clock := createTestSrv(t)

	_, err := srv.QueueTransfer(ctx, adminAuth, testBeneficiary, 100, clock.Now().Add(72*time.Hour).Unix())
	assert.Equal(t, types.ErrUnauthorized, err)

	_, err = srv.QueueTransfer(ctx, engineAuth, testBeneficiary, 100, clock.Now().Add(48*time.Hour).Unix()-1)
	assert.Equal(t, types.ErrEtaTooSoon, err)

	id, err := srv.QueueTransfer(ctx, engineAuth, testBeneficiary, 100, clock.Now().Add(48*time.Hour).Unix())
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestExecuteTimelock_Lifecycle(t *testing.T) {
	ctx := context.Background()
	srv, clock := createTestSrv(t)
	_, err := srv.Deposit(ctx, types.AuthContext{Caller: testVoter}, 1000)
	require.NoError(t, err)

	eta := clock.Now().Add(48 * time.Hour).Unix()
	id, err := srv.QueueTransfer(ctx, engineAuth, testBeneficiary, 400, eta)
	require.NoError(t, err)

	assert.Equal(t, types.ErrNotYetDue, srv.ExecuteTimelock(ctx, id))

	clock.Advance(48 * time.Hour)
	due, err := srv.DueTimelocks(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, id, due[0].ID)

	require.NoError(t, srv.ExecuteTimelock(ctx, id))
	assert.Equal(t, types.ErrAlreadyExecuted, srv.ExecuteTimelock(ctx, id))

	state, err := srv.Treasury(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), state.PoolBalance)
	assert.Equal(t, uint64(400), state.TotalDisbursed)

	entry, err := srv.Timelock(ctx, id)
	require.NoError(t, err)
	assert.True(t, entry.Executed)
	assert.Equal(t, clock.Now().Unix(), entry.ExecutedTime)

	// Executed entries drop out of the due list.
	due, err = srv.DueTimelocks(ctx)
	require.NoError(t, err)
	assert.Len(t, due, 0)
}

func TestExecuteTimelock_GraceCutoff(t *testing.T) {
	ctx := context.Background()
	srv, clock := createTestSrv(t)
	_, err := srv.Deposit(ctx, types.AuthContext{Caller: testVoter}, 1000)
	require.NoError(t, err)

	id, err := srv.QueueTransfer(ctx, engineAuth, testBeneficiary, 100, clock.Now().Add(48*time.Hour).Unix())
	require.NoError(t, err)

	clock.Advance(48*time.Hour + 14*24*time.Hour + time.Second)
	assert.Equal(t, types.ErrTimelockExpired, srv.ExecuteTimelock(ctx, id))
}

func TestExecuteTimelock_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	srv, clock := createTestSrv(t)

	id, err := srv.QueueTransfer(ctx, engineAuth, testBeneficiary, 100, clock.Now().Add(48*time.Hour).Unix())
	require.NoError(t, err)

	clock.Advance(48 * time.Hour)
	assert.Equal(t, types.ErrInsufficientFunds, srv.ExecuteTimelock(ctx, id))

	assert.Equal(t, types.ErrTimelockNotFound, srv.ExecuteTimelock(ctx, 9999))
}

func TestBurnCredits(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	fundVoter(t, srv, testVoter, 100)

	assert.Equal(t, types.ErrUnauthorized, srv.BurnCredits(ctx, engineAuth, testVoter, 40))

	require.NoError(t, srv.BurnCredits(ctx, adminAuth, testVoter, 40))
	balance, err := srv.Ledger().BalanceOf(ctx, testVoter)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), balance)

	state, err := srv.Treasury(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), state.TotalBurned)

	assert.Equal(t, types.ErrInsufficientCredits, srv.BurnCredits(ctx, adminAuth, testVoter, 1000))
}

func TestDisburse(t *testing.T) {
	ctx := context.Background()
	srv, _ := createTestSrv(t)
	_, err := srv.Deposit(ctx, types.AuthContext{Caller: testVoter}, 500)
	require.NoError(t, err)

	assert.Equal(t, types.ErrUnauthorized, srv.Disburse(ctx, engineAuth, testBeneficiary, 100))
	assert.Equal(t, types.ErrInsufficientFunds, srv.Disburse(ctx, adminAuth, testBeneficiary, 600))

	require.NoError(t, srv.Disburse(ctx, adminAuth, testBeneficiary, 200))
	state, err := srv.Treasury(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), state.PoolBalance)
	assert.Equal(t, uint64(200), state.TotalDisbursed)
}
