// Package api
package api

import (
	"github.com/labstack/echo"
)

// RestServer define all API expose
type RestServer interface {
	// General
	Ping(c echo.Context) error
	Status(c echo.Context) error
	Events(c echo.Context) error

	// Proposals & voting
	CreateProposal(c echo.Context) error
	Proposals(c echo.Context) error
	ProposalDetail(c echo.Context) error
	MilestoneStatus(c echo.Context) error
	KillProposal(c echo.Context) error
	Vote(c echo.Context) error
	ReprocessMilestones(c echo.Context) error
	VoterReputation(c echo.Context) error
	VoterLedger(c echo.Context) error
	VoterBalance(c echo.Context) error

	// Treasury
	Deposit(c echo.Context) error
	DirectTransfer(c echo.Context) error
	SetMintRate(c echo.Context) error
	TreasuryStatus(c echo.Context) error
	QueueTransfer(c echo.Context) error
	ExecuteTimelock(c echo.Context) error
	Timelocks(c echo.Context) error
	BurnCredits(c echo.Context) error
	Disburse(c echo.Context) error

	// Oracles
	ApproveBeneficiary(c echo.Context) error
	RevokeBeneficiary(c echo.Context) error
	BeneficiaryDetail(c echo.Context) error
	SubmitProof(c echo.Context) error
	ReviewProof(c echo.Context) error
	ProofSubmissions(c echo.Context) error
}

type restDefinition struct {
	method      string
	path        string
	fn          func(c echo.Context) error
	middlewares []echo.MiddlewareFunc
}

func bindAPIs(gr *echo.Group, srv RestServer) {
	apis := []restDefinition{
		{method: echo.GET, path: "/ping", fn: srv.Ping},
		{method: echo.GET, path: "/status", fn: srv.Status},
		{method: echo.GET, path: "/events", fn: srv.Events},

		{method: echo.POST, path: "/proposals", fn: srv.CreateProposal},
		{method: echo.GET, path: "/proposals", fn: srv.Proposals},
		{method: echo.GET, path: "/proposals/:id", fn: srv.ProposalDetail},
		{method: echo.GET, path: "/proposals/:id/milestones/:index", fn: srv.MilestoneStatus},
		{method: echo.DELETE, path: "/proposals/:id", fn: srv.KillProposal},
		{method: echo.POST, path: "/proposals/:id/votes", fn: srv.Vote},
		{method: echo.POST, path: "/proposals/:id/reprocess", fn: srv.ReprocessMilestones},
		{method: echo.GET, path: "/proposals/:id/proofs", fn: srv.ProofSubmissions},
		{method: echo.GET, path: "/voters/:address/reputation", fn: srv.VoterReputation},
		{method: echo.GET, path: "/voters/:address/ledger/:proposalId", fn: srv.VoterLedger},
		{method: echo.GET, path: "/voters/:address/balance", fn: srv.VoterBalance},

		{method: echo.POST, path: "/treasury/deposit", fn: srv.Deposit},
		{method: echo.POST, path: "/treasury/transfer", fn: srv.DirectTransfer},
		{method: echo.PUT, path: "/treasury/mintrate", fn: srv.SetMintRate},
		{method: echo.GET, path: "/treasury", fn: srv.TreasuryStatus},
		{method: echo.POST, path: "/treasury/queue", fn: srv.QueueTransfer},
		{method: echo.POST, path: "/treasury/burn", fn: srv.BurnCredits},
		{method: echo.POST, path: "/treasury/disburse", fn: srv.Disburse},
		{method: echo.GET, path: "/timelocks", fn: srv.Timelocks},
		{method: echo.POST, path: "/timelocks/:id/execute", fn: srv.ExecuteTimelock},

		{method: echo.POST, path: "/beneficiaries", fn: srv.ApproveBeneficiary},
		{method: echo.DELETE, path: "/beneficiaries/:address", fn: srv.RevokeBeneficiary},
		{method: echo.GET, path: "/beneficiaries/:address", fn: srv.BeneficiaryDetail},
		{method: echo.POST, path: "/proofs", fn: srv.SubmitProof},
		{method: echo.PUT, path: "/proofs/:id/review", fn: srv.ReviewProof},
	}
	for _, api := range apis {
		gr.Add(api.method, api.path, api.fn, api.middlewares...)
	}
}
