// Package api
package api

import (
	"strconv"

	"github.com/labstack/echo"
	"go.uber.org/zap"
)

type createProposalRequest struct {
	Descriptions []string `json:"descriptions"`
	Amounts      []uint64 `json:"amounts"`
}

func (s *Server) CreateProposal(c echo.Context) error {
	ctx := c.Request().Context()
	lgr := s.logger.With(zap.String("method", "CreateProposal"))

	var req createProposalRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	proposal, err := s.srv.CreateProposal(ctx, s.authContext(c), req.Descriptions, req.Amounts)
	if err != nil {
		lgr.Debug("Cannot create proposal", zap.Error(err))
		return FromErr(err).Build(c)
	}
	return OK.SetData(proposal).Build(c)
}

func (s *Server) Proposals(c echo.Context) error {
	ctx := c.Request().Context()
	proposals, total, err := s.srv.ActiveProposals(ctx, getPagination(c))
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(map[string]interface{}{
		"proposals": proposals,
		"total":     total,
	}).Build(c)
}

func (s *Server) ProposalDetail(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.Build(c)
	}
	proposal, err := s.srv.Proposal(ctx, id)
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(proposal).Build(c)
}

func (s *Server) MilestoneStatus(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.Build(c)
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return Invalid.Build(c)
	}
	released, verified, err := s.srv.MilestoneStatus(ctx, id, index)
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(map[string]bool{
		"released": released,
		"verified": verified,
	}).Build(c)
}

func (s *Server) KillProposal(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.Build(c)
	}
	if err := s.srv.KillProposal(ctx, s.authContext(c), id); err != nil {
		return FromErr(err).Build(c)
	}
	return OK.Build(c)
}

type voteRequest struct {
	Votes uint64 `json:"votes"`
}

func (s *Server) Vote(c echo.Context) error {
	ctx := c.Request().Context()
	lgr := s.logger.With(zap.String("method", "Vote"))

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.Build(c)
	}
	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	result, err := s.srv.Vote(ctx, s.authContext(c), id, req.Votes)
	if err != nil {
		lgr.Debug("Vote rejected", zap.Uint64("proposal", id), zap.Error(err))
		return FromErr(err).Build(c)
	}
	return OK.SetData(result).Build(c)
}

func (s *Server) ReprocessMilestones(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.Build(c)
	}
	result, err := s.srv.ReprocessMilestones(ctx, s.authContext(c), id)
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(result).Build(c)
}

func (s *Server) VoterReputation(c echo.Context) error {
	ctx := c.Request().Context()
	reputation, err := s.srv.VoterReputation(ctx, c.Param("address"))
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(reputation).Build(c)
}

func (s *Server) VoterLedger(c echo.Context) error {
	ctx := c.Request().Context()
	proposalID, err := strconv.ParseUint(c.Param("proposalId"), 10, 64)
	if err != nil {
		return Invalid.Build(c)
	}
	entry, err := s.srv.VoterLedger(ctx, c.Param("address"), proposalID)
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(entry).Build(c)
}

func (s *Server) VoterBalance(c echo.Context) error {
	ctx := c.Request().Context()
	balance, err := s.srv.Ledger().BalanceOf(ctx, c.Param("address"))
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(map[string]uint64{"balance": balance}).Build(c)
}
