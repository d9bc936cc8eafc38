// Package api
package api

import (
	"strconv"

	"github.com/labstack/echo"
)

type beneficiaryRequest struct {
	Address       string `json:"address"`
	DetailPointer string `json:"detailPointer"`
}

func (s *Server) ApproveBeneficiary(c echo.Context) error {
	ctx := c.Request().Context()
	var req beneficiaryRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	if err := s.srv.ApproveBeneficiary(ctx, s.authContext(c), req.Address, req.DetailPointer); err != nil {
		return FromErr(err).Build(c)
	}
	return OK.Build(c)
}

func (s *Server) RevokeBeneficiary(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.srv.RevokeBeneficiary(ctx, s.authContext(c), c.Param("address")); err != nil {
		return FromErr(err).Build(c)
	}
	return OK.Build(c)
}

func (s *Server) BeneficiaryDetail(c echo.Context) error {
	ctx := c.Request().Context()
	beneficiary, err := s.srv.BeneficiaryDetail(ctx, c.Param("address"))
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(beneficiary).Build(c)
}

type submitProofRequest struct {
	ProposalID     uint64 `json:"proposalId"`
	MilestoneIndex int    `json:"milestoneIndex"`
	Pointer        string `json:"pointer"`
}

func (s *Server) SubmitProof(c echo.Context) error {
	ctx := c.Request().Context()
	var req submitProofRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	submission, err := s.srv.SubmitProof(ctx, s.authContext(c), req.ProposalID, req.MilestoneIndex, req.Pointer)
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(submission).Build(c)
}

type reviewProofRequest struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}

func (s *Server) ReviewProof(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.Build(c)
	}
	var req reviewProofRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	if err := s.srv.ReviewProof(ctx, s.authContext(c), id, req.Approved, req.Reason); err != nil {
		return FromErr(err).Build(c)
	}
	return OK.Build(c)
}

func (s *Server) ProofSubmissions(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.Build(c)
	}
	submissions, total, err := s.srv.ProofSubmissions(ctx, id, getPagination(c))
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(map[string]interface{}{
		"submissions": submissions,
		"total":       total,
	}).Build(c)
}
