// Package api
package api

import (
	"strconv"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

type amountRequest struct {
	Amount uint64 `json:"amount"`
}

func (s *Server) Deposit(c echo.Context) error {
	ctx := c.Request().Context()
	lgr := s.logger.With(zap.String("method", "Deposit"))

	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	minted, err := s.srv.Deposit(ctx, s.authContext(c), req.Amount)
	if err != nil {
		lgr.Debug("Deposit rejected", zap.Error(err))
		return FromErr(err).Build(c)
	}
	return OK.SetData(map[string]uint64{"minted": minted}).Build(c)
}

// DirectTransfer exists to reject base-currency entry outside Deposit.
func (s *Server) DirectTransfer(c echo.Context) error {
	return FromErr(types.ErrDirectDepositNotAllowed).Build(c)
}

type mintRateRequest struct {
	Rate uint64 `json:"rate"`
}

func (s *Server) SetMintRate(c echo.Context) error {
	ctx := c.Request().Context()
	var req mintRateRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	if err := s.srv.SetMintRate(ctx, s.authContext(c), req.Rate); err != nil {
		return FromErr(err).Build(c)
	}
	return OK.Build(c)
}

func (s *Server) TreasuryStatus(c echo.Context) error {
	ctx := c.Request().Context()
	state, err := s.srv.Treasury(ctx)
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(state).Build(c)
}

type queueTransferRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	Eta       int64  `json:"eta"`
}

func (s *Server) QueueTransfer(c echo.Context) error {
	ctx := c.Request().Context()
	var req queueTransferRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	id, err := s.srv.QueueTransfer(ctx, s.authContext(c), req.Recipient, req.Amount, req.Eta)
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(map[string]uint64{"timelockId": id}).Build(c)
}

func (s *Server) ExecuteTimelock(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return Invalid.Build(c)
	}
	if err := s.srv.ExecuteTimelock(ctx, id); err != nil {
		return FromErr(err).Build(c)
	}
	return OK.Build(c)
}

func (s *Server) Timelocks(c echo.Context) error {
	ctx := c.Request().Context()
	entries, total, err := s.srv.Timelocks(ctx, getPagination(c))
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(map[string]interface{}{
		"timelocks": entries,
		"total":     total,
	}).Build(c)
}

type burnRequest struct {
	Voter  string `json:"voter"`
	Amount uint64 `json:"amount"`
}

func (s *Server) BurnCredits(c echo.Context) error {
	ctx := c.Request().Context()
	var req burnRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	if err := s.srv.BurnCredits(ctx, s.authContext(c), req.Voter, req.Amount); err != nil {
		return FromErr(err).Build(c)
	}
	return OK.Build(c)
}

type disburseRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

func (s *Server) Disburse(c echo.Context) error {
	ctx := c.Request().Context()
	var req disburseRequest
	if err := c.Bind(&req); err != nil {
		return Invalid.Build(c)
	}
	if err := s.srv.Disburse(ctx, s.authContext(c), req.Recipient, req.Amount); err != nil {
		return FromErr(err).Build(c)
	}
	return OK.Build(c)
}
