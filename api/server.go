// Package api
package api

import (
	"strconv"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/cfg"
	"github.com/civicfund/quadfund-backend/server"
	"github.com/civicfund/quadfund-backend/types"
)

// Server adapts the engine to the REST surface. Role grants come from the
// Authorization header matched against per-role secrets; caller identity
// from the X-Caller-Address header.
type Server struct {
	srv *server.Server

	adminSecret  string
	oracleSecret string
	engineSecret string

	logger *zap.Logger
}

func NewServer(srv *server.Server, serviceCfg cfg.FundConfig, logger *zap.Logger) *Server {
	return &Server{
		srv:          srv,
		adminSecret:  serviceCfg.AdminSecret,
		oracleSecret: serviceCfg.OracleSecret,
		engineSecret: serviceCfg.EngineSecret,
		logger:       logger,
	}
}

func (s *Server) authContext(c echo.Context) types.AuthContext {
	auth := types.AuthContext{
		Caller: c.Request().Header.Get("X-Caller-Address"),
	}
	secret := c.Request().Header.Get("Authorization")
	if secret == "" {
		return auth
	}
	if s.adminSecret != "" && secret == s.adminSecret {
		auth.Roles = append(auth.Roles, types.RoleAdmin)
	}
	if s.oracleSecret != "" && secret == s.oracleSecret {
		auth.Roles = append(auth.Roles, types.RoleOracleAdmin)
	}
	if s.engineSecret != "" && secret == s.engineSecret {
		auth.Roles = append(auth.Roles, types.RoleEngine)
	}
	return auth
}

func getPagination(c echo.Context) *types.Pagination {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		limit = 0
	}
	// Sanitize the limit before deriving the skip, so a request without an
	// explicit limit still pages.
	pagination := &types.Pagination{Limit: limit}
	pagination.Sanitize()
	pagination.Skip = (page - 1) * pagination.Limit
	return pagination
}

func (s *Server) Ping(c echo.Context) error {
	return OK.Build(c)
}

func (s *Server) Status(c echo.Context) error {
	state, err := s.srv.Treasury(c.Request().Context())
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(state).Build(c)
}

func (s *Server) Events(c echo.Context) error {
	ctx := c.Request().Context()
	proposalID, err := strconv.ParseUint(c.QueryParam("proposal"), 10, 64)
	if err != nil {
		proposalID = 0
	}
	eventType := c.QueryParam("type")
	events, total, err := s.srv.Events(ctx, eventType, proposalID, getPagination(c))
	if err != nil {
		return FromErr(err).Build(c)
	}
	return OK.SetData(map[string]interface{}{
		"events": events,
		"total":  total,
	}).Build(c)
}
