// Package server
package server

import (
	"go.uber.org/zap"

	"github.com/civicfund/quadfund-backend/types"
)

// authorize rejects before any state is read or written. Role checks take
// the caller context explicitly; there is no ambient admin.
func (s *Server) authorize(auth types.AuthContext, role types.Role) error {
	if auth.HasRole(role) {
		return nil
	}
	s.logger.Warn("Unauthorized call",
		zap.String("caller", auth.Caller),
		zap.String("requiredRole", string(role)))
	return types.ErrUnauthorized
}
